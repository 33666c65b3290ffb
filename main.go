// pagechat is a line-oriented browser with a page-aware assistant: open a
// page, then ask questions about it.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"pagechat/assistant"
	"pagechat/chat"
	"pagechat/config"
	"pagechat/extract"
	"pagechat/fetcher"
	"pagechat/navigate"
	"pagechat/session"
)

func main() {
	initConfig := flag.Bool("init-config", false, "print a default config file and exit")
	openURL := flag.String("open", "", "page to open on startup")
	flag.Parse()

	if *initConfig {
		fmt.Print(config.DefaultTOML())
		return
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	fetcher.Configure(fetcher.Options{
		UserAgent:      cfg.Fetcher.UserAgent,
		TimeoutSeconds: cfg.Fetcher.TimeoutSeconds,
		ChromePath:     cfg.Fetcher.ChromePath,
	})

	log := chat.NewLog()
	if cfg.Session.RestoreTranscript {
		if err := log.LoadTranscript(); err != nil {
			logger.Warn("could not restore transcript", zap.Error(err))
		}
	}

	nav := navigate.New(fetcher.Smart, cfg.Search.QueryURL, logger)
	nav.OnChange(func() {
		if nav.Loading() {
			fmt.Println("loading…")
		}
	})

	gw := assistant.NewGateway(log, logger).
		WithModel(cfg.Assistant.Model).
		WithEndpoint(cfg.Assistant.Endpoint)
	if !gw.Available() {
		fmt.Println("note: GEMINI_API_KEY is not set; chat will report a configuration error")
	}

	// Startup page: -open flag wins over the restored session
	switch {
	case *openURL != "":
		nav.Open(*openURL)
		printPage(nav)
	case cfg.Session.RestoreSession:
		if s, err := session.Load(); err == nil && s.Current != "" {
			nav.Open(s.Current)
			printPage(nav)
		}
	}

	fmt.Println("pagechat — :open <url or search>, :help for commands, anything else chats")
	printNewTurns(log, 0)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, arg := line, ""
		if idx := strings.Index(line, " "); idx > 0 {
			cmd, arg = line[:idx], strings.TrimSpace(line[idx+1:])
		}

		switch cmd {
		case ":quit", ":q":
			shutdown(nav, log, logger)
			return

		case ":open", ":o":
			if arg == "" {
				fmt.Println("usage: :open <url or search>")
				continue
			}
			nav.Open(arg)
			printPage(nav)

		case ":back":
			if !nav.Back() {
				fmt.Println("no earlier page")
				continue
			}
			printPage(nav)

		case ":forward":
			if !nav.Forward() {
				fmt.Println("no later page")
				continue
			}
			printPage(nav)

		case ":reload":
			nav.Reload()
			printPage(nav)

		case ":links":
			printLinks(nav)

		case ":clear":
			log.Clear()
			if err := chat.ClearTranscript(); err != nil {
				logger.Warn("could not clear transcript", zap.Error(err))
			}
			fmt.Println("conversation cleared")

		case ":help":
			printHelp()

		default:
			if strings.HasPrefix(cmd, ":") {
				fmt.Printf("unknown command %s (:help for commands)\n", cmd)
				continue
			}
			// Anything else is a chat submission. Refuse a new one while a
			// response is composing rather than letting two requests race.
			if log.Composing() {
				fmt.Println("the assistant is still composing, hold on")
				continue
			}
			before := log.Len()
			log.AddUserTurn(line)
			p := nav.Current()
			gw.Respond(context.Background(), line, assistant.PageContext{
				URL:  p.URL,
				Text: p.Text,
			})
			printNewTurns(log, before)
		}
	}

	shutdown(nav, log, logger)
}

func shutdown(nav *navigate.Navigator, log *chat.Log, logger *zap.Logger) {
	if err := session.Save(&session.Session{
		History: nav.BackURLs(),
		Current: nav.Current().URL,
		Forward: nav.ForwardURLs(),
	}); err != nil {
		logger.Warn("could not save session", zap.Error(err))
	}
	if err := log.SaveTranscript(); err != nil {
		logger.Warn("could not save transcript", zap.Error(err))
	}
}

func printPage(nav *navigate.Navigator) {
	p := nav.Current()
	if p.URL == "" {
		fmt.Println("no page loaded")
		return
	}
	title := p.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Printf("%s — %s (%d chars of text", title, p.URL, len(p.Text))
	if nav.CanBack() {
		fmt.Print(", back available")
	}
	if nav.CanForward() {
		fmt.Print(", forward available")
	}
	fmt.Println(")")
}

func printLinks(nav *navigate.Navigator) {
	p := nav.Current()
	if p.URL == "" {
		fmt.Println("no page loaded")
		return
	}
	result, err := fetcher.Simple(p.URL)
	if err != nil {
		fmt.Printf("could not fetch links: %v\n", err)
		return
	}
	links, err := extract.Links(result.HTML)
	if err != nil {
		fmt.Printf("could not parse links: %v\n", err)
		return
	}
	for i, l := range links {
		label := l.Text
		if label == "" {
			label = "(no text)"
		}
		fmt.Printf("%3d. %s — %s\n", i+1, label, l.Href)
	}
	if len(links) == 0 {
		fmt.Println("no links on this page")
	}
}

func printNewTurns(log *chat.Log, from int) {
	turns := log.Turns()
	for _, turn := range turns[min(from, len(turns)):] {
		switch turn.Role {
		case chat.RoleUser:
			fmt.Printf("you: %s\n", turn.Content)
		case chat.RoleAssistant:
			fmt.Printf("assistant: %s\n", turn.Content)
		}
	}
}

func printHelp() {
	fmt.Println(`commands:
  :open <url or search>   navigate (also :o)
  :back / :forward        move through history
  :reload                 re-fetch the current page
  :links                  list links on the current page
  :clear                  clear the conversation
  :quit                   save session and exit (also :q)

anything that isn't a command is sent to the assistant, grounded on the
text of the current page.`)
}
