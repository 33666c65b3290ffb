package assistant

import (
	"fmt"
	"strings"
)

// systemPreamble frames every request. The assistant lives next to a
// browser pane, so answers should lean on the page when one is loaded.
const systemPreamble = "You are a helpful assistant embedded in a web browser. " +
	"When page content is provided, use it to ground your answer. " +
	"Keep responses concise and directly useful."

// maxContextChars caps how much extracted page text goes into a prompt.
// Extraction itself is uncapped; the budget applies only here.
const maxContextChars = 4000

const promptSeparator = "\n---\n\n"

// PageContext is a read-only snapshot of the page the user is viewing,
// taken at request-build time. Either field may be empty.
type PageContext struct {
	URL  string
	Text string
}

// buildPrompt assembles the single prompt string sent to the model:
// preamble, then the page block when both URL and text are present, then
// the separator and the user's utterance.
func buildPrompt(userText string, page PageContext) string {
	var sb strings.Builder
	sb.WriteString(systemPreamble)
	sb.WriteString("\n\n")

	if page.URL != "" && page.Text != "" {
		text := page.Text
		if len(text) > maxContextChars {
			text = text[:maxContextChars]
		}
		fmt.Fprintf(&sb, "The user is currently viewing %s\nPage content:\n%s\n", page.URL, text)
	}

	sb.WriteString(promptSeparator)
	sb.WriteString(userText)
	return sb.String()
}
