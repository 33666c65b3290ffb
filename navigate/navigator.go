package navigate

import (
	"go.uber.org/zap"

	"pagechat/extract"
	"pagechat/fetcher"
)

// Page is a snapshot of a loaded page: its URL, title, and best-effort
// extracted visible text. Text may be empty when extraction found nothing.
type Page struct {
	URL   string
	Title string
	Text  string
}

// FetchFunc fetches a URL and returns the result. fetcher.Smart satisfies
// this; tests substitute a stub.
type FetchFunc func(url string) (*fetcher.Result, error)

// Navigator owns the browsing state: the current page, its history, and
// the loading flag. All mutation happens on the caller's goroutine; a
// registered OnChange hook is invoked after every state change so a
// presentation layer can re-render.
type Navigator struct {
	fetch     FetchFunc
	searchURL string
	logger    *zap.Logger

	current  Page
	loading  bool
	back     []Page
	forward  []Page
	onChange func()
}

// New creates a Navigator that loads pages with fetch and resolves
// non-URL input against searchURL.
func New(fetch FetchFunc, searchURL string, logger *zap.Logger) *Navigator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Navigator{
		fetch:     fetch,
		searchURL: searchURL,
		logger:    logger,
	}
}

// OnChange registers a hook invoked after every state change.
func (n *Navigator) OnChange(fn func()) {
	n.onChange = fn
}

// Open resolves free-form input and navigates to the result. The previous
// page, if any, is pushed onto the back stack and the forward stack is
// cleared. Load failures are absorbed: the current page stays as it was.
func (n *Navigator) Open(input string) {
	target := Resolve(input, n.searchURL)
	n.load(target, true)
}

// Reload re-fetches the current page in place. No-op before any
// navigation has completed.
func (n *Navigator) Reload() {
	if n.current.URL == "" {
		return
	}
	n.load(n.current.URL, false)
}

// Back moves to the previous page in history, reporting whether a move
// happened. The page snapshot is restored without a re-fetch.
func (n *Navigator) Back() bool {
	if len(n.back) == 0 {
		return false
	}
	n.forward = append(n.forward, n.current)
	n.current = n.back[len(n.back)-1]
	n.back = n.back[:len(n.back)-1]
	n.notify()
	return true
}

// Forward moves to the next page in the forward stack, reporting whether
// a move happened.
func (n *Navigator) Forward() bool {
	if len(n.forward) == 0 {
		return false
	}
	n.back = append(n.back, n.current)
	n.current = n.forward[len(n.forward)-1]
	n.forward = n.forward[:len(n.forward)-1]
	n.notify()
	return true
}

// Current returns a snapshot of the current page.
func (n *Navigator) Current() Page {
	return n.current
}

// Loading reports whether a navigation is in progress.
func (n *Navigator) Loading() bool {
	return n.loading
}

// CanBack reports whether Back would move.
func (n *Navigator) CanBack() bool {
	return len(n.back) > 0
}

// CanForward reports whether Forward would move.
func (n *Navigator) CanForward() bool {
	return len(n.forward) > 0
}

// BackURLs returns the URLs of the back stack, oldest first.
func (n *Navigator) BackURLs() []string {
	urls := make([]string, len(n.back))
	for i, p := range n.back {
		urls[i] = p.URL
	}
	return urls
}

// ForwardURLs returns the URLs of the forward stack.
func (n *Navigator) ForwardURLs() []string {
	urls := make([]string, len(n.forward))
	for i, p := range n.forward {
		urls[i] = p.URL
	}
	return urls
}

// load fetches target and, on success, records the resulting page. A
// fetch failure only lowers the loading flag; the failure itself is
// visible in the rendering surface, so nothing else is surfaced here.
func (n *Navigator) load(target string, push bool) {
	n.loading = true
	n.notify()

	result, err := n.fetch(target)
	if err != nil {
		n.logger.Warn("navigation failed", zap.String("url", target), zap.Error(err))
		n.loading = false
		n.notify()
		return
	}

	page := Page{
		URL:   result.FinalURL,
		Title: extract.Title(result.HTML),
		Text:  extract.Text(result.HTML),
	}
	if page.URL == "" {
		page.URL = target
	}

	if push && n.current.URL != "" {
		n.back = append(n.back, n.current)
		// New navigation breaks the forward chain
		n.forward = nil
	}
	n.current = page
	n.loading = false
	n.logger.Debug("navigated",
		zap.String("url", page.URL),
		zap.String("title", page.Title),
		zap.Int("textChars", len(page.Text)),
		zap.Bool("usedBrowser", result.UsedBrowser),
		zap.Duration("fetchTime", result.FetchTime))
	n.notify()
}

func (n *Navigator) notify() {
	if n.onChange != nil {
		n.onChange()
	}
}
