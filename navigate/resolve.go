// Package navigate resolves address-bar input and drives page loading,
// history and page-context state for the assistant.
package navigate

import (
	"net/url"
	"strings"
)

// DefaultSearchURL is the query endpoint used when input doesn't resolve
// to a URL. The %s placeholder receives the percent-encoded query.
const DefaultSearchURL = "https://www.google.com/search?q=%s"

// Resolve maps free-form input to a navigable URL. Precedence, in order:
// an input that parses as an absolute URL with a scheme is used verbatim;
// an input shaped like a bare domain (contains "." and no whitespace) gets
// an https prefix; anything else becomes a search query against searchURL.
func Resolve(input, searchURL string) string {
	input = strings.TrimSpace(input)
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}

	if u, err := url.Parse(input); err == nil && u.Scheme != "" {
		return input
	}

	if strings.Contains(input, ".") && !strings.ContainsAny(input, " \t") {
		return "https://" + input
	}

	return strings.Replace(searchURL, "%s", url.QueryEscape(input), 1)
}
