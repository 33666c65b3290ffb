// Package extract pulls visible text and structure out of fetched HTML.
// Extraction is best-effort: a page that fails to parse yields empty
// results rather than an error.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Link is an anchor found in a page.
type Link struct {
	Href string
	Text string
}

// Title returns the contents of the document's <title> element, trimmed.
func Title(src string) string {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return ""
	}
	title := findElement(doc, "title")
	if title == nil {
		return ""
	}
	return strings.TrimSpace(textContent(title))
}

// Text returns the visible text of the document body with whitespace
// collapsed. Script, style and other non-rendered subtrees are skipped.
// No size cap is applied here; callers truncate where they need to.
func Text(src string) string {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return ""
	}
	body := findElement(doc, "body")
	if body == nil {
		body = doc
	}
	var sb strings.Builder
	appendVisibleText(body, &sb)
	return collapseWhitespace(sb.String())
}

// Links returns the anchors of the document in order, with resolved href
// attributes and their visible label text. Anchors without an href are
// skipped.
func Links(src string) ([]Link, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	var links []Link
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" {
			return
		}
		links = append(links, Link{
			Href: href,
			Text: strings.TrimSpace(sel.Text()),
		})
	})
	return links, nil
}

// MetaDescription returns the content of the page's description meta tag,
// or "" if the page has none.
func MetaDescription(src string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return ""
	}
	desc, _ := doc.Find(`meta[name="description"]`).Attr("content")
	return strings.TrimSpace(desc)
}

// skippedElements are subtrees that never contribute visible text.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"iframe":   true,
	"head":     true,
	"svg":      true,
}

// blockElements get a newline separator so adjacent blocks don't run
// together in the extracted text.
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "tr": true, "blockquote": true, "pre": true,
	"br": true, "header": true, "footer": true, "nav": true,
}

func appendVisibleText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode && skippedElements[n.Data] {
		return
	}
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendVisibleText(c, sb)
	}
	if n.Type == html.ElementNode && blockElements[n.Data] {
		sb.WriteString("\n")
	}
}

// collapseWhitespace squeezes runs of spaces and blank lines so extracted
// text stays readable when embedded in a prompt.
func collapseWhitespace(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
