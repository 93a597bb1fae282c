// Package extract converts raw page HTML into clean article text for
// indexing. It runs a readability pass to strip navigation and
// boilerplate, then scans the original document for contact signals
// (mailto/tel links, CTA buttons, footers) that readability discards
// but a support assistant needs to answer escalation questions.
package extract

import (
	"bytes"
	"net/url"
	"strings"

	readability "codeberg.org/readeck/go-readability/v2"
	"golang.org/x/net/html"
)

// ContactConfig controls the contact-signal scan heuristics.
type ContactConfig struct {
	// Keywords a button label must contain (case-insensitive) to count
	// as a contact call-to-action.
	Keywords []string
	// MaxButtonChars is the longest button label considered a CTA.
	MaxButtonChars int
	// MaxFooterChars is the longest footer text worth capturing whole.
	MaxFooterChars int
}

// DefaultContactConfig returns the heuristics tuned for typical
// marketing/support sites.
func DefaultContactConfig() ContactConfig {
	return ContactConfig{
		Keywords:       []string{"contact", "call", "email", "support", "help"},
		MaxButtonChars: 100,
		MaxFooterChars: 500,
	}
}

// Article is the result of extracting a single page.
type Article struct {
	Title string
	Text  string
}

// FromHTML extracts the readable article from a page. It returns nil
// when the page yields no usable text; callers treat that as a filter,
// not an error. Title falls back to the page URL when the document has
// none.
func FromHTML(rawHTML, pageURL string, cfg ContactConfig) *Article {
	parsedURL, _ := url.Parse(pageURL)

	var title, text string
	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err == nil && article.Node != nil {
		var buf bytes.Buffer
		if article.RenderText(&buf) == nil {
			title = article.Title()
			text = normalizeText(buf.String())
		}
	}

	doc, parseErr := html.Parse(strings.NewReader(rawHTML))
	if parseErr == nil {
		if text == "" {
			text = normalizeText(readableText(doc))
		}
		if title == "" {
			title = documentTitle(doc)
		}
	}

	if strings.TrimSpace(text) == "" {
		return nil
	}

	if doc != nil {
		if contact := ContactInfo(doc, cfg); contact != "" {
			text += "\n\nContact Information:\n" + contact
		}
	}

	if title == "" {
		title = pageURL
	}
	return &Article{Title: title, Text: text}
}

// ContactInfo scans a parsed document for contact signals and renders
// them one per line: email and phone links first, then CTA buttons,
// then short footers.
func ContactInfo(doc *html.Node, cfg ContactConfig) string {
	var emails, phones, buttons, footers []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a":
				href := strings.TrimSpace(attrVal(n, "href"))
				if addr, ok := strings.CutPrefix(href, "mailto:"); ok && addr != "" {
					emails = append(emails, signalLine("Email", addr, nodeText(n)))
				}
				if num, ok := strings.CutPrefix(href, "tel:"); ok && num != "" {
					phones = append(phones, signalLine("Phone", num, nodeText(n)))
				}
			case isButtonLike(n):
				label := nodeText(n)
				if label != "" && len(label) < cfg.MaxButtonChars && containsKeyword(label, cfg.Keywords) {
					buttons = append(buttons, "Button: "+label)
				}
			case n.Data == "footer" || attrVal(n, "role") == "contentinfo":
				text := nodeText(n)
				if text != "" && len(text) < cfg.MaxFooterChars {
					footers = append(footers, "Footer info: "+text)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	lines := make([]string, 0, len(emails)+len(phones)+len(buttons)+len(footers))
	lines = append(lines, emails...)
	lines = append(lines, phones...)
	lines = append(lines, buttons...)
	lines = append(lines, footers...)
	return strings.Join(lines, "\n")
}

// signalLine renders "Email: a@b.com (Sales)" when the link label
// differs from the address, and just "Email: a@b.com" otherwise.
func signalLine(kind, value, label string) string {
	if label != "" && label != value {
		return kind + ": " + value + " (" + label + ")"
	}
	return kind + ": " + value
}

func isButtonLike(n *html.Node) bool {
	if n.Data == "button" || attrVal(n, "role") == "button" {
		return true
	}
	for _, class := range strings.Fields(attrVal(n, "class")) {
		if class == "btn" {
			return true
		}
	}
	return false
}

func containsKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// nodeText collapses all text under a node into a single
// whitespace-normalized line.
func nodeText(n *html.Node) string {
	var buf strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteString(" ")
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func documentTitle(doc *html.Node) string {
	var titleNode *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if titleNode != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" {
			titleNode = n
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			find(child)
		}
	}
	find(doc)
	if titleNode == nil {
		return ""
	}
	return nodeText(titleNode)
}

// readableText is the fallback extractor used when readability fails:
// a DOM walk that drops script/style/nav chrome and emits paragraph
// breaks at block boundaries.
func readableText(doc *html.Node) string {
	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "script", "style", "noscript", "nav", "footer", "header", "aside", "form", "template":
				return
			case "p", "div", "section", "article", "li", "pre", "blockquote",
				"h1", "h2", "h3", "h4", "h5", "h6":
				builder.WriteString("\n\n")
			}
			if hasAttr(n, "hidden") || attrVal(n, "aria-hidden") == "true" {
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				builder.WriteString(text)
				builder.WriteString(" ")
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return builder.String()
}

// normalizeText trims each line and collapses runs of blank lines to
// one, preserving paragraph boundaries for the chunker.
func normalizeText(content string) string {
	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if !blank {
				cleaned = append(cleaned, "")
				blank = true
			}
			continue
		}
		blank = false
		cleaned = append(cleaned, trimmed)
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

func hasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}

func attrVal(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
