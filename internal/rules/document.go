package rules

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Page is a parsed HTML page ready for rule evaluation.
type Page struct {
	// URL is the page's address, attached to every violation.
	URL string

	// root is the parsed document root. Nil when parsing failed, in which
	// case every rule sees an empty page and reports nothing.
	root *html.Node

	// labeledIDs holds the ids referenced by <label for="..."> elements.
	labeledIDs map[string]bool
}

// ParsePage parses HTML content into a Page.
//
// html.Parse is lenient and recovers from malformed markup the way
// browsers do, so parse errors are rare; when one does occur the page is
// treated as empty rather than failing the scan.
func ParsePage(pageURL string, content io.Reader) *Page {
	p := &Page{
		URL:        pageURL,
		labeledIDs: make(map[string]bool),
	}

	root, err := html.Parse(content)
	if err != nil {
		return p
	}
	p.root = root

	p.walk(func(n *html.Node) {
		if n.Data == "label" {
			if forID := getAttr(n, "for"); forID != "" {
				p.labeledIDs[forID] = true
			}
		}
	})

	return p
}

// walk visits every element node in document order.
func (p *Page) walk(visit func(n *html.Node)) {
	if p.root == nil {
		return
	}

	var recurse func(*html.Node)
	recurse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			visit(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			recurse(c)
		}
	}
	recurse(p.root)
}

// isLabeled reports whether an input is programmatically labeled: by a
// <label for=...> reference, an enclosing <label>, or an ARIA attribute.
// A placeholder is not a label; it disappears on input and is skipped by
// many screen readers.
func (p *Page) isLabeled(n *html.Node) bool {
	if id := getAttr(n, "id"); id != "" && p.labeledIDs[id] {
		return true
	}
	if getAttr(n, "aria-label") != "" || getAttr(n, "aria-labelledby") != "" {
		return true
	}
	if getAttr(n, "title") != "" {
		return true
	}
	for a := n.Parent; a != nil; a = a.Parent {
		if a.Type == html.ElementNode && a.Data == "label" {
			return true
		}
	}
	return false
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}

// hasAttr reports whether an attribute is present, even when empty.
func hasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return true
		}
	}
	return false
}

// isDecorative reports whether an element is hidden from assistive
// technology and therefore exempt from name/text requirements.
func isDecorative(n *html.Node) bool {
	return getAttr(n, "aria-hidden") == "true" || getAttr(n, "role") == "presentation"
}

// textContent returns the concatenated text of a node's subtree, plus the
// alt text of any images, which screen readers announce as link text.
func textContent(n *html.Node) string {
	var sb strings.Builder

	var recurse func(*html.Node)
	recurse = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
		case html.ElementNode:
			if n.Data == "img" {
				sb.WriteString(getAttr(n, "alt"))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			recurse(c)
		}
	}
	recurse(n)

	return strings.TrimSpace(sb.String())
}

// elementSummary renders a short html-like descriptor of an element for
// violation reports, keeping only the listed attributes.
func elementSummary(n *html.Node, attrs ...string) string {
	var sb strings.Builder
	sb.WriteString("<")
	sb.WriteString(n.Data)
	for _, key := range attrs {
		if val := getAttr(n, key); val != "" {
			sb.WriteString(" ")
			sb.WriteString(key)
			sb.WriteString(`="`)
			sb.WriteString(truncate(val, 60))
			sb.WriteString(`"`)
		}
	}
	sb.WriteString(">")
	return sb.String()
}

// truncate shortens a string for display in reports.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
