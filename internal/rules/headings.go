package rules

import (
	"golang.org/x/net/html"

	"github.com/a11yscan/a11yscan/internal/model"
)

// countH1 counts <h1> elements on a page.
func countH1(page *Page) int {
	count := 0
	page.walk(func(n *html.Node) {
		if n.Data == "h1" {
			count++
		}
	})
	return count
}

// MissingH1Rule flags pages with no <h1> element.
// The top-level heading anchors the page outline that screen reader users
// navigate by; without one the page has no announced topic.
type MissingH1Rule struct{}

// NewMissingH1Rule creates a new MissingH1Rule.
func NewMissingH1Rule() *MissingH1Rule {
	return &MissingH1Rule{}
}

// ID returns the rule identifier.
func (r *MissingH1Rule) ID() model.RuleID {
	return model.RuleMissingH1
}

// Name returns the rule name.
func (r *MissingH1Rule) Name() string {
	return "missing h1"
}

// Check reports one violation when the page has no <h1>.
// Pages that failed to parse report nothing; absence of markup is not
// absence of a heading.
func (r *MissingH1Rule) Check(page *Page) []model.Violation {
	if page.root == nil {
		return nil
	}
	if countH1(page) > 0 {
		return nil
	}

	return []model.Violation{newViolation(
		r.ID(),
		"<body>",
		"Page has no h1 heading, leaving the document outline without a top level.",
		page.URL,
	)}
}

// MultipleH1Rule flags pages with more than one <h1> element.
// Several h1 headings make the outline ambiguous: assistive technology
// cannot tell which one names the page.
type MultipleH1Rule struct{}

// NewMultipleH1Rule creates a new MultipleH1Rule.
func NewMultipleH1Rule() *MultipleH1Rule {
	return &MultipleH1Rule{}
}

// ID returns the rule identifier.
func (r *MultipleH1Rule) ID() model.RuleID {
	return model.RuleMultipleH1
}

// Name returns the rule name.
func (r *MultipleH1Rule) Name() string {
	return "multiple h1"
}

// Check reports one violation when the page has more than one <h1>.
func (r *MultipleH1Rule) Check(page *Page) []model.Violation {
	if countH1(page) <= 1 {
		return nil
	}

	return []model.Violation{newViolation(
		r.ID(),
		"<h1>",
		"Page has more than one h1 heading, making the document outline ambiguous.",
		page.URL,
	)}
}
