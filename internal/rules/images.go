package rules

import (
	"golang.org/x/net/html"

	"github.com/a11yscan/a11yscan/internal/model"
)

// AltTextRule flags <img> elements with no alt attribute.
// Screen readers announce such images by their file name or skip them
// entirely, so informative images become invisible to non-sighted users.
//
// An empty alt="" is not a violation: it is the standard way to mark an
// image as decorative, and flagging it would punish correct markup.
type AltTextRule struct{}

// NewAltTextRule creates a new AltTextRule.
func NewAltTextRule() *AltTextRule {
	return &AltTextRule{}
}

// ID returns the rule identifier.
func (r *AltTextRule) ID() model.RuleID {
	return model.RuleMissingAltText
}

// Name returns the rule name.
func (r *AltTextRule) Name() string {
	return "image alt text"
}

// Check flags every image that lacks an alt attribute and is not hidden
// from assistive technology.
func (r *AltTextRule) Check(page *Page) []model.Violation {
	violations := make([]model.Violation, 0)

	page.walk(func(n *html.Node) {
		if n.Data != "img" {
			return
		}
		if hasAttr(n, "alt") || isDecorative(n) {
			return
		}

		violations = append(violations, newViolation(
			r.ID(),
			elementSummary(n, "src"),
			"Image has no alt attribute, so screen readers cannot describe it.",
			page.URL,
		))
	})

	return violations
}
