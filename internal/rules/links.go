package rules

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/a11yscan/a11yscan/internal/model"
)

// genericLinkTexts are link texts that carry no meaning out of context.
// Screen reader users commonly navigate by a list of the page's links, so
// a dozen "click here" entries are indistinguishable from each other.
var genericLinkTexts = map[string]bool{
	"click here": true,
	"read more":  true,
	"more":       true,
	"here":       true,
	"link":       true,
	"this":       true,
}

// accessibleName returns the name assistive technology would announce for
// a link: aria-label wins, otherwise the subtree text including image alt.
func accessibleName(n *html.Node) string {
	if label := strings.TrimSpace(getAttr(n, "aria-label")); label != "" {
		return label
	}
	return textContent(n)
}

// LinkNameRule flags hyperlinks with no accessible name: no text content,
// no aria-label, and no alt text on contained images.
type LinkNameRule struct{}

// NewLinkNameRule creates a new LinkNameRule.
func NewLinkNameRule() *LinkNameRule {
	return &LinkNameRule{}
}

// ID returns the rule identifier.
func (r *LinkNameRule) ID() model.RuleID {
	return model.RuleLinkWithoutName
}

// Name returns the rule name.
func (r *LinkNameRule) Name() string {
	return "link without name"
}

// Check flags every anchor with an href but no announceable name.
// Anchors without href are not links and are skipped, as are links hidden
// from assistive technology.
func (r *LinkNameRule) Check(page *Page) []model.Violation {
	violations := make([]model.Violation, 0)

	page.walk(func(n *html.Node) {
		if n.Data != "a" || !hasAttr(n, "href") || isDecorative(n) {
			return
		}
		if accessibleName(n) != "" {
			return
		}

		violations = append(violations, newViolation(
			r.ID(),
			elementSummary(n, "href"),
			"Link has no text or accessible name, so screen readers announce nothing useful.",
			page.URL,
		))
	})

	return violations
}

// LinkTextRule flags hyperlinks whose text is too generic to identify the
// destination. Applies only to links that have text at all; nameless links
// are LinkNameRule's concern and are not double-reported.
type LinkTextRule struct{}

// NewLinkTextRule creates a new LinkTextRule.
func NewLinkTextRule() *LinkTextRule {
	return &LinkTextRule{}
}

// ID returns the rule identifier.
func (r *LinkTextRule) ID() model.RuleID {
	return model.RuleNonDescriptiveLinkText
}

// Name returns the rule name.
func (r *LinkTextRule) Name() string {
	return "non-descriptive link text"
}

// Check flags links whose announced name is a generic phrase or too short
// to mean anything.
func (r *LinkTextRule) Check(page *Page) []model.Violation {
	violations := make([]model.Violation, 0)

	page.walk(func(n *html.Node) {
		if n.Data != "a" || !hasAttr(n, "href") || isDecorative(n) {
			return
		}

		name := accessibleName(n)
		if name == "" {
			return
		}

		lower := strings.ToLower(name)
		if !genericLinkTexts[lower] && len([]rune(lower)) >= 3 {
			return
		}

		violations = append(violations, newViolation(
			r.ID(),
			elementSummary(n, "href")+" "+truncate(name, 40),
			"Link text does not describe its destination out of context.",
			page.URL,
		))
	})

	return violations
}
