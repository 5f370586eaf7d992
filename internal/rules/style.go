package rules

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/a11yscan/a11yscan/internal/model"
)

// lowContrastColors are text colors that cannot reach the WCAG AA 4.5:1
// contrast ratio against a white or near-white background. Inline styles
// are the only styles visible to a static scan, so the check is limited
// to them; stylesheet-driven contrast needs a rendering engine.
var lowContrastColors = []string{
	"#ccc", "#cccccc",
	"#ddd", "#dddddd",
	"#eee", "#eeeeee",
	"#aaa", "#aaaaaa",
	"lightgray", "lightgrey",
	"silver", "gainsboro", "whitesmoke",
	"yellow", "#ffff00",
}

// interactiveElements are elements reachable by keyboard focus.
var interactiveElements = map[string]bool{
	"a":        true,
	"button":   true,
	"input":    true,
	"select":   true,
	"textarea": true,
}

// inlineStyleValue extracts the value of one property from an inline
// style attribute. Returns empty when the property is absent.
func inlineStyleValue(n *html.Node, property string) string {
	style := getAttr(n, "style")
	if style == "" {
		return ""
	}

	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), property) {
			return strings.ToLower(strings.TrimSpace(value))
		}
	}
	return ""
}

// ContrastRule flags elements whose inline text color is too light to
// read against a typical light background.
type ContrastRule struct{}

// NewContrastRule creates a new ContrastRule.
func NewContrastRule() *ContrastRule {
	return &ContrastRule{}
}

// ID returns the rule identifier.
func (r *ContrastRule) ID() model.RuleID {
	return model.RuleLowContrastStyle
}

// Name returns the rule name.
func (r *ContrastRule) Name() string {
	return "low contrast style"
}

// Check flags every element styled inline with a known low-contrast
// text color.
func (r *ContrastRule) Check(page *Page) []model.Violation {
	violations := make([]model.Violation, 0)

	page.walk(func(n *html.Node) {
		color := inlineStyleValue(n, "color")
		if color == "" {
			return
		}

		for _, lowContrast := range lowContrastColors {
			if color == lowContrast {
				violations = append(violations, newViolation(
					r.ID(),
					elementSummary(n, "style"),
					"Inline text color "+color+" is too light to meet contrast requirements on a light background.",
					page.URL,
				))
				return
			}
		}
	})

	return violations
}

// FocusRule flags interactive elements removed from the keyboard focus
// order. An element with tabindex="-1" can never be reached by Tab, so
// keyboard users cannot operate it at all.
type FocusRule struct{}

// NewFocusRule creates a new FocusRule.
func NewFocusRule() *FocusRule {
	return &FocusRule{}
}

// ID returns the rule identifier.
func (r *FocusRule) ID() model.RuleID {
	return model.RuleKeyboardFocusRemoved
}

// Name returns the rule name.
func (r *FocusRule) Name() string {
	return "keyboard focus removed"
}

// Check flags interactive elements with tabindex="-1", which pulls them
// out of the Tab order entirely. An inline outline:none or outline:0 is
// also flagged: the element stays focusable but gives sighted keyboard
// users no indication of where they are. Anchors without href never
// receive focus and are skipped.
func (r *FocusRule) Check(page *Page) []model.Violation {
	violations := make([]model.Violation, 0)

	page.walk(func(n *html.Node) {
		if !interactiveElements[n.Data] {
			return
		}
		if n.Data == "a" && !hasAttr(n, "href") {
			return
		}

		if strings.TrimSpace(getAttr(n, "tabindex")) == "-1" {
			violations = append(violations, newViolation(
				r.ID(),
				elementSummary(n, "href", "type", "tabindex"),
				"Interactive element has tabindex=\"-1\" and cannot be reached with the keyboard.",
				page.URL,
			))
			return
		}

		outline := inlineStyleValue(n, "outline")
		if outline != "none" && outline != "0" {
			return
		}

		violations = append(violations, newViolation(
			r.ID(),
			elementSummary(n, "href", "type", "style"),
			"Interactive element removes its focus outline, hiding keyboard position.",
			page.URL,
		))
	})

	return violations
}
