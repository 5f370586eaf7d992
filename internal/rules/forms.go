package rules

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/a11yscan/a11yscan/internal/model"
)

// labeledInputTypes are the input types that collect typed user data and
// must carry a programmatic label. Buttons, checkboxes, and hidden inputs
// get their names through other mechanisms and are handled separately by
// WCAG, so they are out of scope here.
var labeledInputTypes = map[string]bool{
	"text":     true,
	"email":    true,
	"password": true,
	"tel":      true,
}

// InputLabelRule flags text-entry inputs with no programmatic label.
// Without one, screen readers announce only "edit text" and the user has
// to guess what the field wants.
type InputLabelRule struct{}

// NewInputLabelRule creates a new InputLabelRule.
func NewInputLabelRule() *InputLabelRule {
	return &InputLabelRule{}
}

// ID returns the rule identifier.
func (r *InputLabelRule) ID() model.RuleID {
	return model.RuleUnlabeledInput
}

// Name returns the rule name.
func (r *InputLabelRule) Name() string {
	return "unlabeled input"
}

// Check flags every text-entry input that has no label association.
// Accepted associations: <label for=...> matching the input's id, an
// enclosing <label>, aria-label, aria-labelledby, or title.
func (r *InputLabelRule) Check(page *Page) []model.Violation {
	violations := make([]model.Violation, 0)

	page.walk(func(n *html.Node) {
		if n.Data != "input" {
			return
		}
		inputType := strings.ToLower(getAttr(n, "type"))
		if !labeledInputTypes[inputType] {
			return
		}
		if page.isLabeled(n) || isDecorative(n) {
			return
		}

		violations = append(violations, newViolation(
			r.ID(),
			elementSummary(n, "type", "name", "id"),
			"Form input has no associated label, so its purpose is not announced.",
			page.URL,
		))
	})

	return violations
}
