package rules

import (
	"context"

	"github.com/a11yscan/a11yscan/internal/model"
)

// Rule defines the interface for individual accessibility checks.
// Each rule focuses on a single WCAG failure class.
//
// Design decision: We use an interface rather than concrete types because:
//  1. Allows for easy extension with new rules
//  2. Enables testing rules in isolation
//  3. The engine stays ignorant of individual rule mechanics
type Rule interface {
	// ID returns the rule's stable identifier used in violation records.
	ID() model.RuleID

	// Name returns a human-readable rule name for logging.
	Name() string

	// Check evaluates the rule against a parsed page and returns all
	// violations found.
	Check(page *Page) []model.Violation
}

// Engine coordinates accessibility rules over parsed pages.
// It aggregates violations from all registered rules.
type Engine struct {
	// rules is the list of registered rules to run.
	rules []Rule
}

// NewEngine creates an Engine with all built-in rules registered.
func NewEngine() *Engine {
	e := &Engine{
		rules: make([]Rule, 0),
	}

	// Perceivable
	e.Register(NewAltTextRule())

	// Structure
	e.Register(NewMissingH1Rule())
	e.Register(NewMultipleH1Rule())

	// Navigation
	e.Register(NewLinkNameRule())
	e.Register(NewLinkTextRule())

	// Forms
	e.Register(NewInputLabelRule())

	// Presentation
	e.Register(NewContrastRule())
	e.Register(NewFocusRule())

	return e
}

// Register adds a rule to the engine.
func (e *Engine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Evaluate runs all registered rules against a page and returns the
// aggregated violations. Returns early with partial results when the
// context is canceled.
func (e *Engine) Evaluate(ctx context.Context, page *Page) []model.Violation {
	violations := make([]model.Violation, 0)

	for _, rule := range e.rules {
		select {
		case <-ctx.Done():
			return violations
		default:
		}

		violations = append(violations, rule.Check(page)...)
	}

	return violations
}

// newViolation builds a violation with the rule's registered severity.
func newViolation(ruleID model.RuleID, element, description, pageURL string) model.Violation {
	return model.Violation{
		Type:        ruleID,
		Severity:    model.GetRuleSeverity(ruleID),
		Element:     element,
		Description: description,
		Page:        pageURL,
	}
}
