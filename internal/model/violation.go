package model

// RuleID identifies an accessibility rule.
// The snake_case values are stable identifiers used in JSON output and in
// stored scan reports; they must not change between releases.
type RuleID string

// Built-in rule identifiers.
const (
	// RuleMissingAltText fires for <img> elements without an alt attribute.
	RuleMissingAltText RuleID = "missing_alt_text"

	// RuleMissingH1 fires when a document contains no <h1> element.
	RuleMissingH1 RuleID = "missing_h1"

	// RuleLinkWithoutName fires for anchors with an href but no accessible name.
	RuleLinkWithoutName RuleID = "link_without_name"

	// RuleUnlabeledInput fires for text-like inputs with no label association.
	RuleUnlabeledInput RuleID = "unlabeled_input"

	// RuleNonDescriptiveLinkText fires for anchors whose visible text carries
	// no meaning out of context ("click here", "more", ...).
	RuleNonDescriptiveLinkText RuleID = "non_descriptive_link_text"

	// RuleMultipleH1 fires when a document contains more than one <h1>.
	RuleMultipleH1 RuleID = "multiple_h1"

	// RuleLowContrastStyle fires for inline styles that set text to a color
	// from a known low-contrast palette.
	RuleLowContrastStyle RuleID = "low_contrast_style"

	// RuleKeyboardFocusRemoved fires for interactive elements removed from
	// the keyboard tab order with tabindex="-1".
	RuleKeyboardFocusRemoved RuleID = "keyboard_focus_removed"
)

// Violation is a single accessibility finding on a single page.
// Violations are created by the rule engine and are immutable afterwards:
// aggregation and risk scoring only read them.
type Violation struct {
	// Type is the rule that produced this violation.
	Type RuleID `json:"type"`

	// Severity is the impact tier.
	Severity Severity `json:"severity"`

	// Element is the tag name (or a short snippet) of the offending element.
	Element string `json:"element"`

	// Description is a short human-readable explanation.
	Description string `json:"description"`

	// Page is the absolute URL of the page the violation was found on.
	Page string `json:"page"`
}

// RuleInfo contains metadata about a rule: its severity tier, the user
// impact, and the remediation recommendation shown in reports.
type RuleInfo struct {
	Severity       Severity
	Impact         string
	Recommendation string
	WCAGReference  string
}

// ruleInfoMapping maps rule identifiers to their metadata.
// This centralized mapping is the single source of truth for severity
// assignment, so the rule implementations, report writers, and risk
// scoring always agree on a rule's tier.
var ruleInfoMapping = map[RuleID]RuleInfo{
	RuleMissingAltText: {
		Severity:       SeveritySerious,
		Impact:         "Screen reader users receive no information about the image content.",
		Recommendation: "Add a descriptive alt attribute, or alt=\"\" for purely decorative images.",
		WCAGReference:  "WCAG 2.1 SC 1.1.1 (Non-text Content)",
	},
	RuleMissingH1: {
		Severity:       SeverityModerate,
		Impact:         "Users navigating by headings cannot identify the main topic of the page.",
		Recommendation: "Add a single <h1> describing the page's primary content.",
		WCAGReference:  "WCAG 2.1 SC 2.4.6 (Headings and Labels)",
	},
	RuleLinkWithoutName: {
		Severity:       SeveritySerious,
		Impact:         "Screen readers announce the link with no name, leaving its purpose unknown.",
		Recommendation: "Add visible link text or an aria-label describing the destination.",
		WCAGReference:  "WCAG 2.1 SC 2.4.4 (Link Purpose)",
	},
	RuleUnlabeledInput: {
		Severity:       SeveritySerious,
		Impact:         "Assistive technology cannot tell the user what the form field is for.",
		Recommendation: "Associate a <label for=\"...\"> with the input or add an aria-label.",
		WCAGReference:  "WCAG 2.1 SC 3.3.2 (Labels or Instructions)",
	},
	RuleNonDescriptiveLinkText: {
		Severity:       SeverityModerate,
		Impact:         "Link text like \"click here\" carries no meaning when read out of context.",
		Recommendation: "Rewrite the link text to describe its destination.",
		WCAGReference:  "WCAG 2.1 SC 2.4.4 (Link Purpose)",
	},
	RuleMultipleH1: {
		Severity:       SeverityModerate,
		Impact:         "Multiple top-level headings make the document outline ambiguous.",
		Recommendation: "Keep one <h1> per page and demote the others to <h2>.",
		WCAGReference:  "WCAG 2.1 SC 1.3.1 (Info and Relationships)",
	},
	RuleLowContrastStyle: {
		Severity:       SeverityModerate,
		Impact:         "Low-contrast text is difficult or impossible to read for low-vision users.",
		Recommendation: "Use colors with a contrast ratio of at least 4.5:1 against the background.",
		WCAGReference:  "WCAG 2.1 SC 1.4.3 (Contrast Minimum)",
	},
	RuleKeyboardFocusRemoved: {
		Severity:       SeveritySerious,
		Impact:         "Keyboard-only users cannot reach the control at all.",
		Recommendation: "Remove tabindex=\"-1\" from interactive elements, or provide an equivalent.",
		WCAGReference:  "WCAG 2.1 SC 2.1.1 (Keyboard)",
	},
}

// GetRuleInfo returns the metadata for a rule.
// Unknown rules get a default with SeverityModerate, matching the
// ParseSeverity fallback: an unrecognized rule still produces a countable,
// costable violation.
func GetRuleInfo(id RuleID) RuleInfo {
	if info, ok := ruleInfoMapping[id]; ok {
		return info
	}
	return RuleInfo{
		Severity:       SeverityModerate,
		Impact:         "Unknown rule. Review the violation manually.",
		Recommendation: "Investigate the finding and assess its impact.",
	}
}

// GetRuleSeverity returns the severity tier for a rule.
func GetRuleSeverity(id RuleID) Severity {
	return GetRuleInfo(id).Severity
}
