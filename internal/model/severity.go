package model

import "strings"

// Severity represents the impact level of an accessibility violation.
// The four tiers mirror the axe-core severity taxonomy used by most
// accessibility audit tooling and drive both urgency and cost weighting.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// the lowercase wire representation when needed.
type Severity int

const (
	// SeverityMinor indicates cosmetic issues with limited user impact.
	// Examples: slightly short link text on an otherwise labeled control.
	SeverityMinor Severity = iota

	// SeverityModerate indicates issues that degrade the experience for
	// assistive-technology users but leave content reachable.
	// Examples: missing H1, non-descriptive link text, low-contrast styling.
	SeverityModerate

	// SeveritySerious indicates issues that block assistive-technology users
	// from understanding or operating part of the page.
	// Examples: images without alt text, unlabeled form inputs.
	SeveritySerious

	// SeverityCritical indicates issues that make core content or
	// functionality completely inaccessible.
	SeverityCritical
)

// String returns the lowercase representation used in JSON output and in
// the violations_by_severity map keys.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeveritySerious:
		return "serious"
	case SeverityModerate:
		return "moderate"
	case SeverityMinor:
		return "minor"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so Severity serializes as
// its lowercase name in JSON maps and fields.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown severities
// decode as SeverityModerate rather than failing; reports produced by
// older or newer rule sets must never break deserialization.
func (s *Severity) UnmarshalText(text []byte) error {
	*s = ParseSeverity(string(text))
	return nil
}

// ParseSeverity converts a severity name to a Severity.
// Unknown values default to SeverityModerate: a violation with an
// unrecognized tier still needs to be counted and costed somewhere, and
// the middle tier is the least distorting choice.
func ParseSeverity(name string) Severity {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "critical":
		return SeverityCritical
	case "serious":
		return SeveritySerious
	case "moderate":
		return SeverityModerate
	case "minor":
		return SeverityMinor
	default:
		return SeverityModerate
	}
}

// Severities lists all severity tiers from most to least severe.
// Report writers iterate this to render counts in a stable order.
var Severities = []Severity{SeverityCritical, SeveritySerious, SeverityModerate, SeverityMinor}
