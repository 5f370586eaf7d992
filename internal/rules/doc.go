// Package rules implements the accessibility rule engine.
//
// Each rule inspects one parsed HTML page for a specific WCAG failure
// class (missing alt text, unlabeled form inputs, removed focus outlines,
// and so on) and reports violations tied to the offending element. The
// Engine coordinates all registered rules over a page and aggregates
// their violations.
//
// Rules are intentionally conservative: they only flag patterns that are
// machine-decidable from static markup. Judgment calls that need rendered
// styles or assistive-technology behavior are out of scope, so a clean
// result here is necessary but not sufficient for WCAG conformance.
package rules
