package model

import "time"

// ScanResult is the aggregated outcome of scanning one website.
// It is created once by the pipeline after all pages are processed and is
// never mutated afterwards; risk scoring and report writers only read it.
type ScanResult struct {
	// Target is the normalized base URL that was scanned.
	Target string `json:"target"`

	// DateScanned is when the scan was performed.
	DateScanned time.Time `json:"date_scanned"`

	// PagesScanned is the number of pages attempted, whether or not the
	// fetch succeeded. Bounded by the max-pages limit.
	PagesScanned int `json:"pages_scanned"`

	// PagesWithViolations is the number of successfully scanned pages that
	// produced at least one violation.
	PagesWithViolations int `json:"pages_with_violations"`

	// TotalViolations is the number of violations across all pages.
	TotalViolations int `json:"total_violations"`

	// ComplianceScore is a 0-100 health metric, linear in violation count:
	// max(0, 100 - 2*TotalViolations). Deliberately crude; it is a headline
	// number, not a weighted model.
	ComplianceScore int `json:"compliance_score"`

	// ViolationsBySeverity counts violations per severity tier.
	// Keys are the lowercase severity names; the values always sum to
	// TotalViolations.
	ViolationsBySeverity map[string]int `json:"violations_by_severity"`

	// Violations holds every violation, ordered by page discovery order.
	Violations []Violation `json:"violations"`

	// SampleViolations is a small preview subset: at most two violations
	// from each of the first three pages. Used by callers that show a
	// teaser before the full report.
	SampleViolations []Violation `json:"sample_violations,omitempty"`

	// Partial is true when the scan was cut short by cancellation or
	// timeout. The counts above then cover only the pages that completed.
	Partial bool `json:"partial"`
}

// NewScanResult aggregates per-page violations into an immutable ScanResult.
// Pages that failed to fetch contribute nothing; attempted is the number of
// pages the scan tried, succeeded the number that were actually evaluated.
func NewScanResult(target string, attempted int, violationsByPage [][]Violation) *ScanResult {
	r := &ScanResult{
		Target:               target,
		DateScanned:          time.Now(),
		PagesScanned:         attempted,
		ViolationsBySeverity: make(map[string]int),
		Violations:           make([]Violation, 0),
	}

	for _, pageViolations := range violationsByPage {
		if len(pageViolations) > 0 {
			r.PagesWithViolations++
		}
		r.Violations = append(r.Violations, pageViolations...)
	}

	r.TotalViolations = len(r.Violations)
	r.ComplianceScore = ComplianceScore(r.TotalViolations)

	for _, v := range r.Violations {
		r.ViolationsBySeverity[v.Severity.String()]++
	}

	r.SampleViolations = sampleViolations(violationsByPage)

	return r
}

// ComplianceScore computes the 0-100 compliance score for a violation count.
// The penalty is two points per violation, clamped at zero.
func ComplianceScore(totalViolations int) int {
	score := 100 - totalViolations*2
	if score < 0 {
		return 0
	}
	return score
}

// SeverityCount returns the violation count for a severity tier.
func (r *ScanResult) SeverityCount(s Severity) int {
	return r.ViolationsBySeverity[s.String()]
}

// HasViolations reports whether the scan found any violations.
func (r *ScanResult) HasViolations() bool {
	return r.TotalViolations > 0
}

// sampleViolations picks at most two violations from each of the first
// three pages, in page order.
func sampleViolations(violationsByPage [][]Violation) []Violation {
	const (
		samplePages       = 3
		violationsPerPage = 2
	)

	samples := make([]Violation, 0, samplePages*violationsPerPage)
	for i, pageViolations := range violationsByPage {
		if i >= samplePages {
			break
		}
		n := len(pageViolations)
		if n > violationsPerPage {
			n = violationsPerPage
		}
		samples = append(samples, pageViolations[:n]...)
	}

	if len(samples) == 0 {
		return nil
	}
	return samples
}
