package report

import (
	"io"

	"github.com/a11yscan/a11yscan/internal/model"
)

// Writer defines the interface for report output.
// Implementations render a scan result, optionally with its risk
// assessment, in a specific format.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the scan result together with its risk assessment.
	// The assessment may be nil; writers then render the scan portion only.
	// Returns the number of bytes written and any error encountered.
	Write(result *model.ScanResult, assessment *model.RiskAssessment) (int, error)

	// WriteSummary outputs only the scan summary: page counts, the
	// compliance score, and severity totals. Useful for quick checks
	// without the full violation listing.
	WriteSummary(result *model.ScanResult) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(result *model.ScanResult, assessment *model.RiskAssessment) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result, assessment)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteSummary outputs the scan summary to all configured Writers.
func (m *MultiWriter) WriteSummary(result *model.ScanResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSummary(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// violationsBySeverity groups a result's violations by tier, preserving
// page discovery order within each tier.
func violationsBySeverity(result *model.ScanResult) map[model.Severity][]model.Violation {
	grouped := make(map[model.Severity][]model.Violation)
	for _, v := range result.Violations {
		grouped[v.Severity] = append(grouped[v.Severity], v)
	}
	return grouped
}
