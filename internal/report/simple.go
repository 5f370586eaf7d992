package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/a11yscan/a11yscan/internal/model"
	"github.com/a11yscan/a11yscan/internal/risk"
)

// titleCaser renders lowercase severity and rule names as display labels,
// e.g. "serious" -> "Serious", "missing_alt_text" -> "Missing Alt Text".
var titleCaser = cases.Title(language.English)

// severityLabel returns the display form of a severity tier.
func severityLabel(s model.Severity) string {
	return titleCaser.String(s.String())
}

// ruleLabel returns the display form of a rule identifier.
func ruleLabel(id model.RuleID) string {
	return titleCaser.String(strings.ReplaceAll(string(id), "_", " "))
}

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting and severity indicators.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no violations are shown.
	showEmpty bool

	// verbose enables remediation detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with remediation recommendations.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the scan result and risk assessment in human-readable form.
func (w *SimpleWriter) Write(result *model.ScanResult, assessment *model.RiskAssessment) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writeSummary(&sb, result)
	if assessment != nil {
		w.writeRisk(&sb, assessment)
	}
	w.writeViolations(&sb, result)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteSummary outputs only the scan summary in human-readable form.
func (w *SimpleWriter) WriteSummary(result *model.ScanResult) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writeSummary(&sb, result)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with scan information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, result *model.ScanResult) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                    ACCESSIBILITY SCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Website:          %s\n", result.Target))
	sb.WriteString(fmt.Sprintf("Scan Date:        %s\n", result.DateScanned.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Pages Scanned:    %d\n", result.PagesScanned))
	sb.WriteString(fmt.Sprintf("Compliance Score: %d / 100\n", result.ComplianceScore))

	if result.Partial {
		sb.WriteString("Status:           INTERRUPTED (partial results)\n")
	} else {
		sb.WriteString("Status:           Complete\n")
	}

	sb.WriteString("\n")
}

// writeSummary writes the severity summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, result *model.ScanResult) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SEVERITY SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, sev := range model.Severities {
		label := strings.ToUpper(sev.String()) + ":"
		sb.WriteString(fmt.Sprintf("  %-10s %d\n", label, result.SeverityCount(sev)))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  TOTAL:     %d violations\n", result.TotalViolations))
	sb.WriteString("\n")
}

// writeRisk writes the legal and financial risk section.
func (w *SimpleWriter) writeRisk(sb *strings.Builder, assessment *model.RiskAssessment) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("LEGAL RISK ASSESSMENT\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Financial Exposure:  %s\n", assessment.FinancialExposure.FormattedRange))
	sb.WriteString(fmt.Sprintf("  Lawsuit Probability: %d%% (%s)\n",
		assessment.LawsuitProbability.Percentage, assessment.LawsuitProbability.RiskLevel))
	sb.WriteString(fmt.Sprintf("  Urgency:             %s\n", assessment.Urgency.Level))
	sb.WriteString(fmt.Sprintf("  Timeline:            %s\n", assessment.Urgency.Timeline))
	sb.WriteString(fmt.Sprintf("  WCAG Level:          %s\n", assessment.ComplianceStatus.WCAGLevel))
	sb.WriteString(fmt.Sprintf("  Risk Category:       %s\n", assessment.ComplianceStatus.RiskCategory))
	sb.WriteString("\n")

	if b := assessment.SettlementBreakdown; b != nil {
		sb.WriteString("  Likely settlement breakdown:\n")
		sb.WriteString(fmt.Sprintf("    Settlement:       %s\n", model.FormatDollars(b.SettlementAmount)))
		sb.WriteString(fmt.Sprintf("    Attorney Fees:    %s\n", model.FormatDollars(b.AttorneyFees)))
		sb.WriteString(fmt.Sprintf("    Compliance Costs: %s\n", model.FormatDollars(b.ComplianceCosts)))
		sb.WriteString(fmt.Sprintf("    Total Exposure:   %s\n", model.FormatDollars(b.TotalExposure)))
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("  Recommendation: %s\n", assessment.Urgency.RecommendedAction))
	sb.WriteString("\n")

	if w.verbose {
		sb.WriteString("  Reference settlements:\n")
		for _, p := range risk.SettlementPrecedents {
			sb.WriteString(fmt.Sprintf("    [%s] %s: %s\n", p.Year, p.Company, p.Settlement))
		}
		sb.WriteString("\n")
	}
}

// writeViolations writes all violations grouped by severity.
func (w *SimpleWriter) writeViolations(sb *strings.Builder, result *model.ScanResult) {
	if !result.HasViolations() && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("VIOLATIONS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	grouped := violationsBySeverity(result)
	for _, sev := range model.Severities {
		violations := grouped[sev]
		if len(violations) == 0 && !w.showEmpty {
			continue
		}

		w.writeViolationsForSeverity(sb, sev, violations)
	}
}

// writeViolationsForSeverity writes violations of a specific severity tier.
func (w *SimpleWriter) writeViolationsForSeverity(sb *strings.Builder, severity model.Severity, violations []model.Violation) {
	indicator := w.getSeverityIndicator(severity)
	sb.WriteString(fmt.Sprintf("[%s] %s\n", indicator, severityLabel(severity)))

	if len(violations) == 0 {
		sb.WriteString("  No violations\n\n")
		return
	}

	for _, v := range violations {
		sb.WriteString(fmt.Sprintf("  * %s: %s\n", ruleLabel(v.Type), v.Description))
		if v.Element != "" {
			sb.WriteString(fmt.Sprintf("    Element: %s\n", v.Element))
		}
		sb.WriteString(fmt.Sprintf("    Page: %s\n", v.Page))
		if w.verbose {
			info := model.GetRuleInfo(v.Type)
			sb.WriteString(fmt.Sprintf("    Fix: %s\n", info.Recommendation))
			sb.WriteString(fmt.Sprintf("    Ref: %s\n", info.WCAGReference))
		}
	}
	sb.WriteString("\n")
}

// getSeverityIndicator returns a visual indicator for the severity tier.
func (w *SimpleWriter) getSeverityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical:
		return "!!!"
	case model.SeveritySerious:
		return "!!"
	case model.SeverityModerate:
		return "!"
	case model.SeverityMinor:
		return "-"
	default:
		return "?"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by a11yscan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
