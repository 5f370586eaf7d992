package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/a11yscan/a11yscan/internal/model"
	"github.com/a11yscan/a11yscan/internal/risk"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the scan result and risk assessment in Markdown format.
func (w *MarkdownWriter) Write(result *model.ScanResult, assessment *model.RiskAssessment) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeSummary(md, result)
	if assessment != nil {
		w.writeRisk(md, assessment)
	}
	w.writeViolations(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteSummary outputs only the scan summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(result *model.ScanResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeSummary(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.ScanResult) {
	md.H1("Accessibility Scan Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Website", "`" + result.Target + "`"},
			{"Scan Date", result.DateScanned.Format("2006-01-02 15:04:05 MST")},
			{"Pages Scanned", strconv.Itoa(result.PagesScanned)},
			{"Compliance Score", strconv.Itoa(result.ComplianceScore) + " / 100"},
			{"Status", w.getStatusText(result)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on result state.
func (w *MarkdownWriter) getStatusText(result *model.ScanResult) string {
	if result.Partial {
		return "⚠️ Interrupted (partial results)"
	}
	return "✅ Complete"
}

// writeSummary writes the severity summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, result *model.ScanResult) {
	md.H2("Severity Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(model.Severities)+1)
	for _, sev := range model.Severities {
		rows = append(rows, []string{
			severityEmoji(sev) + " " + severityLabel(sev),
			strconv.Itoa(result.SeverityCount(sev)),
		})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(result.TotalViolations) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if result.HasViolations() {
		w.writePieChart(md, result)
	}

	w.writeAlert(md, result)
}

// writePieChart writes a mermaid pie chart for severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, result *model.ScanResult) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Violation Severity Distribution"),
		piechart.WithShowData(true),
	)

	for _, sev := range model.Severities {
		if count := result.SeverityCount(sev); count > 0 {
			chart.LabelAndIntValue(severityLabel(sev), uint64(count))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on severity counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, result *model.ScanResult) {
	switch {
	case result.SeverityCount(model.SeverityCritical) > 0:
		md.Cautionf(
			"Critical accessibility barriers detected! %d critical violation(s) make core content inaccessible.",
			result.SeverityCount(model.SeverityCritical),
		)
	case result.SeverityCount(model.SeveritySerious) > 0:
		md.Warningf(
			"Serious accessibility issues detected. %d violation(s) block assistive-technology users.",
			result.SeverityCount(model.SeveritySerious),
		)
	case result.SeverityCount(model.SeverityModerate) > 0:
		md.Importantf(
			"Moderate accessibility issues found. %d violation(s) degrade the experience for some users.",
			result.SeverityCount(model.SeverityModerate),
		)
	case result.HasViolations():
		md.Note("Only minor accessibility issues detected.")
	default:
		md.Tip("No accessibility violations detected.")
	}
	md.PlainText("")
}

// writeRisk writes the legal and financial risk section.
func (w *MarkdownWriter) writeRisk(md *markdown.Markdown, assessment *model.RiskAssessment) {
	md.H2("Legal Risk Assessment")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Financial Exposure", assessment.FinancialExposure.FormattedRange},
			{"Lawsuit Probability", strconv.Itoa(assessment.LawsuitProbability.Percentage) + "% (" + assessment.LawsuitProbability.RiskLevel + ")"},
			{"Urgency", assessment.Urgency.Level},
			{"Remediation Timeline", assessment.Urgency.Timeline},
			{"WCAG Level", assessment.ComplianceStatus.WCAGLevel},
			{"Risk Category", assessment.ComplianceStatus.RiskCategory},
		},
	})
	md.PlainText("")

	if b := assessment.SettlementBreakdown; b != nil {
		md.H3("Likely Settlement Breakdown")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Component", "Amount"},
			Rows: [][]string{
				{"Settlement", model.FormatDollars(b.SettlementAmount)},
				{"Attorney Fees", model.FormatDollars(b.AttorneyFees)},
				{"Compliance Costs", model.FormatDollars(b.ComplianceCosts)},
				{"**Total Exposure**", "**" + model.FormatDollars(b.TotalExposure) + "**"},
			},
		})
		md.PlainText("")
	}

	md.PlainTextf("> %s", assessment.Urgency.RecommendedAction)
	md.PlainText("")

	w.writePrecedents(md)
}

// writePrecedents writes the reference settlement table that gives the
// dollar figures context.
func (w *MarkdownWriter) writePrecedents(md *markdown.Markdown) {
	precedents := risk.SettlementPrecedents
	if len(precedents) == 0 {
		return
	}

	md.H3("Settlement Precedents")
	md.PlainText("")

	rows := make([][]string, len(precedents))
	for i, p := range precedents {
		rows[i] = []string{p.Company, p.Settlement, p.Year, p.Description}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Company", "Settlement", "Year", "Context"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeViolations writes all violations grouped by severity.
func (w *MarkdownWriter) writeViolations(md *markdown.Markdown, result *model.ScanResult) {
	md.H2("Violations")
	md.PlainText("")

	if !result.HasViolations() {
		md.PlainText("No accessibility violations detected.")
		md.PlainText("")
		return
	}

	grouped := violationsBySeverity(result)
	for _, sev := range model.Severities {
		violations := grouped[sev]
		if len(violations) == 0 {
			continue
		}

		md.PlainText("### " + severityEmoji(sev) + " " + severityLabel(sev))
		md.PlainText("")
		w.writeViolationsTable(md, violations)
	}
}

// writeViolationsTable writes a table of violations with remediation details.
func (w *MarkdownWriter) writeViolationsTable(md *markdown.Markdown, violations []model.Violation) {
	rows := make([][]string, len(violations))
	for i, v := range violations {
		rows[i] = []string{
			string(v.Type),
			truncateString(v.Element, 50),
			truncateString(v.Page, 40),
			truncateString(v.Description, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Rule", "Element", "Page", "Description"},
		Rows:   rows,
	})
	md.PlainText("")

	// One collapsible remediation note per distinct rule in this tier.
	seen := make(map[model.RuleID]bool)
	for _, v := range violations {
		if seen[v.Type] {
			continue
		}
		seen[v.Type] = true
		info := model.GetRuleInfo(v.Type)
		md.Details(string(v.Type)+" ("+info.WCAGReference+")", info.Recommendation)
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by a11yscan*")
}

// severityEmoji returns the colored indicator for a severity tier.
func severityEmoji(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return "🔴"
	case model.SeveritySerious:
		return "🟠"
	case model.SeverityModerate:
		return "🟡"
	case model.SeverityMinor:
		return "🔵"
	default:
		return "⚪"
	}
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
