package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/a11yscan/a11yscan/internal/config"
	"github.com/a11yscan/a11yscan/internal/model"
	"github.com/a11yscan/a11yscan/internal/risk"
)

// testResult builds a scan result with violations across three tiers.
func testResult() *model.ScanResult {
	return model.NewScanResult("https://example.com", 3, [][]model.Violation{
		{
			{Type: model.RuleMissingAltText, Severity: model.SeveritySerious, Element: "<img src=\"hero.jpg\">", Description: "Image missing alt attribute", Page: "https://example.com/"},
			{Type: model.RuleMissingH1, Severity: model.SeverityModerate, Element: "page", Description: "Page has no h1 heading", Page: "https://example.com/"},
		},
		{
			{Type: model.RuleNonDescriptiveLinkText, Severity: model.SeverityModerate, Element: "<a href=\"/doc\">", Description: "Link text \"click here\" is not descriptive", Page: "https://example.com/about"},
		},
		nil,
	})
}

// testAssessment derives an assessment from the test result using stock
// tuning so report content stays deterministic.
func testAssessment(result *model.ScanResult) *model.RiskAssessment {
	return risk.NewEngine(config.DefaultRiskTuning()).Assess(result)
}

// TestSimpleWriter tests the human-readable terminal format.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header, summary, and violations", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		result := testResult()
		n, err := w.Write(result, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
		}

		out := buf.String()
		for _, want := range []string{
			"ACCESSIBILITY SCAN REPORT",
			"https://example.com",
			"Pages Scanned:    3",
			"Compliance Score: 94 / 100",
			"SEVERITY SUMMARY",
			"SERIOUS:   1",
			"MODERATE:  2",
			"TOTAL:     3 violations",
			"VIOLATIONS",
			"Missing Alt Text",
			"Image missing alt attribute",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("includes risk section when assessment given", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		result := testResult()
		if _, err := w.Write(result, testAssessment(result)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"LEGAL RISK ASSESSMENT",
			"Financial Exposure:",
			"Lawsuit Probability:",
			"Likely settlement breakdown:",
			"Total Exposure:",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("verbose mode adds remediation detail", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))

		result := testResult()
		if _, err := w.Write(result, testAssessment(result)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "Fix:") {
			t.Error("expected remediation recommendations in verbose output")
		}
		if !strings.Contains(out, "WCAG 2.1 SC 1.1.1") {
			t.Error("expected WCAG references in verbose output")
		}
		if !strings.Contains(out, "Reference settlements:") {
			t.Error("expected settlement precedents in verbose output")
		}
	})

	t.Run("partial scan is flagged", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		result := testResult()
		result.Partial = true
		if _, err := w.Write(result, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "INTERRUPTED (partial results)") {
			t.Error("expected partial status in output")
		}
	})

	t.Run("summary omits violation listing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		if _, err := w.WriteSummary(testResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "SEVERITY SUMMARY") {
			t.Error("expected severity summary")
		}
		if strings.Contains(out, "VIOLATIONS") {
			t.Error("expected summary to omit the violation listing")
		}
	})

	t.Run("clean result shows zero counts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		clean := model.NewScanResult("https://example.com", 2, nil)
		if _, err := w.Write(clean, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "TOTAL:     0 violations") {
			t.Error("expected zero total")
		}
		if strings.Contains(out, "VIOLATIONS\n") {
			t.Error("expected violations section to be skipped for clean result")
		}
	})
}

// TestJSONWriter tests the machine-readable format.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("output round-trips through ReadJSONReport", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithVersion("1.2.3"))

		result := testResult()
		assessment := testAssessment(result)
		if _, err := w.Write(result, assessment); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		gotResult, gotAssessment, err := ReadJSONReport(&buf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotResult.TotalViolations != result.TotalViolations {
			t.Errorf("expected %d violations, got %d", result.TotalViolations, gotResult.TotalViolations)
		}
		if gotAssessment == nil {
			t.Fatal("expected assessment to survive the round trip")
		}
		if gotAssessment.FinancialExposure.Min != assessment.FinancialExposure.Min {
			t.Errorf("expected exposure min %v, got %v",
				assessment.FinancialExposure.Min, gotAssessment.FinancialExposure.Min)
		}
	})

	t.Run("reads a bare scan result", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if _, err := w.WriteSummary(testResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		gotResult, gotAssessment, err := ReadJSONReport(&buf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotResult.Target != "https://example.com" {
			t.Errorf("expected target to survive, got %q", gotResult.Target)
		}
		if gotAssessment != nil {
			t.Error("expected nil assessment for bare result")
		}
	})

	t.Run("pretty print produces indented output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())

		if _, err := w.WriteSummary(testResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "\n  \"") {
			t.Error("expected indented JSON output")
		}
	})

	t.Run("version appears in wrapper", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithVersion("0.9.0"))

		result := testResult()
		if _, err := w.Write(result, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(buf.Bytes(), &wrapped); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(wrapped["version"]) != `"0.9.0"` {
			t.Errorf("expected version 0.9.0, got %s", wrapped["version"])
		}
	})
}

// TestMarkdownWriter tests the documentation format.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders tables and severity sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		result := testResult()
		if _, err := w.Write(result, testAssessment(result)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"# Accessibility Scan Report",
			"## Severity Summary",
			"## Legal Risk Assessment",
			"## Violations",
			"### 🟠 Serious",
			"### 🟡 Moderate",
			"missing_alt_text",
			"### Settlement Precedents",
			"Domino's Pizza",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected markdown to contain %q", want)
			}
		}
	})

	t.Run("includes a mermaid pie chart when violations exist", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(testResult(), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "```mermaid") {
			t.Error("expected mermaid pie chart block")
		}
	})

	t.Run("clean result gets a tip instead of a warning", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		clean := model.NewScanResult("https://example.com", 1, nil)
		if _, err := w.Write(clean, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "[!TIP]") {
			t.Error("expected a tip alert for a clean result")
		}
		if strings.Contains(out, "```mermaid") {
			t.Error("expected no pie chart for a clean result")
		}
	})

	t.Run("serious violations produce a warning alert", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(testResult(), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "[!WARNING]") {
			t.Error("expected a warning alert when serious violations exist")
		}
	})
}

// failWriter always returns an error, for MultiWriter error handling.
type failWriter struct{}

func (failWriter) Write(*model.ScanResult, *model.RiskAssessment) (int, error) {
	return 0, errors.New("write failed")
}

func (failWriter) WriteSummary(*model.ScanResult) (int, error) {
	return 0, errors.New("write failed")
}

// TestMultiWriter tests fan-out to multiple destinations.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all destinations", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))

		result := testResult()
		n, err := mw.Write(result, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != a.Len()+b.Len() {
			t.Errorf("expected %d total bytes, got %d", a.Len()+b.Len(), n)
		}
		if a.Len() == 0 || b.Len() == 0 {
			t.Error("expected both destinations to receive output")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var after bytes.Buffer
		mw := NewMultiWriter(failWriter{}, NewSimpleWriter(&after))

		if _, err := mw.Write(testResult(), nil); err == nil {
			t.Fatal("expected error from failing writer")
		}
		if after.Len() != 0 {
			t.Error("expected later writers to be skipped after an error")
		}
	})
}

// TestSeverityLabels tests the display-label helpers.
func TestSeverityLabels(t *testing.T) {
	t.Parallel()

	if got := severityLabel(model.SeveritySerious); got != "Serious" {
		t.Errorf("expected Serious, got %q", got)
	}
	if got := ruleLabel(model.RuleMissingAltText); got != "Missing Alt Text" {
		t.Errorf("expected Missing Alt Text, got %q", got)
	}
}

// TestTruncateString tests table cell truncation.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string unchanged", "abc", 10, "abc"},
		{"exact length unchanged", "abcde", 5, "abcde"},
		{"long string gets ellipsis", "abcdefghij", 8, "abcde..."},
		{"tiny budget hard-cuts", "abcdef", 2, "ab"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
