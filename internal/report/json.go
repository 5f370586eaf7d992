package report

import (
	"encoding/json"
	"io"

	"github.com/a11yscan/a11yscan/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. It provides consistent behavior across Go versions
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is recorded in the report wrapper. Set by the CLI from its
	// build information; empty means unknown.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// WithVersion records the tool version in the report wrapper.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter:   newBaseWriter(output),
		indent:       false,
		indentPrefix: "",
		indentString: "",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport pairs a scan result with its risk assessment and the tool
// version that produced it.
//
// Design decision: We wrap the result rather than adding fields to
// ScanResult because this allows output-specific metadata without
// polluting the core data structure.
type JSONReport struct {
	// Version is the a11yscan version that generated this report.
	Version string `json:"version,omitempty"`

	// Result is the full scan result.
	Result *model.ScanResult `json:"result"`

	// Assessment is the risk assessment, if one was computed.
	Assessment *model.RiskAssessment `json:"assessment,omitempty"`
}

// Write outputs the scan result and assessment in JSON format.
func (w *JSONWriter) Write(result *model.ScanResult, assessment *model.RiskAssessment) (int, error) {
	return w.writeJSON(&JSONReport{
		Version:    w.version,
		Result:     result,
		Assessment: assessment,
	})
}

// WriteSummary outputs only the scan result without the assessment.
func (w *JSONWriter) WriteSummary(result *model.ScanResult) (int, error) {
	return w.writeJSON(result)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Trailing newline for terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// ReadJSONReport decodes a report previously produced by JSONWriter.
// It accepts both the wrapped JSONReport form and a bare ScanResult,
// so results saved with --json can always be fed back into assessment.
func ReadJSONReport(r io.Reader) (*model.ScanResult, *model.RiskAssessment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}

	var wrapped JSONReport
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Result != nil {
		return wrapped.Result, wrapped.Assessment, nil
	}

	var result model.ScanResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, nil, err
	}
	return &result, nil, nil
}
