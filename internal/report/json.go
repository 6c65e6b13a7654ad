package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/fromdoppler/htmleditor/internal/model"
)

// JSONWriter outputs records in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	indentPrefix string
	indentString string

	// version is stamped on batch documents.
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

// WithPrettyPrint enables pretty-printed JSON with two space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion sets the version written into batch documents.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one record as a JSON object.
func (w *JSONWriter) Write(record *model.ContentRecord) (int, error) {
	return w.writeJSON(record)
}

// WriteBatch outputs a single JSON document holding every record and
// the run summary.
func (w *JSONWriter) WriteBatch(records []*model.ContentRecord) (int, error) {
	return w.writeJSON(NewJSONReport(records, w.version))
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

	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport wraps the records of a run with metadata.
type JSONReport struct {
	// Version is the htmleditor version that generated this report.
	Version string `json:"version,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`

	Records []*model.ContentRecord `json:"records"`

	Summary *model.BatchSummary `json:"summary"`
}

// NewJSONReport creates a JSONReport for the given records.
// Nil records are dropped.
func NewJSONReport(records []*model.ContentRecord, version string) *JSONReport {
	kept := make([]*model.ContentRecord, 0, len(records))
	for _, record := range records {
		if record != nil {
			kept = append(kept, record)
		}
	}

	summary := model.NewBatchSummary(kept)
	return &JSONReport{
		Version:     version,
		GeneratedAt: summary.GeneratedAt,
		Records:     kept,
		Summary:     summary,
	}
}
