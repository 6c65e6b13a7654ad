package report

import (
	"io"
	"strings"

	"github.com/fromdoppler/htmleditor/internal/model"
)

// ContentWriter outputs only the processed HTML, ready to be stored or
// piped into another tool.
type ContentWriter struct {
	baseWriter

	// editorView prints the editor view instead of the stored content.
	editorView bool

	// withHead prepends the kept head block.
	withHead bool
}

// ContentWriterOption configures a ContentWriter.
type ContentWriterOption func(*ContentWriter)

// WithEditorContent prints the editor view of each record when present.
func WithEditorContent(enabled bool) ContentWriterOption {
	return func(w *ContentWriter) {
		w.editorView = enabled
	}
}

// WithHead prepends the head block of each record.
func WithHead(enabled bool) ContentWriterOption {
	return func(w *ContentWriter) {
		w.withHead = enabled
	}
}

// NewContentWriter creates a ContentWriter that outputs to the given writer.
func NewContentWriter(output io.Writer, opts ...ContentWriterOption) *ContentWriter {
	w := &ContentWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the content of one record followed by a newline.
// Failed records produce no output.
func (w *ContentWriter) Write(record *model.ContentRecord) (int, error) {
	var sb strings.Builder
	w.writeContent(&sb, record)
	return io.WriteString(w.output, sb.String())
}

// WriteBatch outputs the content of every successful record in order.
func (w *ContentWriter) WriteBatch(records []*model.ContentRecord) (int, error) {
	var sb strings.Builder
	for _, record := range records {
		if record != nil {
			w.writeContent(&sb, record)
		}
	}
	return io.WriteString(w.output, sb.String())
}

func (w *ContentWriter) writeContent(sb *strings.Builder, record *model.ContentRecord) {
	if record.Failed() {
		return
	}

	if w.withHead && record.HasHead() {
		sb.WriteString("<head>")
		sb.WriteString(record.HeadOrEmpty())
		sb.WriteString("</head>\n")
	}

	content := record.Content
	if w.editorView && record.EditorContent != "" {
		content = record.EditorContent
	}
	sb.WriteString(content)
	sb.WriteString("\n")
}
