package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fromdoppler/htmleditor/internal/model"
)

// SimpleWriter outputs human-readable text reports.
type SimpleWriter struct {
	baseWriter

	// showContent appends the processed content to each record.
	showContent bool

	// showEmpty prints sections that have no entries.
	showEmpty bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowContent includes the processed content in the report.
func WithShowContent(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showContent = show
	}
}

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one record in human-readable format.
func (w *SimpleWriter) Write(record *model.ContentRecord) (int, error) {
	var sb strings.Builder
	w.writeRecord(&sb, record)
	w.writeFooter(&sb)
	return w.output.Write([]byte(sb.String()))
}

// WriteBatch outputs every record followed by the run summary.
func (w *SimpleWriter) WriteBatch(records []*model.ContentRecord) (int, error) {
	var sb strings.Builder
	for _, record := range records {
		if record != nil {
			w.writeRecord(&sb, record)
		}
	}
	w.writeSummary(&sb, model.NewBatchSummary(records))
	w.writeFooter(&sb)
	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeRecord(sb *strings.Builder, record *model.ContentRecord) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                       HTML CONTENT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Source:       %s\n", record.Source)
	fmt.Fprintf(sb, "Fingerprint:  %s\n", record.Fingerprint)
	fmt.Fprintf(sb, "Layout:       %s\n", record.Layout)
	fmt.Fprintf(sb, "Processed:    %s\n", record.ProcessedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Status:       %s\n", statusText(record))
	if record.HasHead() {
		sb.WriteString("Head:         kept\n")
	}
	sb.WriteString("\n")

	w.writeFields(sb, record)
	w.writeLinks(sb, record)
	w.writeSteps(sb, record)

	if w.showContent {
		w.writeSection(sb, "CONTENT")
		sb.WriteString(record.Content)
		sb.WriteString("\n\n")
		if record.EditorContent != "" {
			w.writeSection(sb, "EDITOR VIEW")
			sb.WriteString(record.EditorContent)
			sb.WriteString("\n\n")
		}
	}
}

func (w *SimpleWriter) writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

func (w *SimpleWriter) writeFields(sb *strings.Builder, record *model.ContentRecord) {
	if len(record.FieldIDs) == 0 && !w.showEmpty {
		return
	}

	w.writeSection(sb, "MERGE FIELDS")
	if len(record.FieldIDs) == 0 {
		sb.WriteString("  No merge fields\n\n")
		return
	}
	for _, row := range fieldRows(record) {
		fmt.Fprintf(sb, "  %-14s %s\n", row.tag, row.name)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeLinks(sb *strings.Builder, record *model.ContentRecord) {
	if len(record.TrackableURLs) == 0 && !w.showEmpty {
		return
	}

	w.writeSection(sb, "TRACKABLE LINKS")
	if len(record.TrackableURLs) == 0 {
		sb.WriteString("  No trackable links\n\n")
		return
	}
	for _, url := range record.TrackableURLs {
		fmt.Fprintf(sb, "  [+] %s\n", url)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSteps(sb *strings.Builder, record *model.ContentRecord) {
	if len(record.PerformedSteps) == 0 {
		return
	}
	fmt.Fprintf(sb, "Steps: %s\n\n", strings.Join(record.PerformedSteps, " -> "))
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, summary *model.BatchSummary) {
	w.writeSection(sb, "SUMMARY")

	fmt.Fprintf(sb, "  INPUTS:     %d\n", summary.Total)
	fmt.Fprintf(sb, "  SUCCEEDED:  %d\n", summary.Succeeded)
	fmt.Fprintf(sb, "  FAILED:     %d\n", summary.Failed)
	if summary.Cancelled > 0 {
		fmt.Fprintf(sb, "  CANCELLED:  %d\n", summary.Cancelled)
	}
	fmt.Fprintf(sb, "  FIELDS:     %s\n", orDash(joinInts(summary.FieldIDs)))
	fmt.Fprintf(sb, "  LINKS:      %d distinct\n", summary.TrackableURLs)
	for _, entry := range sortedLayouts(summary.Layouts) {
		fmt.Fprintf(sb, "  LAYOUT      %s\n", entry)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
