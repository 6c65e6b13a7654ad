package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/fromdoppler/htmleditor/internal/model"
)

// MarkdownWriter outputs records in GitHub flavored Markdown.
type MarkdownWriter struct {
	baseWriter

	// showContent embeds the processed HTML in a collapsible block.
	showContent bool
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownContent embeds the processed content in the report.
func WithMarkdownContent(show bool) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.showContent = show
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs one record in Markdown format.
func (w *MarkdownWriter) Write(record *model.ContentRecord) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("HTML Content Report")
	md.PlainText("")
	w.writeRecord(md, record)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteBatch outputs the run summary followed by every record.
func (w *MarkdownWriter) WriteBatch(records []*model.ContentRecord) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("HTML Content Batch Report")
	md.PlainText("")
	w.writeSummary(md, model.NewBatchSummary(records))

	for _, record := range records {
		if record == nil {
			continue
		}
		md.H2(record.Source)
		md.PlainText("")
		w.writeRecord(md, record)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeRecord(md *markdown.Markdown, record *model.ContentRecord) {
	head := "no"
	if record.HasHead() {
		head = "yes"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", "`" + record.Source + "`"},
			{"Fingerprint", "`" + truncateString(record.Fingerprint, 16) + "`"},
			{"Layout", record.Layout},
			{"Head", head},
			{"Processed", record.ProcessedAt.Format("2006-01-02 15:04:05 MST")},
			{"Status", w.statusText(record)},
		},
	})
	md.PlainText("")

	switch {
	case record.Cancelled:
		md.Warningf("Processing was cancelled after %d step(s).", len(record.PerformedSteps))
	case record.ErrorMessage != "":
		md.Cautionf("Processing failed: %s", record.ErrorMessage)
	}

	w.writeFields(md, record)
	w.writeLinks(md, record)

	if len(record.PerformedSteps) > 0 {
		md.PlainTextf("Steps: %s", strings.Join(record.PerformedSteps, " → "))
		md.PlainText("")
	}

	if w.showContent {
		md.Details("Processed content", "\n```html\n"+record.Content+"\n```\n")
		if record.EditorContent != "" {
			md.Details("Editor view", "\n```html\n"+record.EditorContent+"\n```\n")
		}
		md.PlainText("")
	}
}

func (w *MarkdownWriter) statusText(record *model.ContentRecord) string {
	switch {
	case record.Cancelled:
		return "⚠️ Cancelled (partial results)"
	case record.ErrorMessage != "":
		return "❌ Error"
	default:
		return "✅ Complete"
	}
}

func (w *MarkdownWriter) writeFields(md *markdown.Markdown, record *model.ContentRecord) {
	md.PlainText("**Merge fields**")
	md.PlainText("")

	if len(record.FieldIDs) == 0 {
		md.PlainText("No merge fields referenced.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(record.FieldIDs))
	for _, row := range fieldRows(record) {
		rows = append(rows, []string{row.id, "`" + row.tag + "`", row.name})
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Tag", "Name"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeLinks(md *markdown.Markdown, record *model.ContentRecord) {
	md.PlainText("**Trackable links**")
	md.PlainText("")

	if len(record.TrackableURLs) == 0 {
		md.PlainText("No trackable links.")
		md.PlainText("")
		return
	}

	md.BulletList(record.TrackableURLs...)
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, summary *model.BatchSummary) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Inputs", strconv.Itoa(summary.Total)},
			{"Succeeded", strconv.Itoa(summary.Succeeded)},
			{"Failed", strconv.Itoa(summary.Failed)},
			{"Cancelled", strconv.Itoa(summary.Cancelled)},
			{"Merge fields", orDash(joinInts(summary.FieldIDs))},
			{"Distinct links", strconv.Itoa(summary.TrackableURLs)},
		},
	})
	md.PlainText("")

	if len(summary.Layouts) > 0 {
		w.writePieChart(md, summary)
	}

	if summary.HasFailures() {
		md.Warningf("%d of %d input(s) could not be processed.", summary.Failed, summary.Total)
	} else {
		md.Tip("All inputs were processed.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of the layout distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.BatchSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Document Layouts"),
		piechart.WithShowData(true),
	)

	for _, entry := range sortedLayouts(summary.Layouts) {
		name, _, _ := strings.Cut(entry, ": ")
		chart.LabelAndIntValue(name, uint64(summary.Layouts[name]))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by htmleditor*")
}
