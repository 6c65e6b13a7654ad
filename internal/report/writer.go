package report

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fromdoppler/htmleditor/internal/htmldoc"
	"github.com/fromdoppler/htmleditor/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs one record.
	// Returns the number of bytes written and any error encountered.
	Write(record *model.ContentRecord) (int, error)

	// WriteBatch outputs the records of a run and their summary.
	WriteBatch(records []*model.ContentRecord) (int, error)
}

// MultiWriter writes to multiple Writers.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the record to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(record *model.ContentRecord) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(record)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteBatch outputs the records to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) WriteBatch(records []*model.ContentRecord) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteBatch(records)
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

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// statusText returns the status line of a record.
func statusText(record *model.ContentRecord) string {
	switch {
	case record.Cancelled:
		return "CANCELLED (partial results)"
	case record.ErrorMessage != "":
		return "ERROR - " + record.ErrorMessage
	default:
		return "Complete"
	}
}

// fieldRow is one referenced field of a record.
type fieldRow struct {
	tag  string
	id   string
	name string
}

// fieldRows lists the referenced fields of a record in order of appearance.
func fieldRows(record *model.ContentRecord) []fieldRow {
	rows := make([]fieldRow, 0, len(record.FieldIDs))
	for _, id := range record.FieldIDs {
		name, ok := record.FieldNames[id]
		if !ok {
			name = "-"
		}
		rows = append(rows, fieldRow{
			tag:  htmldoc.FieldIDTag(id),
			id:   strconv.Itoa(id),
			name: name,
		})
	}
	return rows
}

// sortedLayouts returns "layout: count" entries sorted by layout name.
func sortedLayouts(layouts map[string]int) []string {
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]string, len(names))
	for i, name := range names {
		entries[i] = name + ": " + strconv.Itoa(layouts[name])
	}
	return entries
}

// joinInts joins ids with ", ".
func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}

// truncateString truncates s to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
