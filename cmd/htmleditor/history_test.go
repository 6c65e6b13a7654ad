package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fromdoppler/htmleditor/internal/database"
	"github.com/fromdoppler/htmleditor/internal/model"
)

// newTestArchive opens an archive in a temporary directory holding one
// record per source.
func newTestArchive(t *testing.T, sources ...string) (*database.ContentDB, []int64) {
	t.Helper()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ids := make([]int64, 0, len(sources))
	for _, source := range sources {
		record := model.NewContentRecord(source, "<p>"+source+"</p>")
		record.Layout = "no_head"
		record.Content = "<p>Hi |*|319*|*</p>"
		record.FieldIDs = []int{319}
		record.FieldNames = map[int]string{319: "FIRST_NAME"}

		id, err := db.SaveContentRecord(context.Background(), record)
		if err != nil {
			t.Fatalf("failed to save record: %v", err)
		}
		ids = append(ids, id)
	}
	return db, ids
}

func TestRunHistory(t *testing.T) {
	t.Parallel()

	t.Run("lists all records", func(t *testing.T) {
		t.Parallel()

		db, _ := newTestArchive(t, "a.html", "b.html")

		var out bytes.Buffer
		if err := runHistory(context.Background(), db, historyQuery{}, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := out.String()
		if !strings.Contains(output, "all sources (2)") {
			t.Errorf("expected two records, got %s", output)
		}
		if !strings.Contains(output, "a.html") || !strings.Contains(output, "b.html") {
			t.Error("expected both sources")
		}
	})

	t.Run("filters by source", func(t *testing.T) {
		t.Parallel()

		db, _ := newTestArchive(t, "a.html", "b.html")

		var out bytes.Buffer
		if err := runHistory(context.Background(), db, historyQuery{source: "b.html"}, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(out.String(), "a.html") {
			t.Error("expected only b.html records")
		}
	})

	t.Run("lists sources", func(t *testing.T) {
		t.Parallel()

		db, _ := newTestArchive(t, "b.html", "a.html", "a.html")

		var out bytes.Buffer
		if err := runHistory(context.Background(), db, historyQuery{sources: true}, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "Archived sources (2)") {
			t.Errorf("expected two distinct sources, got %s", out.String())
		}
	})

	t.Run("empty archive", func(t *testing.T) {
		t.Parallel()

		db, _ := newTestArchive(t)

		var out bytes.Buffer
		if err := runHistory(context.Background(), db, historyQuery{source: "x.html"}, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "No archived records found for x.html") {
			t.Errorf("unexpected output: %s", out.String())
		}
	})

	t.Run("shows record as text", func(t *testing.T) {
		t.Parallel()

		db, ids := newTestArchive(t, "a.html")

		var out bytes.Buffer
		if err := runHistory(context.Background(), db, historyQuery{id: ids[0]}, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "<p>Hi |*|319*|*</p>") {
			t.Errorf("expected content in output, got %s", out.String())
		}
	})

	t.Run("shows record as json", func(t *testing.T) {
		t.Parallel()

		db, ids := newTestArchive(t, "a.html")

		var out bytes.Buffer
		if err := runHistory(context.Background(), db, historyQuery{id: ids[0], json: true}, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got model.ContentRecord
		if err := json.Unmarshal(out.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.ID != ids[0] || got.Source != "a.html" {
			t.Errorf("unexpected record: id=%d source=%q", got.ID, got.Source)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()

		db, _ := newTestArchive(t, "a.html")

		err := runHistory(context.Background(), db, historyQuery{id: 999}, &bytes.Buffer{})
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected not found error, got %v", err)
		}
	})

	t.Run("finds by fingerprint", func(t *testing.T) {
		t.Parallel()

		db, _ := newTestArchive(t, "a.html", "b.html")

		var out bytes.Buffer
		q := historyQuery{fingerprint: model.Fingerprint("<p>a.html</p>")}
		if err := runHistory(context.Background(), db, q, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "a.html") || strings.Contains(out.String(), "b.html") {
			t.Errorf("unexpected output: %s", out.String())
		}
	})
}
