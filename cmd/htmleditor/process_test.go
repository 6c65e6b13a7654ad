package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fromdoppler/htmleditor/internal/config"
	"github.com/fromdoppler/htmleditor/internal/database"
	"github.com/fromdoppler/htmleditor/internal/pipeline"
)

const testTemplate = `<p onclick="track()">Hello [[[FIRST_NAME]]]</p><script>bad()</script>`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestConfig returns a config with the built-in catalog and an archive
// in a temporary directory.
func newTestConfig(t *testing.T, inputs ...string) *config.Config {
	t.Helper()

	catalog, err := config.DefaultCatalog()
	if err != nil {
		t.Fatalf("failed to load default catalog: %v", err)
	}

	cfg := config.NewConfig()
	cfg.Catalog = catalog
	cfg.DBDir = t.TempDir()
	cfg.Inputs = inputs
	return cfg
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewProcessCmd(t *testing.T) {
	t.Parallel()

	cmd := NewProcessCmd()
	for _, name := range []string{
		"batch", "config", "max-input-size", "skip", "editor", "no-archive",
		"json", "markdown", "content-only", "show-content", "output",
	} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected %s flag", name)
		}
	}
}

func TestReadLimited(t *testing.T) {
	t.Parallel()

	data, err := readLimited(strings.NewReader("12345"), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "12345" {
		t.Errorf("data = %q", data)
	}

	_, err = readLimited(strings.NewReader("123456"), 5)
	if !errors.Is(err, errInputTooLarge) {
		t.Errorf("expected errInputTooLarge, got %v", err)
	}
}

func TestReadInputs(t *testing.T) {
	t.Parallel()

	t.Run("reads files and stdin", func(t *testing.T) {
		t.Parallel()

		path := writeInput(t, "a.html", "<p>file</p>")
		inputs, err := readInputs([]string{path, "-"}, strings.NewReader("<p>stdin</p>"), 1024)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []pipeline.Input{
			{Source: path, HTML: "<p>file</p>"},
			{Source: "stdin", HTML: "<p>stdin</p>"},
		}
		if diff := cmp.Diff(want, inputs); diff != "" {
			t.Errorf("inputs mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("rejects stdin twice", func(t *testing.T) {
		t.Parallel()

		_, err := readInputs([]string{"-", "-"}, strings.NewReader(""), 1024)
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("reports missing file", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(t.TempDir(), "missing.html")
		_, err := readInputs([]string{missing}, nil, 1024)
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected not exist error, got %v", err)
		}
	})
}

func TestRunProcess(t *testing.T) {
	t.Parallel()

	t.Run("content only", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t, "-")
		cfg.ContentOnly = true
		cfg.SaveToDB = false

		var out bytes.Buffer
		err := runProcess(context.Background(), cfg, processIO{
			in:  strings.NewReader(testTemplate),
			out: &out,
		}, discardLogger())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if diff := cmp.Diff("<p>Hello |*|319*|*</p>\n", out.String()); diff != "" {
			t.Errorf("output mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("editor view", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t, "-")
		cfg.ContentOnly = true
		cfg.EditorView = true
		cfg.SaveToDB = false

		var out bytes.Buffer
		err := runProcess(context.Background(), cfg, processIO{
			in:  strings.NewReader(testTemplate),
			out: &out,
		}, discardLogger())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if diff := cmp.Diff("<p>Hello [[[FIRST_NAME]]]</p>\n", out.String()); diff != "" {
			t.Errorf("output mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("json batch report", func(t *testing.T) {
		t.Parallel()

		first := writeInput(t, "first.html", testTemplate)
		second := writeInput(t, "second.html", `<a href="WWW.Example.COM/x">x</a>`)

		cfg := newTestConfig(t, first, second)
		cfg.JSONReport = true
		cfg.SaveToDB = false

		var out bytes.Buffer
		err := runProcess(context.Background(), cfg, processIO{out: &out}, discardLogger())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got struct {
			Records []struct {
				Source        string   `json:"source"`
				FieldIDs      []int    `json:"field_ids"`
				TrackableURLs []string `json:"trackable_urls"`
			} `json:"records"`
		}
		if err := json.Unmarshal(out.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(got.Records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(got.Records))
		}
		if got.Records[0].Source != first || got.Records[1].Source != second {
			t.Errorf("records out of order: %+v", got.Records)
		}
		if diff := cmp.Diff([]int{319}, got.Records[0].FieldIDs); diff != "" {
			t.Errorf("field ids mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"http://www.example.com/x"}, got.Records[1].TrackableURLs); diff != "" {
			t.Errorf("urls mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("writes report file", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t, "-")
		cfg.SaveToDB = false
		cfg.ReportFile = filepath.Join(t.TempDir(), "reports", "report.txt")

		var out bytes.Buffer
		err := runProcess(context.Background(), cfg, processIO{
			in:  strings.NewReader(testTemplate),
			out: &out,
		}, discardLogger())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if out.Len() != 0 {
			t.Error("expected nothing on stdout")
		}
		data, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("expected report file: %v", err)
		}
		if !strings.Contains(string(data), "HTML CONTENT REPORT") {
			t.Error("expected text report in file")
		}
	})

	t.Run("archives records", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t, "-")
		cfg.ContentOnly = true

		err := runProcess(context.Background(), cfg, processIO{
			in:  strings.NewReader(testTemplate),
			out: io.Discard,
		}, discardLogger())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open archive: %v", err)
		}
		defer db.Close()

		summaries, err := db.ListContentRecords(context.Background(), "stdin")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(summaries) != 1 {
			t.Fatalf("expected 1 archived record, got %d", len(summaries))
		}
		if summaries[0].FieldCount != 1 {
			t.Errorf("field count = %d, want 1", summaries[0].FieldCount)
		}
	})

	t.Run("input too large", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t, "-")
		cfg.MaxInputSize = 4
		cfg.SaveToDB = false

		err := runProcess(context.Background(), cfg, processIO{
			in:  strings.NewReader(testTemplate),
			out: io.Discard,
		}, discardLogger())
		if !errors.Is(err, errInputTooLarge) {
			t.Errorf("expected errInputTooLarge, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t, "-")
		cfg.SaveToDB = false
		cfg.ContentOnly = true

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := runProcess(ctx, cfg, processIO{
			in:  strings.NewReader(testTemplate),
			out: io.Discard,
		}, discardLogger())
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestProcessCmdRejectsUnknownStep(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "a.html", "<p>x</p>")

	cmd := NewRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"process", "--no-archive", "--skip", "nope", path})

	err := cmd.Execute()
	if !errors.Is(err, pipeline.ErrUnknownStep) {
		t.Errorf("expected ErrUnknownStep, got %v", err)
	}
}

func TestProcessCmdRejectsConflictingFormats(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "a.html", "<p>x</p>")

	cmd := NewRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"process", "--no-archive", "--json", "--markdown", path})

	err := cmd.Execute()
	if !errors.Is(err, config.ErrConflictingReportFormats) {
		t.Errorf("expected ErrConflictingReportFormats, got %v", err)
	}
}
