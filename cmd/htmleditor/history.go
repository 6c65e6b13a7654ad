package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fromdoppler/htmleditor/internal/config"
	"github.com/fromdoppler/htmleditor/internal/database"
	"github.com/fromdoppler/htmleditor/internal/report"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [source]",
		Short: "Inspect archived processing runs",
		Long: `History reads the local archive written by 'htmleditor process'.

Without arguments it lists every archived record, newest first. With a
source it lists only the records of that input. --id prints one record
in full, --fingerprint finds runs of identical raw input.

Examples:
  # List every archived record
  htmleditor history

  # List the records of one file
  htmleditor history newsletter.html

  # Show record 12 including its content
  htmleditor history --id 12

  # Show record 12 as JSON
  htmleditor history --id 12 --json

  # List the archived sources
  htmleditor history --sources`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64P("id", "i", 0,
		"Show the archived record with this ID")
	cmd.Flags().StringP("fingerprint", "F", "",
		"List records whose raw input has this fingerprint")
	cmd.Flags().BoolP("sources", "S", false,
		"List the archived sources")
	cmd.Flags().BoolP("json", "j", false,
		"Print the record selected with --id as JSON")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	id, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}
	fingerprint, err := cmd.Flags().GetString("fingerprint")
	if err != nil {
		return err
	}
	listSources, err := cmd.Flags().GetBool("sources")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(config.XDGDataDir(), opts)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer db.Close()

	source := ""
	if len(args) > 0 {
		source = args[0]
	}

	return runHistory(cmd.Context(), db, historyQuery{
		id:          id,
		source:      source,
		fingerprint: fingerprint,
		sources:     listSources,
		json:        jsonOutput,
	}, cmd.OutOrStdout())
}

// historyQuery selects what the history command prints.
type historyQuery struct {
	id          int64
	source      string
	fingerprint string
	sources     bool
	json        bool
}

func runHistory(ctx context.Context, db *database.ContentDB, q historyQuery, out io.Writer) error {
	switch {
	case q.sources:
		return listArchivedSources(ctx, db, out)
	case q.id > 0:
		return showArchivedRecord(ctx, db, q.id, q.json, out)
	case q.fingerprint != "":
		summaries, err := db.FindByFingerprint(ctx, q.fingerprint)
		if err != nil {
			return fmt.Errorf("failed to search archive: %w", err)
		}
		printSummaries(out, "fingerprint "+q.fingerprint, summaries)
		return nil
	default:
		summaries, err := db.ListContentRecords(ctx, q.source)
		if err != nil {
			return fmt.Errorf("failed to list archive: %w", err)
		}
		title := "all sources"
		if q.source != "" {
			title = q.source
		}
		printSummaries(out, title, summaries)
		return nil
	}
}

func listArchivedSources(ctx context.Context, db *database.ContentDB, out io.Writer) error {
	sources, err := db.ListSources(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if len(sources) == 0 {
		fmt.Fprintln(out, "No archived records found.")
		fmt.Fprintln(out, "\nUse 'htmleditor process <file>' to process and archive content.")
		return nil
	}

	fmt.Fprintf(out, "Archived sources (%d):\n\n", len(sources))
	for _, source := range sources {
		fmt.Fprintf(out, "  • %s\n", source)
	}
	fmt.Fprintln(out, "\nUse 'htmleditor history <source>' to list the records of a source.")
	return nil
}

func showArchivedRecord(ctx context.Context, db *database.ContentDB, id int64, jsonOutput bool, out io.Writer) error {
	record, err := db.GetContentRecord(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get record %d: %w", id, err)
	}
	if record == nil {
		return fmt.Errorf("record with ID %d not found", id)
	}

	var writer report.Writer
	if jsonOutput {
		writer = report.NewJSONWriter(out, report.WithPrettyPrint())
	} else {
		writer = report.NewSimpleWriter(out, report.WithShowContent(true), report.WithShowEmpty(true))
	}
	_, err = writer.Write(record)
	return err
}

func printSummaries(out io.Writer, title string, summaries []database.ContentSummary) {
	if len(summaries) == 0 {
		fmt.Fprintf(out, "No archived records found for %s\n", title)
		return
	}

	fmt.Fprintf(out, "Archived records for %s (%d):\n\n", title, len(summaries))
	fmt.Fprintf(out, "  %-6s  %-20s  %-26s  %-6s  %-5s  %s\n", "ID", "Date", "Layout", "Fields", "Links", "Source")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 86))

	for _, s := range summaries {
		source := s.Source
		if s.Failed {
			source += " (failed)"
		}
		fmt.Fprintf(out, "  %-6d  %-20s  %-26s  %-6d  %-5d  %s\n",
			s.ID,
			s.ProcessedAt.Format("2006-01-02 15:04:05"),
			s.Layout,
			s.FieldCount,
			s.LinkCount,
			source,
		)
	}

	fmt.Fprintln(out, "\nUse 'htmleditor history --id <id>' to show a record.")
}
