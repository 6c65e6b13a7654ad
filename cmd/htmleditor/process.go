package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fromdoppler/htmleditor/internal/config"
	"github.com/fromdoppler/htmleditor/internal/database"
	"github.com/fromdoppler/htmleditor/internal/log"
	"github.com/fromdoppler/htmleditor/internal/model"
	"github.com/fromdoppler/htmleditor/internal/pipeline"
	"github.com/fromdoppler/htmleditor/internal/report"
	"github.com/spf13/cobra"
)

// stdinSource is the input name that reads standard input.
const stdinSource = "-"

var (
	// errInputTooLarge is returned when an input exceeds --max-input-size.
	errInputTooLarge = errors.New("input exceeds maximum size")

	// errProcessingFailed is returned when at least one input failed.
	errProcessingFailed = errors.New("processing failed")
)

// NewProcessCmd creates the process command.
func NewProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process [files...]",
		Short: "Sanitize HTML content and report its fields and links",
		Long: `Process runs every input through the content pipeline:

  1. remove_harmful_tags          drop script, embed, iframe and meta refresh
  2. remove_event_attributes      drop on* attributes
  3. replace_field_name_tags      [[[FIRST_NAME]]] -> |*|319*|*
  4. remove_unknown_field_id_tags drop id tags of unknown fields
  5. sanitize_trackable_links     normalize http, https, ftp and www links
  6. collect                      record content, fields and links

Use - to read from standard input.

Examples:
  # Process one file and print a report
  htmleditor process template.html

  # Process several files concurrently and print a JSON report
  htmleditor process --json --batch 4 a.html b.html c.html

  # Print only the sanitized HTML
  cat template.html | htmleditor process --content-only -

  # Show the content as the editor would load it again
  htmleditor process --content-only --editor template.html

  # Keep unknown id tags
  htmleditor process --skip remove_unknown_field_id_tags template.html`,
		Args: cobra.ArbitraryArgs,
		RunE: runProcessCmd,
	}

	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of inputs processed concurrently")
	cmd.Flags().StringP("config", "c", "",
		"Field catalog file path (default: .htmleditor in current or home directory)")
	cmd.Flags().Int64("max-input-size", config.DefaultMaxInputSize,
		"Maximum number of bytes read from one input")
	cmd.Flags().StringSlice("skip", nil,
		"Pipeline steps to skip (comma separated)")
	cmd.Flags().BoolP("editor", "E", false,
		"Convert id tags back to name tags in the printed content")
	cmd.Flags().Bool("no-archive", false,
		"Do not archive processed records in the local database")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report")
	cmd.Flags().BoolP("content-only", "C", false,
		"Output only the processed HTML")
	cmd.Flags().BoolP("show-content", "s", false,
		"Include the processed HTML in text and Markdown reports")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

func runProcessCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := pipeline.ValidateStepNames(cfg.SkipSteps); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	showContent, err := cmd.Flags().GetBool("show-content")
	if err != nil {
		return err
	}

	return runProcess(ctx, cfg, processIO{
		in:          cmd.InOrStdin(),
		out:         cmd.OutOrStdout(),
		showContent: showContent,
	}, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}
	if cfg.MaxInputSize, err = cmd.Flags().GetInt64("max-input-size"); err != nil {
		return nil, err
	}
	if cfg.SkipSteps, err = cmd.Flags().GetStringSlice("skip"); err != nil {
		return nil, err
	}
	if cfg.EditorView, err = cmd.Flags().GetBool("editor"); err != nil {
		return nil, err
	}
	noArchive, err := cmd.Flags().GetBool("no-archive")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noArchive

	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ContentOnly, err = cmd.Flags().GetBool("content-only"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}

	catalog, _, err := config.LoadCatalog(cfg.ConfigFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load field catalog: %w", err)
	}
	cfg.Catalog = catalog

	cfg.Inputs = args

	return cfg, nil
}

// processIO holds the streams and output switches of a process run.
type processIO struct {
	in          io.Reader
	out         io.Writer
	showContent bool
}

// runProcess reads the inputs, runs the batch and writes the report.
func runProcess(ctx context.Context, cfg *config.Config, pio processIO, logger *slog.Logger) error {
	inputs, err := readInputs(cfg.Inputs, pio.in, cfg.InputLimit())
	if err != nil {
		return err
	}

	logger.Info("starting processing",
		"inputs", len(inputs),
		"batch_size", cfg.BatchSize,
		"archive", cfg.SaveToDB,
	)

	processor := cfg.Catalog.Processor()
	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return createPipeline(cfg, logger)
		},
		processor,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	records, batchErr := bp.ProcessBatch(ctx, inputs)

	if cfg.SaveToDB {
		if err := archiveRecords(ctx, cfg.DBDir, records, logger); err != nil {
			logger.Error("failed to archive records", "error", err)
		}
	}

	if err := outputReport(cfg, pio, records); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if batchErr != nil {
		return batchErr
	}

	summary := model.NewBatchSummary(records)
	if summary.HasFailures() {
		return fmt.Errorf("%w: %d of %d input(s)", errProcessingFailed, summary.Failed, summary.Total)
	}
	return nil
}

// createPipeline builds the pipeline for one input.
func createPipeline(cfg *config.Config, logger *slog.Logger) *pipeline.Pipeline {
	pipelineOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	}

	return pipeline.DefaultPipeline(pipelineOpts,
		pipeline.WithSkippedSteps(cfg.SkipSteps...),
		pipeline.WithEditorView(cfg.EditorView),
	)
}

// readInputs loads every input path. stdinSource reads in once; reading it
// twice is an error.
func readInputs(paths []string, in io.Reader, limit int64) ([]pipeline.Input, error) {
	inputs := make([]pipeline.Input, 0, len(paths))
	stdinRead := false

	for _, path := range paths {
		var (
			data []byte
			err  error
		)

		if path == stdinSource {
			if stdinRead {
				return nil, errors.New("standard input can only be read once")
			}
			stdinRead = true
			data, err = readLimited(in, limit)
		} else {
			data, err = readFile(path, limit)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sourceName(path), err)
		}

		inputs = append(inputs, pipeline.Input{
			Source: sourceName(path),
			HTML:   string(data),
		})
	}

	return inputs, nil
}

func readFile(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readLimited(f, limit)
}

// readLimited reads r fully, failing when it holds more than limit bytes.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w (%d bytes)", errInputTooLarge, limit)
	}
	return data, nil
}

func sourceName(path string) string {
	if path == stdinSource {
		return "stdin"
	}
	return path
}

// archiveRecords saves records to the local database.
func archiveRecords(ctx context.Context, dbDir string, records []*model.ContentRecord, logger *slog.Logger) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// Cancellation must not drop the records that did finish.
	ctx = context.WithoutCancel(ctx)

	for _, record := range records {
		if record == nil {
			continue
		}
		id, err := db.SaveContentRecord(ctx, record)
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", record.Source, err)
		}
		logger.Info("record archived", "source", record.Source, "id", id)
	}
	return nil
}

// outputReport writes the report in the requested format.
func outputReport(cfg *config.Config, pio processIO, records []*model.ContentRecord) error {
	output := pio.out
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports contain subscriber content; keep them private to the owner.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	writer := newReportWriter(cfg, output, pio.showContent)

	if len(records) == 1 {
		_, err := writer.Write(records[0])
		return err
	}
	_, err := writer.WriteBatch(records)
	return err
}

// newReportWriter selects the report writer for the configured format.
func newReportWriter(cfg *config.Config, output io.Writer, showContent bool) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output, report.WithMarkdownContent(showContent))
	case cfg.ContentOnly:
		return report.NewContentWriter(output, report.WithEditorContent(cfg.EditorView))
	default:
		return report.NewSimpleWriter(output, report.WithShowContent(showContent))
	}
}
