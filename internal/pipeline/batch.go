package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/fromdoppler/htmleditor/internal/fields"
	"github.com/fromdoppler/htmleditor/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of inputs processed at once when
// WithConcurrency is not given.
const DefaultConcurrency = 8

// BatchProcessor processes many inputs concurrently.
// Every input gets a fresh pipeline and document; the field processor is
// shared read-only.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each input.
	pipelineFactory func() *Pipeline

	processor *fields.Processor

	concurrency int

	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of inputs processed at once.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, processor *fields.Processor, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		processor:       processor,
		concurrency:     DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch processes inputs concurrently and returns one record per
// input, in input order. A failing input records its error and does not
// stop the others. Inputs not started before ctx ends get a cancelled
// record; the returned error is then the context error.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, inputs []Input) ([]*model.ContentRecord, error) {
	bp.logger.Info("starting batch processing",
		"total_inputs", len(inputs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Each goroutine writes only its own index.
	results := make([]*model.ContentRecord, len(inputs))

	err := bp.run(ctx, inputs, func(record *model.ContentRecord, index int) {
		results[index] = record
	})

	bp.logger.Info("batch processing complete",
		"total_inputs", len(inputs),
		"elapsed", time.Since(startTime),
	)

	return results, err
}

// ProcessBatchWithCallback processes inputs concurrently and calls callback
// for each finished record with the input's index. callback is called from
// worker goroutines and must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	inputs []Input,
	callback func(record *model.ContentRecord, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_inputs", len(inputs),
		"concurrency", bp.concurrency,
	)

	return bp.run(ctx, inputs, callback)
}

func (bp *BatchProcessor) run(
	ctx context.Context,
	inputs []Input,
	done func(record *model.ContentRecord, index int),
) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				record := model.NewContentRecord(input.Source, input.HTML)
				record.Cancelled = true
				record.SetError(ctx.Err())
				done(record, i)
				return ctx.Err()
			default:
			}

			bp.logger.Info("processing input",
				"source", input.Source,
				"index", i+1,
				"total", len(inputs),
			)

			record, err := bp.pipelineFactory().Process(ctx, input, bp.processor)
			done(record, i)

			if err != nil {
				// The error is on the record; keep the other inputs going.
				bp.logger.Warn("processing failed",
					"source", input.Source,
					"error", err,
				)
			}

			return nil
		})
	}

	return g.Wait()
}
