package pipeline

import (
	"context"
	"log/slog"

	"github.com/fromdoppler/htmleditor/internal/fields"
	"github.com/fromdoppler/htmleditor/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
type Step interface {
	// Do executes the step on the job. Steps record their results on the
	// job's document or record and return an error only when they cannot
	// run at all.
	Do(ctx context.Context, job *Job) error

	// Name returns the step's name for logging and reports.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	steps []Step

	logger *slog.Logger

	// continueOnError keeps executing after a failing step.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. The error of the last failing step is kept on
// the record.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps on the job in sequence.
// Cancellation is checked before each step; a cancelled run marks the
// record and returns the context error.
//
// Returns the first step error unless continueOnError is set.
func (p *Pipeline) Execute(ctx context.Context, job *Job) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"source", job.Record.Source,
				"reason", ctx.Err(),
			)
			job.Record.Cancelled = true
			job.Record.SetError(ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"source", job.Record.Source,
		)

		if err := step.Do(ctx, job); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"source", job.Record.Source,
				"error", err,
			)

			job.Record.SetError(err)

			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed",
				"step", step.Name(),
				"source", job.Record.Source,
			)
		}

		job.Record.PerformedSteps = append(job.Record.PerformedSteps, step.Name())
	}

	return nil
}

// Process loads input, runs the pipeline on it and returns the record.
// The record is returned even when an error occurs.
func (p *Pipeline) Process(ctx context.Context, input Input, processor *fields.Processor) (*model.ContentRecord, error) {
	job := NewJob(input, processor)
	err := p.Execute(ctx, job)
	return job.Record, err
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
