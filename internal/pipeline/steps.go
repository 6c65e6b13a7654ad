package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/fromdoppler/htmleditor/internal/htmldoc"
)

// Step names.
const (
	StepRemoveHarmfulTags        = "remove_harmful_tags"
	StepRemoveEventAttributes    = "remove_event_attributes"
	StepReplaceFieldNameTags     = "replace_field_name_tags"
	StepRemoveUnknownFieldIDTags = "remove_unknown_field_id_tags"
	StepSanitizeTrackableLinks   = "sanitize_trackable_links"
	StepCollect                  = "collect"
	StepEditorView               = "editor_view"
)

// SkippableSteps are the steps DefaultPipeline can leave out, in execution order.
var SkippableSteps = []string{
	StepRemoveHarmfulTags,
	StepRemoveEventAttributes,
	StepReplaceFieldNameTags,
	StepRemoveUnknownFieldIDTags,
	StepSanitizeTrackableLinks,
}

// ValidateStepNames checks that every name is a skippable step.
func ValidateStepNames(names []string) error {
	for _, name := range names {
		if !slices.Contains(SkippableSteps, name) {
			return fmt.Errorf("%w: %q (skippable: %v)", ErrUnknownStep, name, SkippableSteps)
		}
	}
	return nil
}

// StepOption configures the built-in steps.
type StepOption func(*stepConfig)

type stepConfig struct {
	logger *slog.Logger
}

// WithStepLogger sets the logger used by a step.
func WithStepLogger(logger *slog.Logger) StepOption {
	return func(c *stepConfig) {
		c.logger = logger
	}
}

func newStepConfig(opts []StepOption) stepConfig {
	c := stepConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// RemoveHarmfulTagsStep strips script, embed, iframe and meta refresh.
type RemoveHarmfulTagsStep struct {
	stepConfig
}

// NewRemoveHarmfulTagsStep creates the harmful tag removal step.
func NewRemoveHarmfulTagsStep(opts ...StepOption) *RemoveHarmfulTagsStep {
	return &RemoveHarmfulTagsStep{stepConfig: newStepConfig(opts)}
}

// Name returns the step name.
func (s *RemoveHarmfulTagsStep) Name() string {
	return StepRemoveHarmfulTags
}

// Do executes the step.
func (s *RemoveHarmfulTagsStep) Do(_ context.Context, job *Job) error {
	job.Document.RemoveHarmfulTags()
	return nil
}

// RemoveEventAttributesStep strips on* attributes.
type RemoveEventAttributesStep struct {
	stepConfig
}

// NewRemoveEventAttributesStep creates the event attribute removal step.
func NewRemoveEventAttributesStep(opts ...StepOption) *RemoveEventAttributesStep {
	return &RemoveEventAttributesStep{stepConfig: newStepConfig(opts)}
}

// Name returns the step name.
func (s *RemoveEventAttributesStep) Name() string {
	return StepRemoveEventAttributes
}

// Do executes the step.
func (s *RemoveEventAttributesStep) Do(_ context.Context, job *Job) error {
	job.Document.RemoveEventAttributes()
	return nil
}

// ReplaceFieldNameTagsStep turns [[[name]]] tags into |*|id*|* tags.
type ReplaceFieldNameTagsStep struct {
	stepConfig
}

// NewReplaceFieldNameTagsStep creates the name tag translation step.
func NewReplaceFieldNameTagsStep(opts ...StepOption) *ReplaceFieldNameTagsStep {
	return &ReplaceFieldNameTagsStep{stepConfig: newStepConfig(opts)}
}

// Name returns the step name.
func (s *ReplaceFieldNameTagsStep) Name() string {
	return StepReplaceFieldNameTags
}

// Do executes the step.
func (s *ReplaceFieldNameTagsStep) Do(_ context.Context, job *Job) error {
	if job.Fields == nil {
		return ErrNoFieldProcessor
	}

	unresolved := 0
	job.Document.ReplaceFieldNameTagsByFieldIDTags(func(name string) (int, bool) {
		id, ok := job.Fields.FieldID(name)
		if !ok {
			unresolved++
			s.logger.Debug("unresolved field name", "source", job.Record.Source, "name", name)
		}
		return id, ok
	})

	if unresolved > 0 {
		s.logger.Info("field name tags left unresolved",
			"source", job.Record.Source,
			"count", unresolved,
		)
	}
	return nil
}

// RemoveUnknownFieldIDTagsStep deletes |*|id*|* tags of unknown fields.
type RemoveUnknownFieldIDTagsStep struct {
	stepConfig
}

// NewRemoveUnknownFieldIDTagsStep creates the unknown id tag removal step.
func NewRemoveUnknownFieldIDTagsStep(opts ...StepOption) *RemoveUnknownFieldIDTagsStep {
	return &RemoveUnknownFieldIDTagsStep{stepConfig: newStepConfig(opts)}
}

// Name returns the step name.
func (s *RemoveUnknownFieldIDTagsStep) Name() string {
	return StepRemoveUnknownFieldIDTags
}

// Do executes the step.
func (s *RemoveUnknownFieldIDTagsStep) Do(_ context.Context, job *Job) error {
	if job.Fields == nil {
		return ErrNoFieldProcessor
	}

	job.Document.RemoveUnknownFieldIDTags(func(id int) bool {
		exists := job.Fields.FieldIDExists(id)
		if !exists {
			s.logger.Debug("removing unknown field id", "source", job.Record.Source, "id", id)
		}
		return exists
	})
	return nil
}

// SanitizeTrackableLinksStep normalizes the hrefs of trackable anchors.
type SanitizeTrackableLinksStep struct {
	stepConfig
}

// NewSanitizeTrackableLinksStep creates the link sanitation step.
func NewSanitizeTrackableLinksStep(opts ...StepOption) *SanitizeTrackableLinksStep {
	return &SanitizeTrackableLinksStep{stepConfig: newStepConfig(opts)}
}

// Name returns the step name.
func (s *SanitizeTrackableLinksStep) Name() string {
	return StepSanitizeTrackableLinks
}

// Do executes the step.
func (s *SanitizeTrackableLinksStep) Do(_ context.Context, job *Job) error {
	job.Document.SanitizeTrackableLinks()
	return nil
}

// CollectStep reads the processed document into the record.
type CollectStep struct {
	stepConfig
}

// NewCollectStep creates the collect step.
func NewCollectStep(opts ...StepOption) *CollectStep {
	return &CollectStep{stepConfig: newStepConfig(opts)}
}

// Name returns the step name.
func (s *CollectStep) Name() string {
	return StepCollect
}

// Do executes the step.
func (s *CollectStep) Do(_ context.Context, job *Job) error {
	doc := job.Document
	record := job.Record

	record.Layout = doc.Layout().String()
	record.Content = doc.Content()
	if head, ok := doc.HeadContent(); ok {
		record.Head = &head
	} else {
		record.Head = nil
	}
	record.FieldIDs = doc.FieldIDs()
	record.TrackableURLs = doc.TrackableURLs()

	record.FieldNames = make(map[int]string, len(record.FieldIDs))
	if job.Fields != nil {
		for _, id := range record.FieldIDs {
			if name, ok := job.Fields.FieldName(id); ok {
				record.FieldNames[id] = name
			}
		}
	}

	s.logger.Debug("collected content",
		"source", record.Source,
		"layout", record.Layout,
		"fields", len(record.FieldIDs),
		"links", len(record.TrackableURLs),
	)
	return nil
}

// EditorViewStep renders the collected content with id tags translated back
// into name tags, as the editor displays it. It runs after CollectStep.
type EditorViewStep struct {
	stepConfig
}

// NewEditorViewStep creates the editor view step.
func NewEditorViewStep(opts ...StepOption) *EditorViewStep {
	return &EditorViewStep{stepConfig: newStepConfig(opts)}
}

// Name returns the step name.
func (s *EditorViewStep) Name() string {
	return StepEditorView
}

// Do executes the step.
func (s *EditorViewStep) Do(_ context.Context, job *Job) error {
	if job.Fields == nil {
		return ErrNoFieldProcessor
	}

	if job.Record.Content == htmldoc.EmptyContent {
		job.Record.EditorContent = htmldoc.EmptyContent
		return nil
	}

	view := htmldoc.Load(job.Record.Content)
	view.ReplaceFieldIDTagsByFieldNameTags(job.Fields.FieldName)
	job.Record.EditorContent = view.Content()
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// SkipSteps are step names left out of the pipeline.
	SkipSteps []string

	// EditorView appends the editor view step after collect.
	EditorView bool
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithSkippedSteps leaves the named steps out. Unknown names are ignored;
// check them with ValidateStepNames first.
func WithSkippedSteps(names ...string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.SkipSteps = append(c.SkipSteps, names...)
	}
}

// WithEditorView enables the editor view step.
func WithEditorView(enabled bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.EditorView = enabled
	}
}

// DefaultPipeline creates a pipeline with the standard steps in the fixed
// processing order. The collect step is always present and runs after
// every mutating step.
//
// The first parameter accepts pipeline options (WithLogger, etc).
// The rest accept pipeline config options (WithSkippedSteps, etc).
func DefaultPipeline(pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{}
	for _, opt := range configOpts {
		opt(cfg)
	}

	stepOpts := []StepOption{WithStepLogger(p.logger)}
	candidates := []Step{
		NewRemoveHarmfulTagsStep(stepOpts...),
		NewRemoveEventAttributesStep(stepOpts...),
		NewReplaceFieldNameTagsStep(stepOpts...),
		NewRemoveUnknownFieldIDTagsStep(stepOpts...),
		NewSanitizeTrackableLinksStep(stepOpts...),
	}
	for _, step := range candidates {
		if slices.Contains(cfg.SkipSteps, step.Name()) {
			p.logger.Debug("skipping step", "step", step.Name())
			continue
		}
		p.AddStep(step)
	}

	p.AddStep(NewCollectStep(stepOpts...))
	if cfg.EditorView {
		p.AddStep(NewEditorViewStep(stepOpts...))
	}

	return p
}
