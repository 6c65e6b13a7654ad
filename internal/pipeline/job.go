package pipeline

import (
	"github.com/fromdoppler/htmleditor/internal/fields"
	"github.com/fromdoppler/htmleditor/internal/htmldoc"
	"github.com/fromdoppler/htmleditor/internal/model"
)

// Input is one HTML body to process.
type Input struct {
	// Source names where the HTML came from (file path or "stdin").
	Source string

	// HTML is the raw markup.
	HTML string
}

// Job carries one input through the pipeline.
type Job struct {
	// Document is the parsed input. Steps mutate it in place.
	Document *htmldoc.Document

	// Fields resolves merge field names and ids. Shared read-only between jobs.
	Fields *fields.Processor

	// Record collects the results.
	Record *model.ContentRecord
}

// NewJob loads the input and prepares an empty record for it.
func NewJob(input Input, processor *fields.Processor) *Job {
	return &Job{
		Document: htmldoc.Load(input.HTML),
		Fields:   processor,
		Record:   model.NewContentRecord(input.Source, input.HTML),
	}
}
