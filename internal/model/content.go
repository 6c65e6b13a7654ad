package model

import (
	"encoding/hex"
	"time"

	"golang.org/x/crypto/sha3"
)

// ContentRecord is the outcome of running one HTML body through the
// processing pipeline. It carries everything a storage collaborator needs:
// the sanitized content, the head, the used field ids and the trackable URLs.
type ContentRecord struct {
	// ID is assigned by the local archive. Zero until the record is saved.
	ID int64 `json:"id,omitempty"`

	// Source identifies where the HTML came from (file path or "stdin").
	Source string `json:"source"`

	// Fingerprint is the SHA3-256 of the raw input, hex encoded.
	Fingerprint string `json:"fingerprint"`

	// Layout describes how the input was split into head and content.
	Layout string `json:"layout"`

	// Content is the sanitized content region. Never empty: a blank
	// content region is stored as "<BR>".
	Content string `json:"content"`

	// Head is the inner HTML of <head>, or nil when the input had none.
	Head *string `json:"head"`

	// FieldIDs are the distinct field ids referenced by the content,
	// in order of first appearance.
	FieldIDs []int `json:"field_ids"`

	// FieldNames maps each referenced field id to its canonical name.
	FieldNames map[int]string `json:"field_names,omitempty"`

	// TrackableURLs are the distinct hrefs eligible for click tracking,
	// in order of first appearance.
	TrackableURLs []string `json:"trackable_urls"`

	// EditorContent is the content with id tags translated back to name
	// tags. Only filled when the editor view step runs.
	EditorContent string `json:"editor_content,omitempty"`

	// ProcessedAt is when the record was created.
	ProcessedAt time.Time `json:"processed_at"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps"`

	// Cancelled is set when the pipeline stopped because its context ended.
	Cancelled bool `json:"cancelled,omitempty"`

	// Error holds the last step error, if any.
	Error error `json:"-"`

	// ErrorMessage is Error rendered for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewContentRecord creates an empty record for the given source and raw input.
func NewContentRecord(source, input string) *ContentRecord {
	return &ContentRecord{
		Source:         source,
		Fingerprint:    Fingerprint(input),
		FieldIDs:       make([]int, 0),
		FieldNames:     make(map[int]string),
		TrackableURLs:  make([]string, 0),
		ProcessedAt:    time.Now(),
		PerformedSteps: make([]string, 0),
	}
}

// Fingerprint returns the hex encoded SHA3-256 digest of input.
func Fingerprint(input string) string {
	sum := sha3.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// HasHead reports whether the processed input had a <head>.
func (r *ContentRecord) HasHead() bool {
	return r.Head != nil
}

// HeadOrEmpty returns the head content, or an empty string when absent.
func (r *ContentRecord) HeadOrEmpty() string {
	if r.Head == nil {
		return ""
	}
	return *r.Head
}

// Failed reports whether any pipeline step failed or the run was cancelled.
func (r *ContentRecord) Failed() bool {
	return r.Error != nil || r.ErrorMessage != "" || r.Cancelled
}

// SetError records err on the record.
func (r *ContentRecord) SetError(err error) {
	r.Error = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}
