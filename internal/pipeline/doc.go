// Package pipeline runs HTML bodies through the editor's processing steps.
//
// Each input becomes a Job holding the loaded document, the account's field
// processor and the record being filled. A Pipeline executes Steps on the
// job in order, checking for cancellation between steps. DefaultPipeline
// wires the standard order:
//
//	remove_harmful_tags
//	remove_event_attributes
//	replace_field_name_tags
//	remove_unknown_field_id_tags
//	sanitize_trackable_links
//	collect
//
// BatchProcessor processes many inputs concurrently with errgroup.
package pipeline
