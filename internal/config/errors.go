package config

import "errors"

// Configuration validation errors returned by Config.Validate and the
// catalog loader. Callers match them with errors.Is.
var (
	// ErrNoInput is returned when no input file was given.
	ErrNoInput = errors.New("no input specified: provide one or more HTML files or - for stdin")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when more than one of
	// --json, --markdown and --content-only is set.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json, --markdown and --content-only cannot be combined")

	// ErrInvalidMaxInputSize is returned when the input size limit is negative.
	ErrInvalidMaxInputSize = errors.New("invalid max input size: must be non-negative")

	// ErrConfigNotFound is returned when the catalog file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidField is returned when the catalog declares a field without
	// a positive id or without a name.
	ErrInvalidField = errors.New("invalid field: id must be positive and name must not be empty")

	// ErrInvalidAliases is returned when an alias entry has no canonical name.
	ErrInvalidAliases = errors.New("invalid aliases: canonical name must not be empty")
)
