package pipeline

import "errors"

var (
	// ErrUnknownStep is returned for step names that do not exist or
	// cannot be skipped.
	ErrUnknownStep = errors.New("unknown or mandatory pipeline step")

	// ErrNoFieldProcessor is returned by steps that resolve merge fields
	// when the job has no field processor.
	ErrNoFieldProcessor = errors.New("job has no field processor")
)
