package core

import "errors"

var (
	// ErrAllocation is returned when a tape of the requested size cannot be
	// created.
	ErrAllocation = errors.New("cannot allocate tape")

	// ErrIO wraps failures of the machine's input or output stream.
	ErrIO = errors.New("i/o error")

	// ErrStepLimit is returned when a run exceeds its step budget.
	ErrStepLimit = errors.New("step limit exceeded")
)
