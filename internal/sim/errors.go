package sim

import "errors"

// Boundary errors returned by the setters. The session is left unchanged.
var (
	// ErrNonPositive indicates a radius, revolution count or viewport
	// dimension that is zero, negative or not a number.
	ErrNonPositive = errors.New("sim: value must be positive")

	// ErrInvalidSpeed indicates a speed multiplier outside 0.5, 1 and 2.
	ErrInvalidSpeed = errors.New("sim: speed multiplier must be 0.5, 1 or 2")
)

// Driver errors returned by RunFixed.
var (
	// ErrCanceled indicates the run was interrupted by its context.
	ErrCanceled = errors.New("sim: run canceled by context")

	// ErrFrameLimit indicates the run did not finish within its frame budget.
	ErrFrameLimit = errors.New("sim: frame limit reached before completion")
)
