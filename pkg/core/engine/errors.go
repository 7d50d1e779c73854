package engine

import "errors"

var (
	// ErrInvalidConfig is returned before any state is built when the
	// constraint configuration or shift catalog is malformed
	ErrInvalidConfig = errors.New("invalid scheduling configuration")

	// ErrInvalidInput is returned when the staff snapshot or month cannot be used
	ErrInvalidInput = errors.New("invalid scheduling input")

	// ErrInvariantViolated means a committed assignment breaks a hard constraint.
	// The evaluator must prevent this, so it always indicates a bug.
	ErrInvariantViolated = errors.New("schedule invariant violated")
)
