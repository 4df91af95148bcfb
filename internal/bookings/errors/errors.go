package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrLockHeld is returned when another request currently holds the
	// advisory lock for the same room and date.
	ErrLockHeld = errors.New("booking lock already held")
)
