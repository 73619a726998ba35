package session

import "errors"

var (
	// ErrContainerNotFound is returned when the meeting container cannot
	// be located anywhere in the host document after the retry schedule.
	ErrContainerNotFound = errors.New("meeting container not found in host document")

	// ErrDeadlineExceeded is returned when an SDK operation outlives its
	// hard upper bound.
	ErrDeadlineExceeded = errors.New("operation deadline exceeded")
)
