package task

import "errors"

// Common errors returned by the job queue.
var (
	// ErrJobNotFound is returned when the job does not exist in the
	// queue or does not belong to the requesting user.
	ErrJobNotFound = errors.New("job not found")

	// ErrJobInFlight is returned when a manual trigger loses the race
	// against another trigger already generating the same job.
	ErrJobInFlight = errors.New("job is already generating")

	// ErrQueueFull is returned when a user's queue has reached its
	// configured capacity.
	ErrQueueFull = errors.New("job queue is full")

	// ErrQueueClosed is returned for operations on a closed queue.
	ErrQueueClosed = errors.New("job queue is closed")
)
