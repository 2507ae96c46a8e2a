package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidTransition is returned when a job status change does not
	// follow an allowed state machine edge.
	ErrInvalidTransition = errors.New("invalid status transition")
)
