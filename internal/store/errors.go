package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is the base sentinel for lookups that match no record.
// Entity-specific sentinels wrap it so callers can match either the
// specific or the general case with errors.Is.
var ErrNotFound = errors.New("record not found")

// Entity-specific store errors.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("user: %w", ErrNotFound)

	// ErrEmailExists indicates a user with the same email already
	// exists.
	ErrEmailExists = errors.New("email already exists")

	// ErrSettingsNotFound indicates the user has no settings row yet.
	ErrSettingsNotFound = fmt.Errorf("user settings: %w", ErrNotFound)
)
