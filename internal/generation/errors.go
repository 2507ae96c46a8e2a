package generation

import (
	"errors"
	"strings"
)

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when speech generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate speech from text")

	// ErrMissingAPIKey is returned when no provider credential is available for the call
	ErrMissingAPIKey = errors.New("no provider API key configured")

	// ErrEmptyText is returned when the request carries no text to synthesize
	ErrEmptyText = errors.New("text to synthesize cannot be empty")

	// ErrInvalidResponse is returned when the provider response carries no usable audio
	ErrInvalidResponse = errors.New("invalid response from speech provider")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// FailureKind labels a generation failure for display. Classification
// never changes behavior: no kind is retried, and every kind leaves the
// job in the error state with the provider's message attached.
type FailureKind string

const (
	FailureKindQuota     FailureKind = "quota"
	FailureKindAuth      FailureKind = "auth"
	FailureKindModel     FailureKind = "model"
	FailureKindTransient FailureKind = "transient"
	FailureKindUnknown   FailureKind = "unknown"
)

// ClassifyFailure inspects a provider error message and labels it with
// a display kind. Matching is on message content because the provider
// folds its status into the error text.
func ClassifyFailure(message string) FailureKind {
	msg := strings.ToUpper(message)

	switch {
	case strings.Contains(msg, "RESOURCE_EXHAUSTED"),
		strings.Contains(msg, "QUOTA"),
		strings.Contains(msg, "RATE LIMIT"),
		strings.Contains(msg, "429"):
		return FailureKindQuota

	case strings.Contains(msg, "API KEY"),
		strings.Contains(msg, "UNAUTHENTICATED"),
		strings.Contains(msg, "PERMISSION_DENIED"),
		strings.Contains(msg, "401"),
		strings.Contains(msg, "403"):
		return FailureKindAuth

	case strings.Contains(msg, "NOT_FOUND"),
		strings.Contains(msg, "MODEL"),
		strings.Contains(msg, "UNSUPPORTED"):
		return FailureKindModel

	case strings.Contains(msg, "UNAVAILABLE"),
		strings.Contains(msg, "INTERNAL"),
		strings.Contains(msg, "DEADLINE_EXCEEDED"),
		strings.Contains(msg, "500"),
		strings.Contains(msg, "503"):
		return FailureKindTransient

	default:
		return FailureKindUnknown
	}
}
