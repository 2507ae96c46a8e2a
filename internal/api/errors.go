package api

import (
	"errors"
	"net/http"

	"github.com/ariatts/aria-api/internal/audio"
	"github.com/ariatts/aria-api/internal/domain"
	"github.com/ariatts/aria-api/internal/service"
	"github.com/ariatts/aria-api/internal/service/auth"
	"github.com/ariatts/aria-api/internal/store"
	"github.com/ariatts/aria-api/internal/task"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes
// without leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, task.ErrJobNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, store.ErrEmailExists),
		errors.Is(err, task.ErrJobInFlight),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict

	// Capacity errors
	case errors.Is(err, task.ErrQueueFull):
		return http.StatusTooManyRequests

	// Gone: the clip backing this audio has been released
	case errors.Is(err, audio.ErrClipReleased):
		return http.StatusGone

	// Shutdown
	case errors.Is(err, task.ErrQueueClosed):
		return http.StatusServiceUnavailable

	// Bad request errors
	case errors.Is(err, service.ErrNoAPIKey),
		errors.Is(err, service.ErrUnknownVoice),
		errors.Is(err, service.ErrUnknownModel),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrPasswordTooLong),
		errors.Is(err, domain.ErrEmptyPassword),
		errors.Is(err, domain.ErrEmptyJobText),
		errors.Is(err, domain.ErrEmptyJobVoice),
		errors.Is(err, domain.ErrEmptyJobModel):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly message for
// the error. Internal details stay in the logs.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid email or password"

	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, task.ErrJobNotFound):
		return "Job not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrSettingsNotFound):
		return "Settings not found"

	case errors.Is(err, task.ErrJobInFlight):
		return "Job is already generating"

	case errors.Is(err, task.ErrQueueFull):
		return "Too many queued jobs"

	case errors.Is(err, task.ErrQueueClosed):
		return "Service is shutting down"

	case errors.Is(err, audio.ErrClipReleased):
		return "Audio is no longer available"

	case errors.Is(err, service.ErrNoAPIKey):
		return "No API key configured"

	case errors.Is(err, service.ErrUnknownVoice):
		return "Unknown voice"

	case errors.Is(err, service.ErrUnknownModel):
		return "Unknown model"

	case errors.Is(err, domain.ErrInvalidEmail):
		return "Invalid email address"

	case errors.Is(err, domain.ErrPasswordTooShort):
		return "Password must be at least 12 characters"

	case errors.Is(err, domain.ErrPasswordTooLong):
		return "Password must be at most 72 characters"

	case errors.Is(err, domain.ErrEmptyJobText):
		return "Text cannot be empty"

	case errors.Is(err, domain.ErrInvalidTransition):
		return "Job is not in a state that allows this operation"

	default:
		return "An unexpected error occurred"
	}
}
