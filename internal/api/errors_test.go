package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ariatts/aria-api/internal/audio"
	"github.com/ariatts/aria-api/internal/domain"
	"github.com/ariatts/aria-api/internal/service"
	"github.com/ariatts/aria-api/internal/service/auth"
	"github.com/ariatts/aria-api/internal/store"
	"github.com/ariatts/aria-api/internal/task"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{auth.ErrExpiredRefreshToken, http.StatusUnauthorized},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{task.ErrJobNotFound, http.StatusNotFound},
		{store.ErrUserNotFound, http.StatusNotFound},
		{store.ErrSettingsNotFound, http.StatusNotFound},
		{service.ErrEmailTaken, http.StatusConflict},
		{task.ErrJobInFlight, http.StatusConflict},
		{domain.ErrInvalidTransition, http.StatusConflict},
		{task.ErrQueueFull, http.StatusTooManyRequests},
		{audio.ErrClipReleased, http.StatusGone},
		{task.ErrQueueClosed, http.StatusServiceUnavailable},
		{service.ErrNoAPIKey, http.StatusBadRequest},
		{service.ErrUnknownVoice, http.StatusBadRequest},
		{domain.ErrEmptyJobText, http.StatusBadRequest},
		{errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
			// Wrapped errors map the same way.
			assert.Equal(t, tt.want, MapErrorToStatusCode(fmt.Errorf("context: %w", tt.err)))
		})
	}
}

func TestGetSafeErrorMessageNeverLeaksDetails(t *testing.T) {
	internal := fmt.Errorf("pq: connection refused host=10.0.0.5 user=admin")
	msg := GetSafeErrorMessage(internal)
	assert.Equal(t, "An unexpected error occurred", msg)

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "Job not found", GetSafeErrorMessage(task.ErrJobNotFound))
	assert.Equal(t, "No API key configured", GetSafeErrorMessage(service.ErrNoAPIKey))
	assert.Equal(t, "Invalid email or password", GetSafeErrorMessage(service.ErrInvalidCredentials))
}
