package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ariatts/aria-api/internal/domain"
)

// SettingsStore defines persistence operations for per-user speech
// settings, including the encrypted provider API key.
type SettingsStore interface {
	// Upsert creates or replaces the settings row for the user.
	Upsert(ctx context.Context, settings *domain.UserSettings) error

	// GetByUserID retrieves the user's settings. Returns
	// ErrSettingsNotFound when the user has never saved any.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error)

	// Delete removes the settings row, forgetting the stored API key.
	// Returns ErrSettingsNotFound when there is nothing to delete.
	Delete(ctx context.Context, userID uuid.UUID) error

	// WithTx returns a SettingsStore bound to the given transaction.
	WithTx(tx *sql.Tx) SettingsStore
}
