package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ariatts/aria-api/internal/domain"
	"github.com/ariatts/aria-api/internal/platform/logger"
	"github.com/ariatts/aria-api/internal/store"
)

// SettingsStore implements the store.SettingsStore interface using a
// PostgreSQL database as the storage backend. The API key column only
// ever holds ciphertext; encryption and decryption happen in the
// settings service.
type SettingsStore struct {
	db store.DBTX
}

// NewSettingsStore creates a new PostgreSQL implementation of the
// SettingsStore interface.
func NewSettingsStore(db store.DBTX) *SettingsStore {
	return &SettingsStore{db: db}
}

// Ensure SettingsStore implements store.SettingsStore
var _ store.SettingsStore = (*SettingsStore)(nil)

// WithTx returns a SettingsStore bound to the given transaction.
func (s *SettingsStore) WithTx(tx *sql.Tx) store.SettingsStore {
	return &SettingsStore{db: tx}
}

// Upsert implements store.SettingsStore.Upsert
func (s *SettingsStore) Upsert(ctx context.Context, settings *domain.UserSettings) error {
	log := logger.FromContext(ctx)

	if err := settings.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO user_settings (user_id, encrypted_api_key, default_voice_id, default_model_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET encrypted_api_key = EXCLUDED.encrypted_api_key,
		    default_voice_id = EXCLUDED.default_voice_id,
		    default_model_id = EXCLUDED.default_model_id,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		settings.UserID,
		settings.EncryptedAPIKey,
		settings.DefaultVoiceID,
		settings.DefaultModelID,
		settings.CreatedAt,
		settings.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert user settings",
			"user_id", settings.UserID,
			"error", err)
		return fmt.Errorf("failed to save user settings: %w", err)
	}

	return nil
}

// GetByUserID implements store.SettingsStore.GetByUserID
func (s *SettingsStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	query := `
		SELECT user_id, encrypted_api_key, default_voice_id, default_model_id, created_at, updated_at
		FROM user_settings
		WHERE user_id = $1
	`

	var settings domain.UserSettings
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&settings.UserID,
		&settings.EncryptedAPIKey,
		&settings.DefaultVoiceID,
		&settings.DefaultModelID,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSettingsNotFound
		}
		logger.FromContext(ctx).Error("failed to get user settings",
			"user_id", userID,
			"error", err)
		return nil, fmt.Errorf("failed to get user settings: %w", err)
	}

	return &settings, nil
}

// Delete implements store.SettingsStore.Delete
func (s *SettingsStore) Delete(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContext(ctx)

	query := `DELETE FROM user_settings WHERE user_id = $1`

	result, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to delete user settings",
			"user_id", userID,
			"error", err)
		return fmt.Errorf("failed to delete user settings: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrSettingsNotFound
	}

	return nil
}
