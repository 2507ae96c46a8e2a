package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for UserSettings
var (
	ErrEmptySettingsUserID = errors.New("settings user ID cannot be empty")
)

// UserSettings holds a user's speech-generation preferences and their
// provider credential. The API key is kept AES-GCM encrypted at rest;
// this entity only ever carries the ciphertext. Decryption happens in
// the settings service immediately before a generation call.
type UserSettings struct {
	UserID          uuid.UUID `json:"user_id"`
	EncryptedAPIKey []byte    `json:"-"` // Ciphertext, never exposed
	DefaultVoiceID  string    `json:"default_voice_id"`
	DefaultModelID  string    `json:"default_model_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewUserSettings creates settings for the given user with the provided
// encrypted API key and preference selections.
func NewUserSettings(userID uuid.UUID, encryptedAPIKey []byte, voiceID, modelID string) (*UserSettings, error) {
	now := time.Now().UTC()
	settings := &UserSettings{
		UserID:          userID,
		EncryptedAPIKey: encryptedAPIKey,
		DefaultVoiceID:  voiceID,
		DefaultModelID:  modelID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Validate checks if the UserSettings has valid data.
func (s *UserSettings) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptySettingsUserID
	}
	return nil
}

// HasAPIKey reports whether a provider API key has been stored.
func (s *UserSettings) HasAPIKey() bool {
	return len(s.EncryptedAPIKey) > 0
}
