package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ariatts/aria-api/internal/config"
	"github.com/ariatts/aria-api/internal/domain"
	"github.com/ariatts/aria-api/internal/store"
	"github.com/ariatts/aria-api/internal/task"
)

// SettingsService manages per-user speech settings. The provider API
// key is encrypted before it reaches the store and decrypted only when
// a generation attempt needs it; it also serves as the queue's
// credential source.
type SettingsService struct {
	settings store.SettingsStore
	cipher   *KeyCipher
	defaults config.SpeechConfig
	logger   *slog.Logger
}

// The queue pulls credentials through this service.
var _ task.CredentialSource = (*SettingsService)(nil)

// NewSettingsService creates a SettingsService.
func NewSettingsService(
	settings store.SettingsStore,
	cipher *KeyCipher,
	defaults config.SpeechConfig,
	logger *slog.Logger,
) (*SettingsService, error) {
	if settings == nil {
		return nil, errors.New("settings store cannot be nil")
	}
	if cipher == nil {
		return nil, errors.New("key cipher cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &SettingsService{
		settings: settings,
		cipher:   cipher,
		defaults: defaults,
		logger:   logger,
	}, nil
}

// Save stores the user's preferences and, when apiKey is non-empty,
// replaces the stored API key with its freshly encrypted form. An empty
// apiKey keeps whatever key is already stored so preference updates do
// not require re-entering the credential.
func (s *SettingsService) Save(
	ctx context.Context,
	userID uuid.UUID,
	apiKey, voiceID, modelID string,
) (*domain.UserSettings, error) {
	if voiceID == "" {
		voiceID = s.defaults.DefaultVoice
	} else if !domain.IsKnownVoice(voiceID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVoice, voiceID)
	}

	if modelID == "" {
		modelID = s.defaults.DefaultModel
	} else if !domain.IsKnownModel(modelID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, modelID)
	}

	var encrypted []byte
	if apiKey != "" {
		var err error
		encrypted, err = s.cipher.Encrypt(apiKey)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to encrypt API key",
				"user_id", userID,
				"error", err)
			return nil, fmt.Errorf("failed to encrypt API key: %w", err)
		}
	} else {
		existing, err := s.settings.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, store.ErrSettingsNotFound) {
			return nil, fmt.Errorf("failed to load existing settings: %w", err)
		}
		if existing != nil {
			encrypted = existing.EncryptedAPIKey
		}
	}

	settings, err := domain.NewUserSettings(userID, encrypted, voiceID, modelID)
	if err != nil {
		return nil, err
	}

	if err := s.settings.Upsert(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.InfoContext(ctx, "settings saved",
		"user_id", userID,
		"has_api_key", settings.HasAPIKey())
	return settings, nil
}

// Get returns the user's settings. A user who has never saved any gets
// the server defaults with no API key, not an error.
func (s *SettingsService) Get(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	settings, err := s.settings.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrSettingsNotFound) {
			return &domain.UserSettings{
				UserID:         userID,
				DefaultVoiceID: s.defaults.DefaultVoice,
				DefaultModelID: s.defaults.DefaultModel,
			}, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

// Delete forgets the user's settings, including the stored API key.
func (s *SettingsService) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.settings.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "settings deleted", "user_id", userID)
	return nil
}

// APIKey implements task.CredentialSource: it loads and decrypts the
// user's stored provider key. Returns ErrNoAPIKey when none is stored.
func (s *SettingsService) APIKey(ctx context.Context, userID uuid.UUID) (string, error) {
	settings, err := s.settings.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrSettingsNotFound) {
			return "", ErrNoAPIKey
		}
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.HasAPIKey() {
		return "", ErrNoAPIKey
	}

	return s.cipher.Decrypt(settings.EncryptedAPIKey)
}

// JobDefaults resolves the voice and model for a new job: explicit
// request values win, then the user's saved preferences, then the
// server defaults.
func (s *SettingsService) JobDefaults(ctx context.Context, userID uuid.UUID, voiceID, modelID string) (string, string, error) {
	if voiceID != "" && modelID != "" {
		return voiceID, modelID, nil
	}

	settings, err := s.Get(ctx, userID)
	if err != nil {
		return "", "", err
	}

	if voiceID == "" {
		voiceID = settings.DefaultVoiceID
		if voiceID == "" {
			voiceID = s.defaults.DefaultVoice
		}
	}
	if modelID == "" {
		modelID = settings.DefaultModelID
		if modelID == "" {
			modelID = s.defaults.DefaultModel
		}
	}
	return voiceID, modelID, nil
}
