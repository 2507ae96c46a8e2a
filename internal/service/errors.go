package service

import "errors"

// Common sentinel errors returned by the services. The API layer maps
// these to HTTP status codes.
var (
	// ErrInvalidCredentials indicates a failed login. The same error is
	// used for unknown emails and wrong passwords so responses do not
	// reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken indicates a registration attempt with an email that
	// already has an account.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrNoAPIKey indicates the user has not stored a provider API key
	// yet, so no generation can run for them.
	ErrNoAPIKey = errors.New("no API key configured")

	// ErrUnknownVoice indicates a voice ID outside the prebuilt voice
	// catalog.
	ErrUnknownVoice = errors.New("unknown voice")

	// ErrUnknownModel indicates a model ID outside the supported speech
	// models.
	ErrUnknownModel = errors.New("unknown model")
)
