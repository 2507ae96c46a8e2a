package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Speech   SpeechConfig   `mapstructure:"speech"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// SpeechConfig contains settings for the speech-generation integration and
// for protecting user-supplied provider API keys at rest.
type SpeechConfig struct {
	// KeyEncryptionSecret is the server-side secret used to derive the
	// AES-256-GCM key that encrypts stored Gemini API keys. It must be
	// exactly 32 bytes.
	KeyEncryptionSecret string `mapstructure:"key_encryption_secret" validate:"required,len=32"`

	// DefaultModel is the speech model used when a user has not picked one.
	DefaultModel string `mapstructure:"default_model" validate:"required"`

	// DefaultVoice is the prebuilt voice used when a user has not picked one.
	DefaultVoice string `mapstructure:"default_voice" validate:"required"`
}
