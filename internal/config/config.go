// Package config loads and validates application configuration.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Study    StudyConfig    `mapstructure:"study"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int    `mapstructure:"port"              validate:"required,gt=0,lt=65536"`
	LogLevel        string `mapstructure:"log_level"         validate:"required,oneof=debug info warn error"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"  validate:"gte=0"` // Seconds
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains the settings for verifying access tokens issued by the
// external authentication service.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// StudyConfig contains tunables for the review scheduling engine.
type StudyConfig struct {
	// DueCardLimit is the default page size for the review queue when the
	// client does not supply one.
	DueCardLimit int `mapstructure:"due_card_limit" validate:"gte=1,lte=100"`
}
