package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional config
// file. Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
//
// Environment variables use the MNEMO_ prefix with underscores separating
// nested keys, e.g. MNEMO_SERVER_PORT, MNEMO_DATABASE_URL,
// MNEMO_AUTH_JWT_SECRET.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults for everything that has a sensible one. Database URL and the
	// JWT secret deliberately have none.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", 15)
	v.SetDefault("study.due_card_limit", 10)
	v.SetDefault("auth.token_lifetime_minutes", 60)

	// Keys without real defaults still need to be registered so viper will
	// pick them up from the environment during Unmarshal; validation rejects
	// the empty values below.
	v.SetDefault("database.url", "")
	v.SetDefault("auth.jwt_secret", "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MNEMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; environment variables and defaults
		// carry the configuration. Any other read error is fatal.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration against its struct-level validation
// rules and returns a descriptive error for the first failure.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			first := validationErrors[0]
			return fmt.Errorf(
				"invalid configuration: field %q failed on the %q rule",
				first.Namespace(),
				first.Tag(),
			)
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
