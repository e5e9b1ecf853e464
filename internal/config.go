package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/matheusrod92/address-validator/internal/telemetry"
)

type Config struct {
	Env      string
	LogLevel string
	Port     uint16
	Google   GoogleConfig
	Smarty   SmartyConfig
	Sentry   telemetry.SentryConfig
}

// GoogleConfig holds credentials for the Google Address Validation API.
type GoogleConfig struct {
	APIKey string
	// BaseURL overrides the live endpoint, for sandboxing. Empty means live.
	BaseURL string
}

// SmartyConfig holds credentials for the Smarty US Street API.
type SmartyConfig struct {
	AuthID    string
	AuthToken string
	// BaseURL overrides the live endpoint, for sandboxing. Empty means live.
	BaseURL string
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvInt("PORT", 3000),
		Google: GoogleConfig{
			// The "your-" placeholder doubles as the not-configured sentinel
			// checked by the adapter.
			APIKey:  getEnv("GOOGLE_MAPS_API_KEY", "your-google-api-key"),
			BaseURL: getEnv("GOOGLE_ADDRESS_VALIDATION_URL", ""),
		},
		Smarty: SmartyConfig{
			AuthID:    getEnv("SMARTY_AUTH_ID", "your-smarty-auth-id"),
			AuthToken: getEnv("SMARTY_AUTH_TOKEN", "your-smarty-auth-token"),
			BaseURL:   getEnv("SMARTY_US_STREET_URL", ""),
		},
		Sentry: telemetry.SentryConfig{
			DSN:         getEnv("SENTRY_DSN", ""),
			Enabled:     getEnvBool("SENTRY_ENABLED", false), // Disabled by default for development
			Environment: getEnv("SENTRY_ENVIRONMENT", "development"),
			Release:     getEnv("SENTRY_RELEASE", ""),
			SampleRate:  getEnvFloat("SENTRY_SAMPLE_RATE", 1.0),
			Debug:       getEnvBool("SENTRY_DEBUG", false),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var floatValue float64
		if _, err := fmt.Sscanf(value, "%f", &floatValue); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
