package config

import (
	"fmt"
	"os"
)

// Config holds everything the server reads from the environment.
// godotenv is loaded by cmd/server before this runs.
type Config struct {
	DatabaseURL string
	Port        string
	JWTSecret   string

	// Environment name: "development" or "production" (default).
	Env string

	// DevBypassToken is a literal token that resolves to an admin
	// identity. It is honored only when Env is "development" AND the
	// variable is explicitly set. Never enable in production.
	DevBypassToken string

	// Firebase Cloud Messaging credentials. Either may be empty, in
	// which case push notifications are disabled.
	FCMCredentialsFile   string
	FCMCredentialsBase64 string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		Port:                 os.Getenv("PORT"),
		JWTSecret:            os.Getenv("APP_JWT_SECRET"),
		Env:                  os.Getenv("APP_ENV"),
		FCMCredentialsFile:   os.Getenv("FIREBASE_CREDENTIALS_FILE"),
		FCMCredentialsBase64: os.Getenv("FIREBASE_CREDENTIALS_BASE64"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("APP_JWT_SECRET environment variable is required")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "production"
	}

	// The bypass token is only read in development. Ignoring it here
	// (rather than in the token service) guarantees a production
	// process never carries the literal around at all.
	if cfg.Env == "development" {
		cfg.DevBypassToken = os.Getenv("DEV_BYPASS_TOKEN")
	}

	return cfg, nil
}

// BypassEnabled reports whether the development admin bypass is active.
func (c *Config) BypassEnabled() bool {
	return c.Env == "development" && c.DevBypassToken != ""
}
