// Package config provides environment-driven configuration for the
// service. Values come from the process environment; cmd loads a .env
// file first when one exists.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/drewhammond/folio-api/internal/ai"
)

// Config holds the runtime configuration for the API server and CLI.
type Config struct {
	// Port the HTTP server listens on.
	Port int
	// DatabaseURL is the PostgreSQL connection string. Empty selects the
	// in-memory store (CLI and tests).
	DatabaseURL string
	// FilesDir is where rendered documents are written.
	FilesDir string
	// DefaultProvider overrides the built-in default backend when set.
	DefaultProvider ai.ProviderType
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        8080,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		FilesDir:    "generated",
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	if dir := os.Getenv("FILES_DIR"); dir != "" {
		cfg.FilesDir = dir
	}

	if provider := os.Getenv("DEFAULT_PROVIDER"); provider != "" {
		cfg.DefaultProvider = ai.ProviderType(provider)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.FilesDir == "" {
		return fmt.Errorf("config error: FILES_DIR cannot be empty")
	}
	if c.DefaultProvider != "" {
		switch c.DefaultProvider {
		case ai.ProviderOpenAI, ai.ProviderGemini:
		default:
			return fmt.Errorf("config error: unknown DEFAULT_PROVIDER %q", c.DefaultProvider)
		}
	}
	return nil
}

// Provider returns the configured default provider, falling back to the
// lower-cost backend.
func (c *Config) Provider() ai.ProviderType {
	if c.DefaultProvider != "" {
		return c.DefaultProvider
	}
	return ai.DefaultProviderType()
}
