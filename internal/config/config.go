package config

import (
	"fmt"
	"net/url"

	"github.com/ameyer/url-shortener/internal/shortener"
)

// MaxCodeLength is the storage limit for short codes and aliases.
const MaxCodeLength = 20

// Config holds the application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Service   ServiceConfig
	Logging   LoggingConfig
	Shortener shortener.Config
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port    string
	BaseURL string // public prefix for created short URLs
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string
}

// ServiceConfig holds mapping-service configuration
type ServiceConfig struct {
	MaxCreateAttempts int
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Verbose bool
}

// New creates a new config with the given parameters
func New(port, baseURL, dbPath string, codeLength, maxCreateAttempts int, verbose bool) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:    port,
			BaseURL: baseURL,
		},
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Service: ServiceConfig{
			MaxCreateAttempts: maxCreateAttempts,
		},
		Logging: LoggingConfig{
			Verbose: verbose,
		},
		Shortener: shortener.Config{
			CodeLength: codeLength,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate validates the configuration values
func (c *Config) validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	if c.Server.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	if _, err := url.ParseRequestURI(c.Server.BaseURL); err != nil {
		return fmt.Errorf("base URL is not a valid URL: %w", err)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	if c.Shortener.CodeLength < 1 || c.Shortener.CodeLength > MaxCodeLength {
		return fmt.Errorf("code length must be between 1 and %d, got: %d", MaxCodeLength, c.Shortener.CodeLength)
	}

	if c.Service.MaxCreateAttempts < 1 {
		return fmt.Errorf("max create attempts must be positive, got: %d", c.Service.MaxCreateAttempts)
	}

	return nil
}
