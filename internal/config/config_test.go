package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_New(t *testing.T) {
	cfg, err := New("8080", "http://localhost:8080", "urls.db", 6, 5, false)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
	assert.Equal(t, "urls.db", cfg.Database.Path)
	assert.Equal(t, 6, cfg.Shortener.CodeLength)
	assert.Equal(t, 5, cfg.Service.MaxCreateAttempts)
	assert.False(t, cfg.Logging.Verbose)
}

func TestConfig_Validation(t *testing.T) {
	tests := []struct {
		name        string
		port        string
		baseURL     string
		dbPath      string
		codeLength  int
		maxAttempts int
		errContains string
	}{
		{
			name:        "empty port",
			baseURL:     "http://localhost:8080",
			dbPath:      "urls.db",
			codeLength:  6,
			maxAttempts: 5,
			errContains: "server port cannot be empty",
		},
		{
			name:        "empty base URL",
			port:        "8080",
			dbPath:      "urls.db",
			codeLength:  6,
			maxAttempts: 5,
			errContains: "base URL cannot be empty",
		},
		{
			name:        "malformed base URL",
			port:        "8080",
			baseURL:     "not a url",
			dbPath:      "urls.db",
			codeLength:  6,
			maxAttempts: 5,
			errContains: "base URL is not a valid URL",
		},
		{
			name:        "empty database path",
			port:        "8080",
			baseURL:     "http://localhost:8080",
			codeLength:  6,
			maxAttempts: 5,
			errContains: "database path cannot be empty",
		},
		{
			name:        "zero code length",
			port:        "8080",
			baseURL:     "http://localhost:8080",
			dbPath:      "urls.db",
			codeLength:  0,
			maxAttempts: 5,
			errContains: "code length must be between",
		},
		{
			name:        "code length over storage limit",
			port:        "8080",
			baseURL:     "http://localhost:8080",
			dbPath:      "urls.db",
			codeLength:  21,
			maxAttempts: 5,
			errContains: "code length must be between",
		},
		{
			name:        "zero max create attempts",
			port:        "8080",
			baseURL:     "http://localhost:8080",
			dbPath:      "urls.db",
			codeLength:  6,
			maxAttempts: 0,
			errContains: "max create attempts must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := New(tt.port, tt.baseURL, tt.dbPath, tt.codeLength, tt.maxAttempts, false)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}
