package shortener

import (
	"context"
)

// Generator defines the interface for generating short codes
type Generator interface {
	// GenerateShortCode generates a candidate short code. Uniqueness is NOT
	// guaranteed by the generator; it is enforced by the store's unique
	// constraint plus the caller's retry loop.
	GenerateShortCode(ctx context.Context) (string, error)

	// Type returns the type identifier of the generator
	Type() string
}

// Config holds configuration for shortener generators
type Config struct {
	CodeLength int `json:"code_length"` // Length of generated codes
}

// GeneratorType constants
const (
	TypeRandom = "random"
)

// DefaultCodeLength is the code length used when none is configured.
const DefaultCodeLength = 6

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		CodeLength: DefaultCodeLength,
	}
}
