package shortener

import (
	"context"
	"crypto/rand"
	"fmt"
)

// URL-safe alphabet: 0-9, a-z, A-Z (case sensitive)
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RandomGenerator generates short codes by drawing uniformly from a URL-safe
// alphabet. It is stateless; collisions are possible but rare (62^6 ≈ 5.7e10
// codes at the default length).
type RandomGenerator struct {
	length int
}

// NewRandomGenerator creates a random generator producing codes of the given
// length. Non-positive lengths fall back to the default.
func NewRandomGenerator(length int) *RandomGenerator {
	if length <= 0 {
		length = DefaultCodeLength
	}
	return &RandomGenerator{length: length}
}

// NewGenerator creates a generator from config.
func NewGenerator(config Config) (Generator, error) {
	if config.CodeLength < 0 {
		return nil, fmt.Errorf("code length cannot be negative: %d", config.CodeLength)
	}
	return NewRandomGenerator(config.CodeLength), nil
}

// GenerateShortCode generates a random short code
func (g *RandomGenerator) GenerateShortCode(ctx context.Context) (string, error) {
	buf := make([]byte, g.length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	code := make([]byte, g.length)
	for i, b := range buf {
		// 256 % 62 leaves a small modulo bias; acceptable here since codes
		// need to be unguessable-ish, not cryptographic.
		code[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(code), nil
}

// Type returns the generator type
func (g *RandomGenerator) Type() string {
	return TypeRandom
}

// Ensure RandomGenerator implements the interface
var _ Generator = (*RandomGenerator)(nil)
