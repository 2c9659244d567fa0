package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindHelpers(t *testing.T) {
	wrapped := fmt.Errorf("resolve %q: %w", "abc123", ErrGone)

	assert.True(t, IsGone(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))

	assert.True(t, IsNotFound(fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", ErrNotFound))))
	assert.False(t, IsConflict(nil))
}

func TestURLMapping_Expired(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.False(t, (&URLMapping{}).Expired(now))
	assert.False(t, (&URLMapping{ExpiresAt: &future}).Expired(now))
	assert.True(t, (&URLMapping{ExpiresAt: &past}).Expired(now))

	// Boundary: an expiry exactly at the access instant is not yet past
	assert.False(t, (&URLMapping{ExpiresAt: &now}).Expired(now))
}
