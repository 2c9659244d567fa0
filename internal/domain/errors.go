package domain

import "errors"

// The closed set of error kinds surfaced by the service. Store and service
// code wraps these with context via fmt.Errorf("...: %w", ...), so callers
// classify with errors.Is (or the helpers below) rather than string matching.
var (
	// ErrNotFound indicates the short code or alias does not exist.
	ErrNotFound = errors.New("short code not found")

	// ErrGone indicates the mapping exists but its expiration has passed.
	ErrGone = errors.New("short code expired")

	// ErrConflict indicates a unique constraint violation on a short code
	// or alias.
	ErrConflict = errors.New("short code already exists")

	// ErrInternal indicates an unexpected store failure.
	ErrInternal = errors.New("internal error")
)

// IsNotFound reports whether err is a not-found condition.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsGone reports whether err indicates an expired mapping.
func IsGone(err error) bool { return errors.Is(err, ErrGone) }

// IsConflict reports whether err indicates a uniqueness conflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
