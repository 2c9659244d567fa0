package repository

import (
	"context"
	"time"

	"github.com/ameyer/url-shortener/internal/domain"
)

// URLRepository defines the interface for URL mapping persistence.
//
// All methods return errors wrapping the domain sentinel kinds
// (domain.ErrNotFound, domain.ErrConflict) where those conditions apply.
type URLRepository interface {
	// CreateURL creates a new short URL mapping. Returns an error wrapping
	// domain.ErrConflict when shortCode or alias violates a unique constraint.
	CreateURL(ctx context.Context, shortCode, originalURL string, alias *string, expiresAt *time.Time, createdAt time.Time) (*domain.URLMapping, error)

	// GetURL retrieves a mapping by its short code
	GetURL(ctx context.Context, shortCode string) (*domain.URLMapping, error)

	// DeleteURL removes a mapping by its short code and returns the deleted
	// row id. Analytics entries are removed by the store's cascade.
	DeleteURL(ctx context.Context, shortCode string) (int64, error)

	// InTx runs fn against a transactional view of the store. The
	// transaction is committed iff fn returns nil and rolled back otherwise;
	// exactly one of the two ever happens on a given transaction handle.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// Close closes the repository connection
	Close() error
}

// Tx is the transactional view handed to InTx callbacks. A Tx is owned
// exclusively by the call that opened it and must not escape the callback.
type Tx interface {
	// GetURL retrieves a mapping by its short code within the transaction
	GetURL(ctx context.Context, shortCode string) (*domain.URLMapping, error)

	// IncrementClickCount atomically increments the click counter for a
	// mapping row. Concurrent increments on the same id must not lose
	// updates.
	IncrementClickCount(ctx context.Context, id int64) error

	// AppendAnalytics records a single access to a mapping
	AppendAnalytics(ctx context.Context, urlID int64, ipAddress string, clickedAt time.Time) error

	// CountAnalytics returns the number of analytics entries for a mapping
	CountAnalytics(ctx context.Context, urlID int64) (int64, error)

	// RecentIPs returns up to limit accessing IP addresses for a mapping,
	// most recent first
	RecentIPs(ctx context.Context, urlID int64, limit int) ([]string, error)
}
