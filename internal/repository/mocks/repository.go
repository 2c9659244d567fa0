package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ameyer/url-shortener/internal/domain"
	"github.com/ameyer/url-shortener/internal/repository"
)

// URLRepository is a mock implementation of repository.URLRepository
type URLRepository struct {
	mock.Mock
}

// CreateURL creates a new short URL mapping
func (m *URLRepository) CreateURL(ctx context.Context, shortCode, originalURL string, alias *string, expiresAt *time.Time, createdAt time.Time) (*domain.URLMapping, error) {
	args := m.Called(ctx, shortCode, originalURL, alias, expiresAt, createdAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.URLMapping), args.Error(1)
}

// GetURL retrieves a mapping by its short code
func (m *URLRepository) GetURL(ctx context.Context, shortCode string) (*domain.URLMapping, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.URLMapping), args.Error(1)
}

// DeleteURL removes a mapping by its short code
func (m *URLRepository) DeleteURL(ctx context.Context, shortCode string) (int64, error) {
	args := m.Called(ctx, shortCode)
	return args.Get(0).(int64), args.Error(1)
}

// InTx runs fn against the mock Tx configured via the "InTx" expectation.
// The callback receives the *Tx passed as the expectation's return argument.
func (m *URLRepository) InTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	args := m.Called(ctx, fn)
	if tx, ok := args.Get(0).(repository.Tx); ok && tx != nil {
		if err := fn(tx); err != nil {
			return err
		}
	}
	return args.Error(1)
}

// Close closes the repository connection
func (m *URLRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Tx is a mock implementation of repository.Tx
type Tx struct {
	mock.Mock
}

// GetURL retrieves a mapping by its short code within the transaction
func (m *Tx) GetURL(ctx context.Context, shortCode string) (*domain.URLMapping, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.URLMapping), args.Error(1)
}

// IncrementClickCount atomically increments the click counter
func (m *Tx) IncrementClickCount(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// AppendAnalytics records a single access to a mapping
func (m *Tx) AppendAnalytics(ctx context.Context, urlID int64, ipAddress string, clickedAt time.Time) error {
	args := m.Called(ctx, urlID, ipAddress, clickedAt)
	return args.Error(0)
}

// CountAnalytics returns the number of analytics entries for a mapping
func (m *Tx) CountAnalytics(ctx context.Context, urlID int64) (int64, error) {
	args := m.Called(ctx, urlID)
	return args.Get(0).(int64), args.Error(1)
}

// RecentIPs returns up to limit accessing IPs, most recent first
func (m *Tx) RecentIPs(ctx context.Context, urlID int64, limit int) ([]string, error) {
	args := m.Called(ctx, urlID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// Ensure mocks implement the interfaces
var (
	_ repository.URLRepository = (*URLRepository)(nil)
	_ repository.Tx            = (*Tx)(nil)
)
