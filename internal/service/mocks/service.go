package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ameyer/url-shortener/internal/domain"
	"github.com/ameyer/url-shortener/internal/service"
)

// URLShortener is a mock implementation of service.URLShortener
type URLShortener struct {
	mock.Mock
}

// CreateShortURL creates a new short URL mapping
func (m *URLShortener) CreateShortURL(ctx context.Context, originalURL string, alias *string, expiresAt *time.Time) (*domain.CreateURLResponse, error) {
	args := m.Called(ctx, originalURL, alias, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreateURLResponse), args.Error(1)
}

// ResolveURL resolves a short code to its original URL
func (m *URLShortener) ResolveURL(ctx context.Context, shortCode, ipAddress string) (string, error) {
	args := m.Called(ctx, shortCode, ipAddress)
	return args.String(0), args.Error(1)
}

// GetURLInfo retrieves metadata for a short URL
func (m *URLShortener) GetURLInfo(ctx context.Context, shortCode string) (*domain.URLInfo, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.URLInfo), args.Error(1)
}

// DeleteShortURL removes a mapping
func (m *URLShortener) DeleteShortURL(ctx context.Context, shortCode string) error {
	args := m.Called(ctx, shortCode)
	return args.Error(0)
}

// GetAnalytics retrieves the analytics view for a short URL
func (m *URLShortener) GetAnalytics(ctx context.Context, shortCode string) (*domain.URLAnalytics, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.URLAnalytics), args.Error(1)
}

// Close closes the service
func (m *URLShortener) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Ensure URLShortener implements the interface
var _ service.URLShortener = (*URLShortener)(nil)
