package service

import (
	"context"
	"time"

	"github.com/ameyer/url-shortener/internal/domain"
)

// URLShortener defines the interface for the public mapping operations
type URLShortener interface {
	// CreateShortURL creates a new short URL mapping. A supplied alias
	// becomes the public short code and is never retried on conflict;
	// generated codes are retried up to the configured bound.
	CreateShortURL(ctx context.Context, originalURL string, alias *string, expiresAt *time.Time) (*domain.CreateURLResponse, error)

	// ResolveURL resolves a short code to its original URL, recording the
	// access (click counter + analytics entry) atomically.
	ResolveURL(ctx context.Context, shortCode, ipAddress string) (string, error)

	// GetURLInfo retrieves metadata for a short URL. The click count
	// includes hits on expired mappings.
	GetURLInfo(ctx context.Context, shortCode string) (*domain.URLInfo, error)

	// DeleteShortURL removes a mapping and, by cascade, its analytics
	DeleteShortURL(ctx context.Context, shortCode string) error

	// GetAnalytics retrieves the analytics view for a short URL: the count
	// of successful resolutions and the most recent accessing IPs.
	GetAnalytics(ctx context.Context, shortCode string) (*domain.URLAnalytics, error)

	// Close closes the service and its dependencies
	Close() error
}

// Resolver executes the resolution transaction. Implemented by
// resolver.Coordinator.
type Resolver interface {
	Resolve(ctx context.Context, shortCode, ipAddress string) (string, error)
}
