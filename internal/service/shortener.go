package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ameyer/url-shortener/internal/domain"
	"github.com/ameyer/url-shortener/internal/metrics"
	"github.com/ameyer/url-shortener/internal/repository"
	"github.com/ameyer/url-shortener/internal/shortener"
)

// recentIPLimit caps the recent-visitor list in the analytics view.
const recentIPLimit = 5

// DefaultMaxCreateAttempts bounds the retry loop for generated-code
// conflicts.
const DefaultMaxCreateAttempts = 5

// urlShortener implements URLShortener
type urlShortener struct {
	repo        repository.URLRepository
	generator   shortener.Generator
	resolver    Resolver
	metrics     *metrics.Metrics
	logger      *zap.Logger
	baseURL     string
	maxAttempts int
	nowFunc     func() time.Time
}

// NewURLShortener creates the mapping service. baseURL is the public prefix
// for created short URLs; maxAttempts bounds creation retries on
// generated-code conflicts (values < 1 fall back to the default).
func NewURLShortener(repo repository.URLRepository, generator shortener.Generator, resolver Resolver, m *metrics.Metrics, logger *zap.Logger, baseURL string, maxAttempts int) URLShortener {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxCreateAttempts
	}
	return &urlShortener{
		repo:        repo,
		generator:   generator,
		resolver:    resolver,
		metrics:     m,
		logger:      logger,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxAttempts: maxAttempts,
		nowFunc:     time.Now,
	}
}

// CreateShortURL creates a new short URL mapping
func (s *urlShortener) CreateShortURL(ctx context.Context, originalURL string, alias *string, expiresAt *time.Time) (*domain.CreateURLResponse, error) {
	createdAt := s.nowFunc().UTC()

	var mapping *domain.URLMapping
	var err error

	if alias != nil && *alias != "" {
		// The alias is the public short code. It is user-chosen, so a
		// conflict cannot be fixed by regenerating; surface it directly.
		mapping, err = s.repo.CreateURL(ctx, *alias, originalURL, alias, expiresAt, createdAt)
		if err != nil {
			if domain.IsConflict(err) {
				s.logger.Info("alias already taken",
					zap.String("operation", "create"),
					zap.String("alias", *alias))
				return nil, fmt.Errorf("alias %q: %w", *alias, domain.ErrConflict)
			}
			return nil, s.internal("create", err)
		}
	} else {
		mapping, err = s.createWithGeneratedCode(ctx, originalURL, expiresAt, createdAt)
		if err != nil {
			return nil, err
		}
	}

	s.metrics.URLsCreated.Inc()
	s.logger.Info("short URL created",
		zap.String("operation", "create"),
		zap.String("short_code", mapping.ShortCode))

	return &domain.CreateURLResponse{
		ShortURL:  s.baseURL + "/" + mapping.ShortCode,
		CreatedAt: mapping.CreatedAt,
	}, nil
}

// createWithGeneratedCode retries on store conflicts with a fresh code each
// attempt. The generator does not guarantee uniqueness; the store's unique
// constraint is the arbiter, and losing a creation race surfaces here as a
// conflict on an otherwise-fresh code.
func (s *urlShortener) createWithGeneratedCode(ctx context.Context, originalURL string, expiresAt *time.Time, createdAt time.Time) (*domain.URLMapping, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		code, err := s.generator.GenerateShortCode(ctx)
		if err != nil {
			return nil, s.internal("create", err)
		}

		mapping, err := s.repo.CreateURL(ctx, code, originalURL, nil, expiresAt, createdAt)
		if err == nil {
			return mapping, nil
		}
		if !domain.IsConflict(err) {
			return nil, s.internal("create", err)
		}

		s.logger.Warn("generated code collided, retrying",
			zap.String("operation", "create"),
			zap.String("short_code", code),
			zap.Int("attempt", attempt))
	}

	s.logger.Error("exhausted short code generation attempts",
		zap.String("operation", "create"),
		zap.Int("max_attempts", s.maxAttempts))
	return nil, fmt.Errorf("exhausted %d short code attempts: %w", s.maxAttempts, domain.ErrInternal)
}

// ResolveURL resolves a short code via the transaction coordinator
func (s *urlShortener) ResolveURL(ctx context.Context, shortCode, ipAddress string) (string, error) {
	return s.resolver.Resolve(ctx, shortCode, ipAddress)
}

// GetURLInfo retrieves metadata for a short URL
func (s *urlShortener) GetURLInfo(ctx context.Context, shortCode string) (*domain.URLInfo, error) {
	mapping, err := s.repo.GetURL(ctx, shortCode)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		return nil, s.internal("info", err)
	}

	return &domain.URLInfo{
		OriginalURL: mapping.OriginalURL,
		CreatedAt:   mapping.CreatedAt,
		ClickCount:  mapping.ClickCount,
	}, nil
}

// DeleteShortURL removes a mapping; the store cascades analytics deletion
func (s *urlShortener) DeleteShortURL(ctx context.Context, shortCode string) error {
	deletedID, err := s.repo.DeleteURL(ctx, shortCode)
	if err != nil {
		if domain.IsNotFound(err) {
			return err
		}
		return s.internal("delete", err)
	}

	s.logger.Info("short URL deleted",
		zap.String("operation", "delete"),
		zap.String("short_code", shortCode),
		zap.Int64("url_id", deletedID))
	return nil
}

// GetAnalytics retrieves the analytics view for a short URL. The count and
// the recent-IP list are read in one transaction so they reflect a single
// consistent snapshot.
func (s *urlShortener) GetAnalytics(ctx context.Context, shortCode string) (*domain.URLAnalytics, error) {
	var result domain.URLAnalytics

	err := s.repo.InTx(ctx, func(tx repository.Tx) error {
		mapping, err := tx.GetURL(ctx, shortCode)
		if err != nil {
			return err
		}

		count, err := tx.CountAnalytics(ctx, mapping.ID)
		if err != nil {
			return err
		}

		ips, err := tx.RecentIPs(ctx, mapping.ID, recentIPLimit)
		if err != nil {
			return err
		}

		result = domain.URLAnalytics{ClickCount: count, RecentIPs: ips}
		return nil
	})
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		return nil, s.internal("analytics", err)
	}

	return &result, nil
}

// Close closes the service and its dependencies
func (s *urlShortener) Close() error {
	if err := s.repo.Close(); err != nil {
		return fmt.Errorf("failed to close repository: %w", err)
	}
	return nil
}

// internal logs err with its operation and maps it to the internal kind.
func (s *urlShortener) internal(op string, err error) error {
	s.logger.Error("operation failed",
		zap.String("operation", op),
		zap.Error(err))
	return fmt.Errorf("%s: %w", op, domain.ErrInternal)
}

// Ensure urlShortener implements URLShortener
var _ URLShortener = (*urlShortener)(nil)
