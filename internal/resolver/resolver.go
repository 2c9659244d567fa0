// Package resolver implements the resolution transaction: the atomic unit
// that looks up a short code, bumps its click counter, enforces expiration,
// and records a per-visit analytics entry.
package resolver

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ameyer/url-shortener/internal/domain"
	"github.com/ameyer/url-shortener/internal/metrics"
	"github.com/ameyer/url-shortener/internal/repository"
)

// Coordinator orchestrates the resolution transaction against the store.
type Coordinator struct {
	repo    repository.URLRepository
	metrics *metrics.Metrics
	logger  *zap.Logger
	nowFunc func() time.Time
}

// New creates a resolution coordinator.
func New(repo repository.URLRepository, m *metrics.Metrics, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		repo:    repo,
		metrics: m,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// Resolve looks up shortCode and, in one transaction:
//
//  1. fails with domain.ErrNotFound if the mapping is absent (nothing is
//     written);
//  2. increments click_count unconditionally once the mapping is found,
//     before the expiration check, so expired hits still count;
//  3. fails with domain.ErrGone if expires_at precedes the transaction's
//     start time (the increment from step 2 is kept);
//  4. otherwise appends an analytics entry for ipAddress and returns the
//     original URL.
//
// Any store failure rolls the whole unit back; the increment and the
// analytics entry become visible together or not at all. The Gone path is
// the single deliberate exception: it commits the increment and nothing
// else.
func (c *Coordinator) Resolve(ctx context.Context, shortCode, ipAddress string) (string, error) {
	// The expiration check and clicked_at both use the instant the
	// transaction began, so one resolution is internally consistent.
	now := c.nowFunc().UTC()

	var originalURL string
	var expired bool

	err := c.repo.InTx(ctx, func(tx repository.Tx) error {
		mapping, err := tx.GetURL(ctx, shortCode)
		if err != nil {
			return err
		}

		if err := tx.IncrementClickCount(ctx, mapping.ID); err != nil {
			return err
		}

		if mapping.Expired(now) {
			// Returning nil commits the increment; ErrGone is surfaced
			// after the transaction so the rollback path can't eat it.
			expired = true
			return nil
		}

		if err := tx.AppendAnalytics(ctx, mapping.ID, ipAddress, now); err != nil {
			return err
		}

		originalURL = mapping.OriginalURL
		return nil
	})
	if err != nil {
		return "", c.fail(shortCode, err)
	}

	if expired {
		c.metrics.Resolutions.WithLabelValues(metrics.OutcomeGone).Inc()
		c.logger.Info("short code expired",
			zap.String("operation", "resolve"),
			zap.String("short_code", shortCode))
		return "", fmt.Errorf("resolve %q: %w", shortCode, domain.ErrGone)
	}

	c.metrics.Resolutions.WithLabelValues(metrics.OutcomeResolved).Inc()
	return originalURL, nil
}

func (c *Coordinator) fail(shortCode string, err error) error {
	if domain.IsNotFound(err) {
		c.metrics.Resolutions.WithLabelValues(metrics.OutcomeNotFound).Inc()
		c.logger.Info("short code not found",
			zap.String("operation", "resolve"),
			zap.String("short_code", shortCode))
		return err
	}

	c.metrics.Resolutions.WithLabelValues(metrics.OutcomeError).Inc()
	c.logger.Error("resolution transaction failed",
		zap.String("operation", "resolve"),
		zap.String("short_code", shortCode),
		zap.Error(err))
	return fmt.Errorf("resolve %q: %w", shortCode, domain.ErrInternal)
}
