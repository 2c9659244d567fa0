package resolver

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ameyer/url-shortener/internal/domain"
	"github.com/ameyer/url-shortener/internal/metrics"
	"github.com/ameyer/url-shortener/internal/repository"
	"github.com/ameyer/url-shortener/internal/repository/sqlite"
)

func TestCoordinator_Resolve(t *testing.T) {
	repo := setupTestRepo(t)
	coordinator := newTestCoordinator(repo)

	ctx := context.Background()
	created, err := repo.CreateURL(ctx, "abc123", "https://example.com", nil, nil, time.Now().UTC())
	require.NoError(t, err)

	originalURL, err := coordinator.Resolve(ctx, "abc123", "1.1.1.1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", originalURL)

	// Counter and analytics entry must both be visible
	got, err := repo.GetURL(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ClickCount)

	count, ips := readAnalytics(t, repo, created.ID)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, []string{"1.1.1.1"}, ips)
}

func TestCoordinator_Resolve_NotFound(t *testing.T) {
	repo := setupTestRepo(t)
	coordinator := newTestCoordinator(repo)

	_, err := coordinator.Resolve(context.Background(), "nonexistent", "1.1.1.1")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err), "expected not found, got: %v", err)
}

func TestCoordinator_Resolve_Expired(t *testing.T) {
	repo := setupTestRepo(t)
	coordinator := newTestCoordinator(repo)

	ctx := context.Background()
	expiresAt := time.Now().UTC().Add(-time.Hour)
	created, err := repo.CreateURL(ctx, "expired", "https://example.com", nil, &expiresAt, time.Now().UTC())
	require.NoError(t, err)

	_, err = coordinator.Resolve(ctx, "expired", "1.1.1.1")
	require.Error(t, err)
	assert.True(t, domain.IsGone(err), "expected gone, got: %v", err)

	// The expired hit still counts toward click_count, but no analytics
	// entry is recorded for it.
	got, err := repo.GetURL(ctx, "expired")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ClickCount)

	count, _ := readAnalytics(t, repo, created.ID)
	assert.Equal(t, int64(0), count)
}

func TestCoordinator_Resolve_ExpiryAgainstTransactionStart(t *testing.T) {
	repo := setupTestRepo(t)
	coordinator := newTestCoordinator(repo)

	ctx := context.Background()
	expiresAt := time.Now().UTC().Add(30 * time.Minute)
	_, err := repo.CreateURL(ctx, "soon", "https://example.com", nil, &expiresAt, time.Now().UTC())
	require.NoError(t, err)

	// Not yet expired
	_, err = coordinator.Resolve(ctx, "soon", "1.1.1.1")
	require.NoError(t, err)

	// Pin the coordinator clock past the expiry
	coordinator.nowFunc = func() time.Time { return expiresAt.Add(time.Second) }
	_, err = coordinator.Resolve(ctx, "soon", "1.1.1.1")
	assert.True(t, domain.IsGone(err), "expected gone, got: %v", err)
}

func TestCoordinator_Resolve_Concurrent(t *testing.T) {
	repo := setupTestRepo(t)
	coordinator := newTestCoordinator(repo)

	ctx := context.Background()
	created, err := repo.CreateURL(ctx, "abc123", "https://example.com", nil, nil, time.Now().UTC())
	require.NoError(t, err)

	numGoroutines := 20
	done := make(chan error, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			_, err := coordinator.Resolve(ctx, "abc123", "1.1.1.1")
			done <- err
		}()
	}
	for i := 0; i < numGoroutines; i++ {
		assert.NoError(t, <-done)
	}

	// No lost counter updates, no lost analytics entries
	got, err := repo.GetURL(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, int64(numGoroutines), got.ClickCount)

	count, _ := readAnalytics(t, repo, created.ID)
	assert.Equal(t, int64(numGoroutines), count)
}

func TestCoordinator_Resolve_RollsBackOnAnalyticsFailure(t *testing.T) {
	repo := setupTestRepo(t)
	failing := &failingRepo{URLRepository: repo, appendErr: errors.New("disk full")}
	coordinator := newTestCoordinator(failing)

	ctx := context.Background()
	_, err := repo.CreateURL(ctx, "abc123", "https://example.com", nil, nil, time.Now().UTC())
	require.NoError(t, err)

	_, err = coordinator.Resolve(ctx, "abc123", "1.1.1.1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInternal)

	// The increment that preceded the failed append must not be visible
	got, err := repo.GetURL(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.ClickCount)
}

// failingRepo wraps a real repository and injects a failure into
// AppendAnalytics to exercise the rollback path.
type failingRepo struct {
	repository.URLRepository
	appendErr error
}

func (f *failingRepo) InTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	return f.URLRepository.InTx(ctx, func(tx repository.Tx) error {
		return fn(&failingTx{Tx: tx, appendErr: f.appendErr})
	})
}

type failingTx struct {
	repository.Tx
	appendErr error
}

func (f *failingTx) AppendAnalytics(ctx context.Context, urlID int64, ipAddress string, clickedAt time.Time) error {
	return f.appendErr
}

// Helper functions

func newTestCoordinator(repo repository.URLRepository) *Coordinator {
	return New(repo, metrics.New(prometheus.NewRegistry()), zap.NewNop())
}

func setupTestRepo(t *testing.T) *sqlite.Repository {
	t.Helper()
	file, err := os.CreateTemp(t.TempDir(), "test_*.db")
	require.NoError(t, err)
	file.Close()

	repo, err := sqlite.New(file.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

func readAnalytics(t *testing.T, repo repository.URLRepository, urlID int64) (int64, []string) {
	t.Helper()
	var count int64
	var ips []string
	err := repo.InTx(context.Background(), func(tx repository.Tx) error {
		var err error
		if count, err = tx.CountAnalytics(context.Background(), urlID); err != nil {
			return err
		}
		ips, err = tx.RecentIPs(context.Background(), urlID, 5)
		return err
	})
	require.NoError(t, err)
	return count, ips
}
