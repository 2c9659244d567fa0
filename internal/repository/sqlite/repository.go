package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/ameyer/url-shortener/internal/domain"
	"github.com/ameyer/url-shortener/internal/repository"
)

// Repository implements repository.URLRepository using SQLite
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository
func New(databasePath string) (*Repository, error) {
	// Pragmas ride on the DSN so the driver applies them to every
	// connection the pool opens; foreign_keys and busy_timeout are
	// per-connection and a plain db.Exec would only reach one of them.
	// _txlock=immediate makes every transaction a write transaction from
	// the start. Deferred transactions that upgrade from read to write can
	// fail with SQLITE_BUSY under concurrent resolutions. Foreign keys are
	// required for the analytics cascade; WAL improves concurrent reader
	// behavior.
	db, err := sql.Open("sqlite3", "file:"+databasePath+
		"?_txlock=immediate&_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &Repository{db: db}

	if err := repo.runMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

// CreateURL creates a new short URL mapping
func (r *Repository) CreateURL(ctx context.Context, shortCode, originalURL string, alias *string, expiresAt *time.Time, createdAt time.Time) (*domain.URLMapping, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO urls (original_url, short_code, alias, created_at, expires_at, click_count)
		 VALUES (?, ?, ?, ?, ?, 0)`,
		originalURL, shortCode, alias, createdAt.UTC(), nullableTime(expiresAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("failed to create URL: %w", domain.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create URL: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted id: %w", err)
	}

	return &domain.URLMapping{
		ID:          id,
		ShortCode:   shortCode,
		OriginalURL: originalURL,
		Alias:       alias,
		CreatedAt:   createdAt.UTC(),
		ExpiresAt:   expiresAt,
		ClickCount:  0,
	}, nil
}

// GetURL retrieves a mapping by its short code
func (r *Repository) GetURL(ctx context.Context, shortCode string) (*domain.URLMapping, error) {
	return getURL(ctx, r.db, shortCode)
}

// DeleteURL removes a mapping by its short code and returns the deleted id.
// Related url_analytics rows are removed by the ON DELETE CASCADE constraint.
func (r *Repository) DeleteURL(ctx context.Context, shortCode string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"DELETE FROM urls WHERE short_code = ? RETURNING id", shortCode).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("failed to delete URL: %w", domain.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to delete URL: %w", err)
	}
	return id, nil
}

// InTx runs fn inside a database transaction. The transaction commits iff
// fn returns nil; every failure path rolls back. Commit and rollback are
// never both issued on the same handle.
func (r *Repository) InTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&tx{tx: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to rollback after %v: %w", err, rbErr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the repository connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// tx implements repository.Tx on top of *sql.Tx
type tx struct {
	tx *sql.Tx
}

func (t *tx) GetURL(ctx context.Context, shortCode string) (*domain.URLMapping, error) {
	return getURL(ctx, t.tx, shortCode)
}

func (t *tx) IncrementClickCount(ctx context.Context, id int64) error {
	// Single-statement increment; no read-modify-write anywhere.
	res, err := t.tx.ExecContext(ctx,
		"UPDATE urls SET click_count = click_count + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to increment click count: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check increment result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("failed to increment click count: %w", domain.ErrNotFound)
	}
	return nil
}

func (t *tx) AppendAnalytics(ctx context.Context, urlID int64, ipAddress string, clickedAt time.Time) error {
	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO url_analytics (url_id, ip_address, clicked_at) VALUES (?, ?, ?)",
		urlID, ipAddress, clickedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to append analytics entry: %w", err)
	}
	return nil
}

func (t *tx) CountAnalytics(ctx context.Context, urlID int64) (int64, error) {
	var count int64
	err := t.tx.QueryRowContext(ctx,
		"SELECT COUNT(id) FROM url_analytics WHERE url_id = ?", urlID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count analytics entries: %w", err)
	}
	return count, nil
}

func (t *tx) RecentIPs(ctx context.Context, urlID int64, limit int) ([]string, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT ip_address FROM url_analytics
		 WHERE url_id = ?
		 ORDER BY clicked_at DESC, id DESC
		 LIMIT ?`, urlID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent IPs: %w", err)
	}
	defer rows.Close()

	ips := make([]string, 0, limit)
	for rows.Next() {
		var ip string
		if err := rows.Scan(&ip); err != nil {
			return nil, fmt.Errorf("failed to scan IP address: %w", err)
		}
		ips = append(ips, ip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recent IPs: %w", err)
	}
	return ips, nil
}

// querier abstracts *sql.DB and *sql.Tx for shared read queries
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getURL(ctx context.Context, q querier, shortCode string) (*domain.URLMapping, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, original_url, short_code, alias, created_at, expires_at, click_count
		 FROM urls WHERE short_code = ?`, shortCode)

	var m domain.URLMapping
	var alias sql.NullString
	var expiresAt sql.NullTime

	if err := row.Scan(&m.ID, &m.OriginalURL, &m.ShortCode, &alias, &m.CreatedAt, &expiresAt, &m.ClickCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to get URL: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get URL: %w", err)
	}

	if alias.Valid {
		m.Alias = &alias.String
	}
	if expiresAt.Valid {
		t := expiresAt.Time.UTC()
		m.ExpiresAt = &t
	}
	m.CreatedAt = m.CreatedAt.UTC()

	return &m, nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint error
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// Ensure Repository implements the interface
var _ repository.URLRepository = (*Repository)(nil)
