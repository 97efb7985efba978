package lookupcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"booktrack/internal/logging"
	"booktrack/internal/metadata"
	"booktrack/internal/textutil"
)

// Cache is a metadata.Provider that memoizes another provider.
type Cache struct {
	db     *sql.DB
	path   string
	inner  metadata.Provider
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

var _ metadata.Provider = (*Cache)(nil)

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source used for TTL checks.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// Open creates or opens the cache database at path.
func Open(ctx context.Context, path string, inner metadata.Provider, ttl time.Duration, opts ...Option) (*Cache, error) {
	if inner == nil {
		return nil, errors.New("lookup cache requires a provider")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	cache := &Cache{
		db:    db,
		path:  path,
		inner: inner,
		ttl:   ttl,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(cache)
	}
	cache.logger = logging.NewComponentLogger(cache.logger, "lookupcache")

	if err := cache.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Name reports the wrapped provider so matches stay attributed to it.
func (c *Cache) Name() string {
	return c.inner.Name()
}

// Search returns cached candidates when fresh and otherwise asks the wrapped
// provider. Cache read and write failures fall through to the provider.
func (c *Cache) Search(ctx context.Context, title string, limit int) ([]metadata.Candidate, error) {
	query := textutil.FoldTitle(title)
	if candidates, ok := c.lookup(ctx, query, limit); ok {
		c.logger.Debug("lookup cache hit",
			logging.String("query", title),
			logging.Int("candidates", len(candidates)))
		return candidates, nil
	}

	candidates, err := c.inner.Search(ctx, title, limit)
	if err != nil {
		return nil, err
	}
	if err := c.store(ctx, query, limit, candidates); err != nil {
		logging.WarnWithContext(c.logger, "failed to store lookup", "lookup_cache_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on "+c.path),
			logging.String(logging.FieldImpact, "the next lookup for this title will hit the provider again"))
	}
	return candidates, nil
}

func (c *Cache) lookup(ctx context.Context, query string, limit int) ([]metadata.Candidate, bool) {
	var payload, fetchedAt string
	err := c.db.QueryRowContext(ctx,
		`SELECT candidates_json, fetched_at FROM lookups WHERE provider = ? AND query = ? AND result_limit = ?`,
		c.inner.Name(), query, limit,
	).Scan(&payload, &fetchedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.logger.Debug("lookup cache read failed", logging.Error(err))
		}
		return nil, false
	}

	fetched, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(fetched) > c.ttl {
		return nil, false
	}

	var candidates []metadata.Candidate
	if err := json.Unmarshal([]byte(payload), &candidates); err != nil {
		return nil, false
	}
	return candidates, true
}

func (c *Cache) store(ctx context.Context, query string, limit int, candidates []metadata.Candidate) error {
	if candidates == nil {
		candidates = []metadata.Candidate{}
	}
	payload, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("marshal candidates: %w", err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO lookups (provider, query, result_limit, candidates_json, fetched_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(provider, query, result_limit) DO UPDATE SET
            candidates_json = excluded.candidates_json,
            fetched_at = excluded.fetched_at`,
		c.inner.Name(), query, limit, string(payload), c.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert lookup: %w", err)
	}
	return nil
}

// Prune deletes entries older than the TTL and returns how many were removed.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	cutoff := c.now().Add(-c.ttl).UTC().Format(time.RFC3339Nano)
	res, err := c.db.ExecContext(ctx, `DELETE FROM lookups WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune lookups: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of cached lookups.
func (c *Cache) Count(ctx context.Context) (int, error) {
	var count int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM lookups`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count lookups: %w", err)
	}
	return count, nil
}
