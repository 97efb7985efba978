package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"booktrack/internal/logging"
	"booktrack/internal/services"
)

// ErrCorrupt marks a catalog file that exists but cannot be parsed.
var ErrCorrupt = errors.New("catalog file is corrupt")

// ErrLocked is returned when another run holds the catalog lock past the wait.
var ErrLocked = errors.New("catalog is locked by another run")

const lockRetryDelay = 100 * time.Millisecond

// Store reads and writes the catalog file as a whole.
type Store struct {
	path        string
	lockTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLockTimeout bounds how long Lock waits for another run to finish.
// Zero waits until the context is done.
func WithLockTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		s.lockTimeout = timeout
	}
}

// WithLogger attaches a logger to the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore returns a store for the file at path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{path: path}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "catalog")
	return s
}

// Path returns the catalog file location.
func (s *Store) Path() string {
	return s.path
}

// LockPath returns the advisory lock file location.
func (s *Store) LockPath() string {
	return s.path + ".lock"
}

// Lock takes the exclusive catalog lock. The returned function releases it.
func (s *Store) Lock(ctx context.Context) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrStore, "catalog", "lock", "create catalog directory", err)
	}
	if s.lockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.lockTimeout)
		defer cancel()
	}

	lock := flock.New(s.LockPath())
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrStore, "catalog", "lock", s.LockPath(), ErrLocked)
		}
		return nil, services.Wrap(services.ErrStore, "catalog", "lock", s.LockPath(), err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrStore, "catalog", "lock", s.LockPath(), ErrLocked)
	}
	s.logger.Debug("catalog lock acquired", logging.String("lock", s.LockPath()))
	return lock.Unlock, nil
}

// Load reads the catalog. A missing or empty file yields an empty collection.
func (s *Store) Load() (*Collection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("catalog file absent, starting empty", logging.String("path", s.path))
			return NewCollection(), nil
		}
		return nil, services.Wrap(services.ErrStore, "catalog", "load", "read catalog file", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return NewCollection(), nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, services.Wrap(services.ErrStore, "catalog", "load", s.path, fmt.Errorf("%w: %w", ErrCorrupt, err))
	}

	s.logger.Debug("loaded catalog",
		logging.Int("entry_count", len(entries)),
		logging.String("path", s.path))
	return NewCollection(entries...), nil
}

// Save rewrites the catalog file atomically.
func (s *Store) Save(c *Collection) error {
	data, err := Encode(c)
	if err != nil {
		return services.Wrap(services.ErrStore, "catalog", "save", "encode catalog", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return services.Wrap(services.ErrStore, "catalog", "save", "create catalog directory", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return services.Wrap(services.ErrStore, "catalog", "save", "write temp file", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return services.Wrap(services.ErrStore, "catalog", "save", "rename temp file", err)
	}

	s.logger.Info("saved catalog",
		logging.String(logging.FieldEventType, "catalog_saved"),
		logging.Int("entry_count", c.Len()),
		logging.String("path", s.path))
	return nil
}

// Encode renders the collection exactly as Save writes it.
func Encode(c *Collection) ([]byte, error) {
	entries := c.entries
	if entries == nil {
		entries = []Entry{}
	}
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
