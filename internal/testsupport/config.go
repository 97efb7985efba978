package testsupport

import (
	"path/filepath"
	"testing"

	"booktrack/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with a unique temp directory per test.
// Network endpoints point at an unroutable address until overridden.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Catalog.Path = filepath.Join(base, "otaku-archive", "books.json")
	cfgVal.Catalog.LockTimeout = 2
	cfgVal.GitHub.Token = "test"
	cfgVal.GitHub.Repository = "reader/shelf"
	cfgVal.GitHub.BaseURL = "http://127.0.0.1:1"
	cfgVal.Metadata.GoogleBooksBaseURL = "http://127.0.0.1:1"
	cfgVal.Metadata.OpenLibraryBaseURL = "http://127.0.0.1:1"
	cfgVal.LookupCache.Path = filepath.Join(base, "cache", "lookups.db")
	cfgVal.Backfill.PacingMillis = 0
	cfgVal.Server.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithGitHubURL points the GitHub client at a test server.
func WithGitHubURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.GitHub.BaseURL = url
	}
}

// WithWebhookSecret sets the webhook signing secret.
func WithWebhookSecret(secret string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.GitHub.WebhookSecret = secret
	}
}

// WithProvider selects the metadata provider and points it at url.
func WithProvider(name, url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metadata.Provider = name
		switch name {
		case config.ProviderOpenLibrary:
			b.cfg.Metadata.OpenLibraryBaseURL = url
		default:
			b.cfg.Metadata.GoogleBooksBaseURL = url
		}
	}
}

// WithLookupCache enables the SQLite lookup cache.
func WithLookupCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LookupCache.Enabled = true
	}
}

// WithIssueComments toggles issue comment notifications.
func WithIssueComments(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.IssueComments = enabled
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.Catalog.Path))
}
