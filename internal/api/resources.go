package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"booktrack/internal/catalog"
	"booktrack/internal/config"
	"booktrack/internal/github"
	"booktrack/internal/logging"
	"booktrack/internal/metadata"
	"booktrack/internal/metadata/googlebooks"
	"booktrack/internal/metadata/lookupcache"
	"booktrack/internal/metadata/openlibrary"
	"booktrack/internal/notifications"
	"booktrack/internal/services"
)

func nopClose() error { return nil }

func seconds(value int, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return time.Duration(value) * time.Second
}

// ErrLookupCacheDisabled is returned when lookup_cache.enabled is false.
var ErrLookupCacheDisabled = errors.New("lookup cache is disabled")

func openBaseProvider(cfg *config.Config) (metadata.Provider, error) {
	timeout := seconds(cfg.Metadata.RequestTimeout, 10*time.Second)
	switch cfg.Metadata.Provider {
	case config.ProviderGoogleBooks:
		client, err := googlebooks.New(cfg.Metadata.GoogleBooksAPIKey, cfg.Metadata.GoogleBooksBaseURL, googlebooks.WithTimeout(timeout))
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "api", "open provider", "build google books client", err)
		}
		return client, nil
	case config.ProviderOpenLibrary:
		client, err := openlibrary.New(cfg.Metadata.OpenLibraryBaseURL, openlibrary.WithTimeout(timeout))
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "api", "open provider", "build open library client", err)
		}
		return client, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "api", "open provider",
			fmt.Sprintf("unsupported metadata provider %q", cfg.Metadata.Provider), nil)
	}
}

// OpenLookupCache opens the lookup cache in front of the configured provider.
func OpenLookupCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*lookupcache.Cache, error) {
	if cfg == nil || !cfg.LookupCache.Enabled {
		return nil, ErrLookupCacheDisabled
	}
	provider, err := openBaseProvider(cfg)
	if err != nil {
		return nil, err
	}
	ttl := time.Duration(cfg.LookupCache.TTLHours) * time.Hour
	return lookupcache.Open(ctx, cfg.LookupCache.Path, provider, ttl, lookupcache.WithLogger(logger))
}

// OpenProvider builds the configured metadata provider. When the lookup cache
// is enabled the provider is wrapped in it and the returned closer releases
// the database.
func OpenProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (metadata.Provider, func() error, error) {
	if cfg == nil {
		return nil, nil, services.Wrap(services.ErrConfiguration, "api", "open provider", "configuration is required", nil)
	}
	provider, err := openBaseProvider(cfg)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.LookupCache.Enabled {
		return provider, nopClose, nil
	}

	ttl := time.Duration(cfg.LookupCache.TTLHours) * time.Hour
	cache, err := lookupcache.Open(ctx, cfg.LookupCache.Path, provider, ttl, lookupcache.WithLogger(logger))
	if err != nil {
		logging.WarnWithContext(logger, "lookup cache unavailable; querying provider directly", "lookup_cache_open_failed",
			logging.String("path", cfg.LookupCache.Path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "every title hits the provider"),
		)
		return provider, nopClose, nil
	}
	return cache, cache.Close, nil
}

// OpenResolver builds a resolver over OpenProvider.
func OpenResolver(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*metadata.Resolver, func() error, error) {
	provider, closer, err := OpenProvider(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	resolver := metadata.NewResolver(provider,
		metadata.WithMaxResults(cfg.Metadata.MaxResults),
		metadata.WithLogger(logger),
	)
	return resolver, closer, nil
}

// OpenStore returns the catalog store configured in cfg.
func OpenStore(cfg *config.Config, logger *slog.Logger) *catalog.Store {
	return catalog.NewStore(cfg.Catalog.Path,
		catalog.WithLockTimeout(seconds(cfg.Catalog.LockTimeout, 0)),
		catalog.WithLogger(logger),
	)
}

// OpenGitHub returns a REST client for the configured repository.
func OpenGitHub(cfg *config.Config) (*github.Client, error) {
	if err := cfg.RequireGitHub(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "api", "open github", "github settings incomplete", err)
	}
	return github.New(cfg.GitHub.Token, cfg.GitHub.BaseURL, cfg.Owner(), cfg.Repo(),
		github.WithTimeout(seconds(cfg.GitHub.RequestTimeout, 15*time.Second)),
	)
}

// OpenNotifier builds the notification fan-out. A nil client disables issue
// comments.
func OpenNotifier(cfg *config.Config, client *github.Client, logger *slog.Logger) notifications.Service {
	if client == nil {
		return notifications.NewService(cfg, nil, logger)
	}
	return notifications.NewService(cfg, client, logger)
}
