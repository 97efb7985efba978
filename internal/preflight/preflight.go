package preflight

import (
	"context"

	"booktrack/internal/config"
	"booktrack/internal/metadata"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RepositoryChecker verifies repository access. github.Client satisfies it.
type RepositoryChecker interface {
	CheckAccess(ctx context.Context) error
	Repository() string
}

// Dependencies are the live clients probed by RunAll. Nil members are
// reported as unavailable.
type Dependencies struct {
	Provider metadata.Provider
	GitHub   RepositoryChecker
}

// RunAll executes every preflight check for cfg.
func RunAll(ctx context.Context, cfg *config.Config, deps Dependencies) []Result {
	if cfg == nil {
		return nil
	}

	return []Result{
		CheckCreatableDirectory("Catalog directory", parentDir(cfg.Catalog.Path)),
		CheckCatalogFile(cfg.Catalog.Path),
		CheckGitHub(ctx, cfg, deps.GitHub),
		CheckProvider(ctx, cfg, deps.Provider),
		CheckLookupCache(cfg),
		CheckWebhookSecret(cfg),
		CheckNotifications(cfg),
	}
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
