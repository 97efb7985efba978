package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"booktrack/internal/catalog"
	"booktrack/internal/config"
	"booktrack/internal/metadata"
)

const (
	probeTimeout = 10 * time.Second
	probeTitle   = "Dune"
)

func parentDir(path string) string {
	return filepath.Dir(filepath.Clean(path))
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCreatableDirectory passes when path is an accessible directory, or
// when it is missing and its nearest existing ancestor is writable.
func CheckCreatableDirectory(name, path string) Result {
	if _, err := os.Stat(path); err == nil || !os.IsNotExist(err) {
		return CheckDirectoryAccess(name, path)
	}
	ancestor := path
	for {
		next := filepath.Dir(ancestor)
		if next == ancestor {
			break
		}
		ancestor = next
		if _, err := os.Stat(ancestor); err == nil {
			break
		}
	}
	if err := unix.Access(ancestor, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, ancestor, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckCatalogFile verifies the catalog parses. A missing file passes.
func CheckCatalogFile(path string) Result {
	const name = "Catalog file"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Result{Name: name, Passed: true, Detail: "not created yet"}
	}
	coll, err := catalog.NewStore(path).Load()
	if err != nil {
		if errors.Is(err, catalog.ErrCorrupt) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: corrupt)", path)}
		}
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d entries", coll.Len())}
}

// CheckGitHub verifies repository settings and, when a client is supplied,
// that the token can read the repository.
func CheckGitHub(ctx context.Context, cfg *config.Config, client RepositoryChecker) Result {
	const name = "GitHub"
	if err := cfg.RequireGitHub(); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if client == nil {
		return Result{Name: name, Detail: "client unavailable"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if err := client.CheckAccess(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: client.Repository() + " (reachable)"}
}

// CheckProvider runs one small search against the metadata provider.
func CheckProvider(ctx context.Context, cfg *config.Config, provider metadata.Provider) Result {
	name := "Metadata provider"
	if provider == nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s unavailable", cfg.Metadata.Provider)}
	}
	name = "Metadata provider (" + provider.Name() + ")"

	checkCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if _, err := provider.Search(checkCtx, probeTitle, 1); err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	detail := "reachable"
	if cfg.Metadata.Provider == config.ProviderGoogleBooks && strings.TrimSpace(cfg.Metadata.GoogleBooksAPIKey) == "" {
		detail = "reachable (no API key, shared quota)"
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckLookupCache verifies the cache database location when enabled.
func CheckLookupCache(cfg *config.Config) Result {
	const name = "Lookup cache"
	if !cfg.LookupCache.Enabled {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	result := CheckCreatableDirectory(name, parentDir(cfg.LookupCache.Path))
	if result.Passed {
		result.Detail = cfg.LookupCache.Path
	}
	return result
}

// CheckWebhookSecret reports whether serve can verify deliveries. A missing
// secret only matters to serve, so it passes with a note.
func CheckWebhookSecret(cfg *config.Config) Result {
	const name = "Webhook secret"
	if err := cfg.RequireWebhookSecret(); err != nil {
		return Result{Name: name, Passed: true, Detail: "not set (serve accepts unsigned deliveries)"}
	}
	return Result{Name: name, Passed: true, Detail: "configured"}
}

// CheckNotifications lists the enabled notifiers.
func CheckNotifications(cfg *config.Config) Result {
	const name = "Notifications"
	var enabled []string
	if cfg.Notifications.IssueComments {
		enabled = append(enabled, "issue comments")
	}
	if strings.TrimSpace(cfg.Notifications.NtfyTopic) != "" {
		enabled = append(enabled, "ntfy")
	}
	if len(enabled) == 0 {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	return Result{Name: name, Passed: true, Detail: strings.Join(enabled, ", ")}
}

func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (unreachable)"
	}
	return err.Error()
}
