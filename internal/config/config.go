package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Catalog locates the persisted books collection.
type Catalog struct {
	Path        string `toml:"path"`
	LockTimeout int    `toml:"lock_timeout"`
}

// GitHub contains the issue tracker that drives lifecycle events.
type GitHub struct {
	Token          string `toml:"token"`
	Repository     string `toml:"repository"`
	BaseURL        string `toml:"base_url"`
	WebhookSecret  string `toml:"webhook_secret"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Metadata selects and configures the book metadata provider.
type Metadata struct {
	Provider           string `toml:"provider"`
	MaxResults         int    `toml:"max_results"`
	RequestTimeout     int    `toml:"request_timeout"`
	GoogleBooksAPIKey  string `toml:"google_books_api_key"`
	GoogleBooksBaseURL string `toml:"google_books_base_url"`
	OpenLibraryBaseURL string `toml:"open_library_base_url"`
}

// LookupCache contains configuration for the on-disk provider response cache.
type LookupCache struct {
	Enabled  bool   `toml:"enabled"`
	Path     string `toml:"path"`
	TTLHours int    `toml:"ttl_hours"`
}

// Backfill contains configuration for full history replays.
type Backfill struct {
	PacingMillis int `toml:"pacing_ms"`
}

// Notifications contains configuration for outcome messages.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	IssueComments  bool   `toml:"issue_comments"`
}

// Server contains configuration for the webhook receiver.
type Server struct {
	Bind            string `toml:"bind"`
	ShutdownTimeout int    `toml:"shutdown_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for booktrack.
//
// Configuration sections by subsystem:
//   - Catalog: books.json location and lock wait
//   - GitHub: repository, token, and webhook secret for the event source
//   - Metadata: Google Books / Open Library lookup settings
//   - LookupCache: optional SQLite cache of provider responses
//   - Backfill: pacing between provider calls during replays
//   - Notifications: issue comments and ntfy push settings
//   - Server: webhook receiver bind address
//   - Logging: log format, level, and optional file
type Config struct {
	Catalog       Catalog       `toml:"catalog"`
	GitHub        GitHub        `toml:"github"`
	Metadata      Metadata      `toml:"metadata"`
	LookupCache   LookupCache   `toml:"lookup_cache"`
	Backfill      Backfill      `toml:"backfill"`
	Notifications Notifications `toml:"notifications"`
	Server        Server        `toml:"server"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/booktrack/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("booktrack.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// Owner returns the repository owner from "owner/name".
func (c *Config) Owner() string {
	owner, _, _ := strings.Cut(c.GitHub.Repository, "/")
	return owner
}

// Repo returns the repository name from "owner/name".
func (c *Config) Repo() string {
	_, repo, _ := strings.Cut(c.GitHub.Repository, "/")
	return repo
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultLookupCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "booktrack", "lookups.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/booktrack/lookups.db"
	}
	return filepath.Join(home, ".cache", "booktrack", "lookups.db")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
