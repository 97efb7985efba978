package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateGitHubRepository(); err != nil {
		return err
	}
	if err := c.validateMetadata(); err != nil {
		return err
	}
	if err := c.validateBackfill(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// RequireGitHub reports whether the configuration can talk to the GitHub API.
// Only commands that read issues or post comments call it.
func (c *Config) RequireGitHub() error {
	if c.GitHub.Repository == "" {
		return errors.New("github.repository is required. Set GITHUB_REPOSITORY env var or edit the config file (create with 'booktrack config init')")
	}
	if c.GitHub.Token == "" {
		return errors.New("github.token is required. Set GITHUB_TOKEN env var or edit the config file")
	}
	return nil
}

// RequireWebhookSecret reports whether the webhook receiver can verify deliveries.
func (c *Config) RequireWebhookSecret() error {
	if c.GitHub.WebhookSecret == "" {
		return errors.New("github.webhook_secret is required to serve webhooks. Set BOOKTRACK_WEBHOOK_SECRET env var or edit the config file")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.Path == "" {
		return errors.New("catalog.path must be set")
	}
	if strings.HasSuffix(c.Catalog.Path, "/") {
		return fmt.Errorf("catalog.path %q must name a file", c.Catalog.Path)
	}
	return nil
}

func (c *Config) validateGitHubRepository() error {
	if c.GitHub.Repository == "" {
		return nil
	}
	owner, repo, ok := strings.Cut(c.GitHub.Repository, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return fmt.Errorf("github.repository %q must be in owner/name form", c.GitHub.Repository)
	}
	return nil
}

func (c *Config) validateMetadata() error {
	switch c.Metadata.Provider {
	case ProviderGoogleBooks, ProviderOpenLibrary:
	default:
		return fmt.Errorf("metadata.provider %q is not supported (use %q or %q)", c.Metadata.Provider, ProviderGoogleBooks, ProviderOpenLibrary)
	}
	if c.Metadata.MaxResults > 40 {
		return errors.New("metadata.max_results must be 40 or less")
	}
	return nil
}

func (c *Config) validateBackfill() error {
	if c.Backfill.PacingMillis < 0 {
		return errors.New("backfill.pacing_ms must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not supported", c.Logging.Level)
	}
	return nil
}
