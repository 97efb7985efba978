package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	c.normalizeGitHub()
	c.normalizeMetadata()
	if err := c.normalizeLookupCache(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeServer()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeCatalog() error {
	c.Catalog.Path = strings.TrimSpace(c.Catalog.Path)
	if c.Catalog.Path == "" {
		c.Catalog.Path = defaultCatalogPath
	}
	var err error
	if c.Catalog.Path, err = expandPath(c.Catalog.Path); err != nil {
		return fmt.Errorf("catalog.path: %w", err)
	}
	if c.Catalog.LockTimeout <= 0 {
		c.Catalog.LockTimeout = defaultCatalogLockTimeout
	}
	return nil
}

func (c *Config) normalizeGitHub() {
	if c.GitHub.Token == "" {
		if value, ok := os.LookupEnv("GITHUB_TOKEN"); ok {
			c.GitHub.Token = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.GitHub.Repository) == "" {
		if value, ok := os.LookupEnv("GITHUB_REPOSITORY"); ok {
			c.GitHub.Repository = value
		}
	}
	c.GitHub.Repository = strings.Trim(strings.TrimSpace(c.GitHub.Repository), "/")
	if c.GitHub.WebhookSecret == "" {
		if value, ok := os.LookupEnv("BOOKTRACK_WEBHOOK_SECRET"); ok {
			c.GitHub.WebhookSecret = value
		}
	}
	c.GitHub.BaseURL = strings.TrimRight(strings.TrimSpace(c.GitHub.BaseURL), "/")
	if c.GitHub.BaseURL == "" {
		c.GitHub.BaseURL = defaultGitHubBaseURL
	}
	if c.GitHub.RequestTimeout <= 0 {
		c.GitHub.RequestTimeout = defaultGitHubTimeout
	}
}

func (c *Config) normalizeMetadata() {
	c.Metadata.Provider = strings.ToLower(strings.TrimSpace(c.Metadata.Provider))
	c.Metadata.Provider = strings.ReplaceAll(c.Metadata.Provider, "-", "_")
	if c.Metadata.Provider == "" {
		c.Metadata.Provider = defaultMetadataProvider
	}
	if c.Metadata.MaxResults <= 0 {
		c.Metadata.MaxResults = defaultMetadataMaxResults
	}
	if c.Metadata.RequestTimeout <= 0 {
		c.Metadata.RequestTimeout = defaultMetadataTimeout
	}
	if c.Metadata.GoogleBooksAPIKey == "" {
		if value, ok := os.LookupEnv("GOOGLE_BOOKS_API_KEY"); ok {
			c.Metadata.GoogleBooksAPIKey = strings.TrimSpace(value)
		}
	}
	c.Metadata.GoogleBooksBaseURL = strings.TrimRight(strings.TrimSpace(c.Metadata.GoogleBooksBaseURL), "/")
	if c.Metadata.GoogleBooksBaseURL == "" {
		c.Metadata.GoogleBooksBaseURL = defaultGoogleBooksBaseURL
	}
	c.Metadata.OpenLibraryBaseURL = strings.TrimRight(strings.TrimSpace(c.Metadata.OpenLibraryBaseURL), "/")
	if c.Metadata.OpenLibraryBaseURL == "" {
		c.Metadata.OpenLibraryBaseURL = defaultOpenLibraryBaseURL
	}
}

func (c *Config) normalizeLookupCache() error {
	if strings.TrimSpace(c.LookupCache.Path) == "" {
		c.LookupCache.Path = defaultLookupCachePath()
	}
	var err error
	if c.LookupCache.Path, err = expandPath(c.LookupCache.Path); err != nil {
		return fmt.Errorf("lookup_cache.path: %w", err)
	}
	if c.LookupCache.TTLHours <= 0 {
		c.LookupCache.TTLHours = defaultLookupCacheTTLHours
	}
	return nil
}

func (c *Config) normalizeNotifications() {
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = value
		}
	}
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = defaultShutdownTimeout
	}
}

func (c *Config) normalizeLogging() error {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level

	if strings.TrimSpace(c.Logging.File) != "" {
		expanded, err := expandPath(c.Logging.File)
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = expanded
	}
	return nil
}
