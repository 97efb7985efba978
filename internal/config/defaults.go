package config

const (
	defaultCatalogPath         = "otaku-archive/books.json"
	defaultCatalogLockTimeout  = 30
	defaultGitHubBaseURL       = "https://api.github.com"
	defaultGitHubTimeout       = 15
	defaultMetadataProvider    = ProviderGoogleBooks
	defaultMetadataMaxResults  = 5
	defaultMetadataTimeout     = 10
	defaultGoogleBooksBaseURL  = "https://www.googleapis.com/books/v1"
	defaultOpenLibraryBaseURL  = "https://openlibrary.org"
	defaultLookupCacheTTLHours = 24 * 30
	defaultBackfillPacingMS    = 100
	defaultNotifyTimeout       = 10
	defaultServerBind          = "127.0.0.1:8787"
	defaultShutdownTimeout     = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Supported metadata providers.
const (
	ProviderGoogleBooks = "google_books"
	ProviderOpenLibrary = "open_library"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Catalog: Catalog{
			Path:        defaultCatalogPath,
			LockTimeout: defaultCatalogLockTimeout,
		},
		GitHub: GitHub{
			BaseURL:        defaultGitHubBaseURL,
			RequestTimeout: defaultGitHubTimeout,
		},
		Metadata: Metadata{
			Provider:           defaultMetadataProvider,
			MaxResults:         defaultMetadataMaxResults,
			RequestTimeout:     defaultMetadataTimeout,
			GoogleBooksBaseURL: defaultGoogleBooksBaseURL,
			OpenLibraryBaseURL: defaultOpenLibraryBaseURL,
		},
		LookupCache: LookupCache{
			Path:     defaultLookupCachePath(),
			TTLHours: defaultLookupCacheTTLHours,
		},
		Backfill: Backfill{
			PacingMillis: defaultBackfillPacingMS,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			IssueComments:  true,
		},
		Server: Server{
			Bind:            defaultServerBind,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
