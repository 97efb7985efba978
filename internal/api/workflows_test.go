package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"booktrack/internal/api"
	"booktrack/internal/catalog"
	"booktrack/internal/config"
	"booktrack/internal/events"
	"booktrack/internal/github"
	"booktrack/internal/metadata"
	"booktrack/internal/notifications"
	"booktrack/internal/reconcile"
	"booktrack/internal/testsupport"
)

func newTracker(t *testing.T, cfg *config.Config, resolver *testsupport.FakeResolver, notifier notifications.Service) *api.Tracker {
	t.Helper()
	clock := func() time.Time { return time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC) }
	engine := reconcile.NewEngine(resolver, reconcile.WithClock(clock))
	runner := reconcile.NewRunner(api.OpenStore(cfg, nil), engine, nil)
	return api.NewTracker(runner, notifier, nil)
}

func TestTrackerOpenedAddsEntryAndNotifies(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	resolver := testsupport.NewFakeResolver().AddMatch("Dune", metadata.Match{
		Provider: "google_books",
		ID:       "vol-1",
		Author:   "Frank Herbert",
		Image:    "https://img/dune.jpg",
	})
	notifier := &testsupport.RecordingNotifier{}
	tracker := newTracker(t, cfg, resolver, notifier)

	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	result, err := tracker.Track(context.Background(), events.Trigger{
		IssueKey: 7, Title: "Dune", Action: "opened", CreatedAt: created, Trackable: true,
	})
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if result.Ignored || result.Outcome.Kind != reconcile.OutcomeCreated {
		t.Fatalf("unexpected result: %+v", result)
	}

	entries := testsupport.ReadCatalog(t, cfg.Catalog.Path)
	if len(entries) != 1 || entries[0].IssueNumber != 7 || entries[0].StartDate != "2024-05-01" {
		t.Fatalf("unexpected catalog: %+v", entries)
	}

	published := notifier.Events()
	if len(published) != 1 || published[0].Event != notifications.EventBookAdded {
		t.Fatalf("unexpected notifications: %+v", published)
	}
	if published[0].Payload[notifications.KeyIssue] != "7" {
		t.Fatalf("payload missing issue: %+v", published[0].Payload)
	}

	view := result.View()
	if view.Outcome != "created" || !view.Changed || view.Entry == nil || view.Entry.SourceID != "vol-1" {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestTrackerIgnoresUnknownAction(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	resolver := testsupport.NewFakeResolver()
	notifier := &testsupport.RecordingNotifier{}
	tracker := newTracker(t, cfg, resolver, notifier)

	result, err := tracker.Track(context.Background(), events.Trigger{
		IssueKey: 3, Title: "Dune", Action: "reopened", Trackable: true,
	})
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if !result.Ignored {
		t.Fatalf("expected ignored result, got %+v", result)
	}
	if len(resolver.Calls()) != 0 || len(notifier.Events()) != 0 {
		t.Fatalf("ignored trigger should not resolve or notify")
	}
	if _, err := os.Stat(cfg.Catalog.Path); !os.IsNotExist(err) {
		t.Fatalf("catalog should not be written, stat err = %v", err)
	}
	if view := result.View(); view.Outcome != "ignored" || view.Issue != 3 {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestTrackerIgnoresPullRequests(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	resolver := testsupport.NewFakeResolver()
	tracker := newTracker(t, cfg, resolver, nil)

	result, err := tracker.Track(context.Background(), events.Trigger{IssueKey: 4, Title: "PR", Action: "opened"})
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if !result.Ignored || len(resolver.Calls()) != 0 {
		t.Fatalf("expected pull request to be skipped, got %+v", result)
	}
}

func TestTrackerNotificationFailureIsNotReturned(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteCatalog(t, cfg.Catalog.Path, catalog.Entry{
		Title: "Dune", Author: "Frank Herbert", Status: catalog.StatusReading, StartDate: "2024-05-01", IssueNumber: 7,
	})
	notifier := &testsupport.RecordingNotifier{Err: errors.New("ntfy down")}
	tracker := newTracker(t, cfg, testsupport.NewFakeResolver(), notifier)

	closed := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	result, err := tracker.Track(context.Background(), events.Trigger{
		IssueKey: 7, Title: "Dune", Action: "closed", ClosedAt: &closed, Trackable: true,
	})
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if result.Outcome.Kind != reconcile.OutcomeCompleted {
		t.Fatalf("expected completed, got %s", result.Outcome.Kind)
	}
	entries := testsupport.ReadCatalog(t, cfg.Catalog.Path)
	if entries[0].EndDateValue() != "2024-06-01" {
		t.Fatalf("end date = %q", entries[0].EndDateValue())
	}
}

func TestLoadTriggerFromEventFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.json")
	payload := `{"action":"closed","issue":{"number":12,"title":"Hyperion","state":"closed",
		"created_at":"2024-01-02T03:04:05Z","closed_at":"2024-02-03T04:05:06Z"},
		"repository":{"full_name":"reader/shelf"}}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write event: %v", err)
	}

	trigger, err := api.LoadTrigger(context.Background(), api.TriggerRequest{EventPath: path})
	if err != nil {
		t.Fatalf("LoadTrigger: %v", err)
	}
	if trigger.IssueKey != 12 || trigger.Action != "closed" || !trigger.Closed() || !trigger.Trackable {
		t.Fatalf("unexpected trigger: %+v", trigger)
	}
}

func TestLoadTriggerMissingIssue(t *testing.T) {
	_, err := api.LoadTrigger(context.Background(), api.TriggerRequest{Action: "opened"})
	if !errors.Is(err, api.ErrNoIssue) {
		t.Fatalf("expected ErrNoIssue, got %v", err)
	}
}

func TestLoadTriggerDeletedSkipsFetch(t *testing.T) {
	trigger, err := api.LoadTrigger(context.Background(), api.TriggerRequest{Issue: "9", Action: "deleted"})
	if err != nil {
		t.Fatalf("LoadTrigger: %v", err)
	}
	if trigger.IssueKey != 9 || trigger.Action != "deleted" {
		t.Fatalf("unexpected trigger: %+v", trigger)
	}
}

func TestLoadTriggerFetchesIssue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/reader/shelf/issues/5" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"number":5,"title":"Piranesi","state":"open","created_at":"2024-03-01T00:00:00Z","closed_at":null}`))
	}))
	t.Cleanup(server.Close)

	client, err := github.New("token", server.URL, "reader", "shelf")
	if err != nil {
		t.Fatalf("github.New: %v", err)
	}
	trigger, err := api.LoadTrigger(context.Background(), api.TriggerRequest{Issue: "5", Action: "opened", Client: client})
	if err != nil {
		t.Fatalf("LoadTrigger: %v", err)
	}
	if trigger.Title != "Piranesi" || trigger.Action != "opened" || trigger.Closed() {
		t.Fatalf("unexpected trigger: %+v", trigger)
	}
}

func TestLoadTriggerRejectsBadNumber(t *testing.T) {
	if _, err := api.LoadTrigger(context.Background(), api.TriggerRequest{Issue: "abc", Action: "opened"}); err == nil {
		t.Fatal("expected error for non-numeric issue")
	}
}

func TestResolveTitleWithOpenLibrary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"numFound":1,"docs":[{"key":"/works/OL9W","title":"Kindred","author_name":["Octavia E. Butler"],"cover_i":42}]}`))
	}))
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t, testsupport.WithProvider(config.ProviderOpenLibrary, server.URL))
	view, err := api.ResolveTitle(context.Background(), api.ResolveRequest{Config: cfg, Title: "Kindred"})
	if err != nil {
		t.Fatalf("ResolveTitle: %v", err)
	}
	if !view.Found || view.Provider != "open_library" || view.ID != "OL9W" || view.Author != "Octavia E. Butler" {
		t.Fatalf("unexpected match: %+v", view)
	}
	if !strings.HasPrefix(view.Image, "https://covers.openlibrary.org/") {
		t.Fatalf("unexpected image %q", view.Image)
	}
}

func TestOpenProviderRejectsUnknownProvider(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Metadata.Provider = "goodreads"
	if _, _, err := api.OpenProvider(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected unsupported provider error")
	}
}

func TestOpenProviderWrapsLookupCache(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithLookupCache())
	provider, closer, err := api.OpenProvider(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("OpenProvider: %v", err)
	}
	t.Cleanup(func() { _ = closer() })
	if provider.Name() != "google_books" {
		t.Fatalf("provider name = %q", provider.Name())
	}
	if _, err := os.Stat(cfg.LookupCache.Path); err != nil {
		t.Fatalf("expected cache database, stat err = %v", err)
	}
}

func TestOpenLookupCacheDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if _, err := api.OpenLookupCache(context.Background(), cfg, nil); !errors.Is(err, api.ErrLookupCacheDisabled) {
		t.Fatalf("expected ErrLookupCacheDisabled, got %v", err)
	}
}

func TestOpenLookupCacheCountsEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithLookupCache())
	cache, err := api.OpenLookupCache(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("OpenLookupCache: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	count, err := cache.Count(context.Background())
	if err != nil || count != 0 {
		t.Fatalf("Count = %d, %v", count, err)
	}
}

func TestListCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteCatalog(t, cfg.Catalog.Path,
		catalog.Entry{Title: "Old", Author: "A", Status: catalog.StatusCompleted, StartDate: "2023-01-01", EndDate: testsupport.EndDate("2023-02-01")},
		catalog.Entry{Title: "New", Author: "B", Status: catalog.StatusReading, StartDate: "2024-01-01", IssueNumber: 2, OpenLibraryID: "OL1W"},
	)
	views, err := api.ListCatalog(cfg, nil)
	if err != nil {
		t.Fatalf("ListCatalog: %v", err)
	}
	if len(views) != 2 || views[0].EndDate != "2023-02-01" || views[1].Source != "open_library" {
		t.Fatalf("unexpected views: %+v", views)
	}
}
