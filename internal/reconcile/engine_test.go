package reconcile_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"booktrack/internal/catalog"
	"booktrack/internal/events"
	"booktrack/internal/metadata"
	"booktrack/internal/reconcile"
	"booktrack/internal/services"
	"booktrack/internal/testsupport"
)

var (
	openedAt = time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	closedAt = time.Date(2024, 2, 10, 21, 30, 0, 0, time.UTC)
	today    = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
)

func newEngine(resolver reconcile.Resolver) *reconcile.Engine {
	return reconcile.NewEngine(resolver, reconcile.WithClock(func() time.Time { return today }))
}

func duneResolver() *testsupport.FakeResolver {
	return testsupport.NewFakeResolver().AddMatch("Dune", metadata.Match{
		Provider: "google_books",
		ID:       "B1",
		Title:    "Dune",
		Author:   "Frank Herbert",
		Image:    "https://books.example/dune.jpg",
		ISBN:     "9780441013593",
	})
}

func TestScenarioOpenedWithMatch(t *testing.T) {
	coll := catalog.NewCollection()
	outcome := newEngine(duneResolver()).Apply(context.Background(), coll, events.Opened(7, "Dune", openedAt), reconcile.ModeSingle)

	if outcome.Kind != reconcile.OutcomeCreated || !outcome.Changed() {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if coll.Len() != 1 {
		t.Fatalf("expected one entry, got %d", coll.Len())
	}
	entry := coll.At(0)
	if entry.Title != "Dune" || entry.Author != "Frank Herbert" || entry.Status != catalog.StatusReading {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.EndDate != nil || entry.IssueNumber != 7 || entry.StartDate != "2024-01-05" {
		t.Fatalf("unexpected lifecycle fields %+v", entry)
	}
	if entry.GoogleBooksID != "B1" || entry.ISBN != "9780441013593" || entry.NotFound {
		t.Fatalf("enrichment missing %+v", entry)
	}
}

func TestScenarioOpenedMissInBackfillStoresPlaceholder(t *testing.T) {
	coll := catalog.NewCollection()
	title := "Zzzxyq Nonexistent Book"
	outcome := newEngine(testsupport.NewFakeResolver()).Apply(context.Background(), coll, events.Opened(8, title, openedAt), reconcile.ModeBackfill)

	if outcome.Kind != reconcile.OutcomePlaceholder {
		t.Fatalf("expected placeholder, got %s", outcome.Kind)
	}
	entry := coll.At(0)
	if entry.Title != title || entry.Author != "Unknown" || !entry.NotFound || entry.Status != catalog.StatusReading {
		t.Fatalf("unexpected placeholder %+v", entry)
	}
	if entry.Image != "" || entry.ISBN != "" || entry.GoogleBooksID != "" {
		t.Fatalf("placeholder must not carry enrichment %+v", entry)
	}
}

func TestOpenedMissInSingleModeStoresNothing(t *testing.T) {
	coll := catalog.NewCollection()
	outcome := newEngine(testsupport.NewFakeResolver()).Apply(context.Background(), coll, events.Opened(8, "Unknown Title", openedAt), reconcile.ModeSingle)

	if outcome.Kind != reconcile.OutcomeResolutionMiss || outcome.Changed() {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if coll.Len() != 0 {
		t.Fatalf("single-mode miss must not insert, got %d entries", coll.Len())
	}
	if outcome.Entry.Title != "Unknown Title" {
		t.Fatalf("outcome should carry the title for reporting, got %+v", outcome.Entry)
	}
}

func TestOpenedFaultIsModeDependent(t *testing.T) {
	resolver := testsupport.NewFakeResolver().AddFault("Dune")

	single := catalog.NewCollection()
	outcome := newEngine(resolver).Apply(context.Background(), single, events.Opened(7, "Dune", openedAt), reconcile.ModeSingle)
	if outcome.Kind != reconcile.OutcomeResolutionFault || single.Len() != 0 {
		t.Fatalf("single fault: %+v len=%d", outcome, single.Len())
	}
	if !errors.Is(outcome.Err, services.ErrExternal) {
		t.Fatalf("expected external error, got %v", outcome.Err)
	}

	backfill := catalog.NewCollection()
	outcome = newEngine(resolver).Apply(context.Background(), backfill, events.Opened(7, "Dune", openedAt), reconcile.ModeBackfill)
	if outcome.Kind != reconcile.OutcomePlaceholder || backfill.Len() != 1 || !backfill.At(0).NotFound {
		t.Fatalf("backfill fault: %+v entries=%+v", outcome, backfill.Entries())
	}
	if outcome.Err == nil {
		t.Fatal("placeholder after fault should keep the error")
	}
}

func TestOpenedWithoutTimeUsesClock(t *testing.T) {
	coll := catalog.NewCollection()
	newEngine(duneResolver()).Apply(context.Background(), coll, events.Opened(7, "Dune", time.Time{}), reconcile.ModeSingle)
	if coll.At(0).StartDate != "2024-03-01" {
		t.Fatalf("expected clock date, got %q", coll.At(0).StartDate)
	}
}

func TestScenarioClosedByKey(t *testing.T) {
	coll := catalog.NewCollection()
	engine := newEngine(duneResolver())
	engine.Apply(context.Background(), coll, events.Opened(7, "Dune", openedAt), reconcile.ModeSingle)

	outcome := engine.Apply(context.Background(), coll, events.Closed(7, "Dune", closedAt), reconcile.ModeSingle)
	if outcome.Kind != reconcile.OutcomeCompleted || outcome.MatchedBy != reconcile.MatchedByIssue {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	entry := coll.At(0)
	if entry.Status != catalog.StatusCompleted || entry.EndDateValue() != "2024-02-10" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestClosedWithoutTimeUsesToday(t *testing.T) {
	coll := catalog.NewCollection(catalog.Entry{Title: "Dune", Status: catalog.StatusReading, IssueNumber: 7})
	newEngine(nil).Apply(context.Background(), coll, events.Closed(7, "Dune", time.Time{}), reconcile.ModeSingle)
	if coll.At(0).EndDateValue() != "2024-03-01" {
		t.Fatalf("expected today, got %q", coll.At(0).EndDateValue())
	}
}

func TestClosedFallsBackToLegacyTitle(t *testing.T) {
	coll := catalog.NewCollection(
		catalog.Entry{Title: "The Hobbit", Author: "J.R.R. Tolkien", Status: catalog.StatusReading, StartDate: "2021-05-01"},
	)
	outcome := newEngine(nil).Apply(context.Background(), coll, events.Closed(31, "the hobbit", closedAt), reconcile.ModeSingle)
	if outcome.Kind != reconcile.OutcomeCompleted || outcome.MatchedBy != reconcile.MatchedByTitle {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if !coll.At(0).Completed() {
		t.Fatal("legacy entry should be completed")
	}
	if coll.At(0).IssueNumber != 0 {
		t.Fatal("title fallback must not assign an issue number")
	}
}

func TestClosedPrefersKeyOverTitle(t *testing.T) {
	coll := catalog.NewCollection(
		catalog.Entry{Title: "Dune", Status: catalog.StatusReading},
		catalog.Entry{Title: "Dune", Status: catalog.StatusReading, IssueNumber: 7},
	)
	newEngine(nil).Apply(context.Background(), coll, events.Closed(7, "Dune", closedAt), reconcile.ModeSingle)
	if coll.At(0).Completed() || !coll.At(1).Completed() {
		t.Fatalf("expected keyed entry to complete: %+v", coll.Entries())
	}
}

func TestScenarioClosedMissing(t *testing.T) {
	coll := catalog.NewCollection(catalog.Entry{Title: "Dune", Status: catalog.StatusReading, IssueNumber: 7})
	before := coll.Entries()
	outcome := newEngine(nil).Apply(context.Background(), coll, events.Closed(99, "Neuromancer", closedAt), reconcile.ModeSingle)
	if outcome.Kind != reconcile.OutcomeEntryMissing || outcome.Changed() {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if coll.Len() != 1 || coll.At(0) != before[0] {
		t.Fatalf("collection changed: %+v", coll.Entries())
	}
}

func TestClosedDoesNotReopenAndKeepsCompleted(t *testing.T) {
	end := "2023-12-31"
	coll := catalog.NewCollection(catalog.Entry{Title: "Dune", Status: catalog.StatusCompleted, EndDate: &end, IssueNumber: 7})
	engine := newEngine(duneResolver())

	engine.Apply(context.Background(), coll, events.Closed(7, "Dune", closedAt), reconcile.ModeSingle)
	if !coll.At(0).Completed() || coll.At(0).EndDateValue() != "2024-02-10" {
		t.Fatalf("expected end date overwrite with completed status, got %+v", coll.At(0))
	}
	if _, ok := events.Normalize(events.Trigger{IssueKey: 7, Title: "Dune", Action: "reopened"}); ok {
		t.Fatal("reopened must not produce an event")
	}
}

func TestScenarioDeleted(t *testing.T) {
	end := "2024-02-10"
	coll := catalog.NewCollection(
		catalog.Entry{Title: "Other", Status: catalog.StatusReading, IssueNumber: 3},
		catalog.Entry{Title: "Dune", Status: catalog.StatusCompleted, EndDate: &end, IssueNumber: 7},
	)
	outcome := newEngine(nil).Apply(context.Background(), coll, events.Deleted(7), reconcile.ModeSingle)
	if outcome.Kind != reconcile.OutcomeRemoved || outcome.Entry.Title != "Dune" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if coll.Len() != 1 || coll.At(0).Title != "Other" {
		t.Fatalf("unexpected remaining entries %+v", coll.Entries())
	}
}

func TestDeletedNeverMatchesByTitle(t *testing.T) {
	coll := catalog.NewCollection(catalog.Entry{Title: "Dune", Status: catalog.StatusReading})
	ev := events.Event{Kind: events.KindDeleted, IssueKey: 7, Title: "Dune"}
	outcome := newEngine(nil).Apply(context.Background(), coll, ev, reconcile.ModeSingle)
	if outcome.Kind != reconcile.OutcomeNothingToDelete || coll.Len() != 1 {
		t.Fatalf("legacy entry must survive a keyed delete: %+v", outcome)
	}
}

// Repeated opened deliveries for one issue insert twice; the engine does not
// deduplicate them. Closed and deleted never create duplicates.
func TestDuplicateOpenedInsertsTwice(t *testing.T) {
	coll := catalog.NewCollection()
	engine := newEngine(duneResolver())
	engine.Apply(context.Background(), coll, events.Opened(7, "Dune", openedAt), reconcile.ModeSingle)
	engine.Apply(context.Background(), coll, events.Opened(7, "Dune", openedAt), reconcile.ModeSingle)
	if coll.Len() != 2 {
		t.Fatalf("expected duplicate insert, got %d entries", coll.Len())
	}

	engine.Apply(context.Background(), coll, events.Closed(7, "Dune", closedAt), reconcile.ModeSingle)
	engine.Apply(context.Background(), coll, events.Deleted(7), reconcile.ModeSingle)
	if coll.Len() != 1 {
		t.Fatalf("delete should remove one entry, got %d", coll.Len())
	}
}

func TestKeysStayUniqueWithoutDuplicateOpened(t *testing.T) {
	resolver := duneResolver().
		AddMatch("Neuromancer", metadata.Match{Author: "William Gibson"}).
		AddMatch("Emma", metadata.Match{Author: "Jane Austen"})
	engine := newEngine(resolver)
	coll := catalog.NewCollection()
	sequence := []events.Event{
		events.Opened(1, "Dune", openedAt),
		events.Opened(2, "Neuromancer", openedAt),
		events.Closed(1, "Dune", closedAt),
		events.Closed(1, "Dune", closedAt),
		events.Deleted(2),
		events.Deleted(2),
		events.Opened(3, "Emma", openedAt),
		events.Closed(3, "Emma", closedAt),
		events.Closed(9, "Nothing", closedAt),
	}
	for _, ev := range sequence {
		engine.Apply(context.Background(), coll, ev, reconcile.ModeSingle)
	}
	seen := map[int]bool{}
	for _, entry := range coll.Entries() {
		if seen[entry.IssueNumber] {
			t.Fatalf("duplicate key %d in %+v", entry.IssueNumber, coll.Entries())
		}
		seen[entry.IssueNumber] = true
		if entry.Completed() != (entry.EndDate != nil) {
			t.Fatalf("status/end_date mismatch in %+v", entry)
		}
	}
	if coll.Len() != 2 {
		t.Fatalf("expected two entries, got %d", coll.Len())
	}
}

func TestEntryFromMatchOpenLibraryID(t *testing.T) {
	entry := reconcile.EntryFromMatch(metadata.Match{Provider: "open_library", ID: "OL1W", Title: "The Hobbit"}, 4, "2024-01-01")
	if entry.OpenLibraryID != "OL1W" || entry.GoogleBooksID != "" {
		t.Fatalf("unexpected ids %+v", entry)
	}
	if entry.Author != catalog.UnknownAuthor {
		t.Fatalf("expected Unknown author, got %q", entry.Author)
	}
}
