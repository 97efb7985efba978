package api

import (
	"booktrack/internal/backfill"
	"booktrack/internal/catalog"
	"booktrack/internal/config"
	"booktrack/internal/metadata"
	"booktrack/internal/reconcile"
)

// FromEntry converts a catalog entry into its transport form.
func FromEntry(entry catalog.Entry) EntryView {
	view := EntryView{
		IssueNumber:   entry.IssueNumber,
		Title:         entry.Title,
		Author:        entry.Author,
		Status:        string(entry.Status),
		StartDate:     entry.StartDate,
		EndDate:       entry.EndDateValue(),
		Image:         entry.Image,
		NotFound:      entry.NotFound,
		ISBN:          entry.ISBN,
		PublishedDate: entry.PublishedDate,
		PageCount:     entry.PageCount,
	}
	switch {
	case entry.GoogleBooksID != "":
		view.Source = config.ProviderGoogleBooks
		view.SourceID = entry.GoogleBooksID
	case entry.OpenLibraryID != "":
		view.Source = config.ProviderOpenLibrary
		view.SourceID = entry.OpenLibraryID
	}
	return view
}

// FromEntries converts entries preserving order.
func FromEntries(entries []catalog.Entry) []EntryView {
	views := make([]EntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, FromEntry(entry))
	}
	return views
}

// FromOutcome converts an engine outcome. Entries are attached only when the
// outcome touched the catalog.
func FromOutcome(outcome reconcile.Outcome) OutcomeView {
	view := OutcomeView{
		Outcome:   string(outcome.Kind),
		Event:     string(outcome.Event.Kind),
		Issue:     outcome.Event.IssueKey,
		Title:     outcome.Event.Title,
		Changed:   outcome.Changed(),
		MatchedBy: outcome.MatchedBy,
	}
	if view.Title == "" {
		view.Title = outcome.Entry.Title
	}
	if outcome.Err != nil {
		view.Error = outcome.Err.Error()
	}
	if view.Changed {
		entry := FromEntry(outcome.Entry)
		view.Entry = &entry
	}
	return view
}

// FromSummary converts a backfill summary.
func FromSummary(issues int, summary backfill.Summary) BackfillView {
	return BackfillView{
		Issues:       issues,
		Added:        summary.Added,
		Placeholders: summary.Placeholders,
		Completed:    summary.Completed,
		Skipped:      summary.Skipped,
		Ignored:      summary.Ignored,
	}
}

// FromMatch converts a resolver result.
func FromMatch(provider string, match metadata.Match, found bool) MatchView {
	if !found {
		return MatchView{Provider: provider}
	}
	return MatchView{
		Provider:      provider,
		Found:         true,
		ID:            match.ID,
		Title:         match.Title,
		Author:        match.Author,
		Image:         match.Image,
		ISBN:          match.ISBN,
		PublishedDate: match.PublishedDate,
		PageCount:     match.PageCount,
	}
}
