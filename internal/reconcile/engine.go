package reconcile

import (
	"context"
	"log/slog"
	"time"

	"booktrack/internal/catalog"
	"booktrack/internal/events"
	"booktrack/internal/logging"
	"booktrack/internal/metadata"
	"booktrack/internal/metadata/googlebooks"
	"booktrack/internal/metadata/openlibrary"
	"booktrack/internal/services"
)

// Mode selects how resolution misses and faults are handled.
type Mode int

const (
	// ModeSingle reports misses and faults without storing anything.
	ModeSingle Mode = iota
	// ModeBackfill stores a not_found placeholder and continues.
	ModeBackfill
)

func (m Mode) String() string {
	if m == ModeBackfill {
		return "backfill"
	}
	return "single"
}

// Resolver looks up metadata for a title.
type Resolver interface {
	Resolve(ctx context.Context, title string) (metadata.Match, bool, error)
}

// Engine applies events to a collection.
type Engine struct {
	resolver Resolver
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used when an event carries no time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine returns an engine that resolves opened titles through resolver.
func NewEngine(resolver Resolver, opts ...Option) *Engine {
	e := &Engine{resolver: resolver, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "reconcile")
	return e
}

// Apply applies ev to coll and reports the outcome.
func (e *Engine) Apply(ctx context.Context, coll *catalog.Collection, ev events.Event, mode Mode) Outcome {
	logger := logging.WithContext(ctx, e.logger).With(
		logging.String("event", string(ev.Kind)),
		logging.Issue(ev.IssueKey),
		logging.String("mode", mode.String()),
	)

	var outcome Outcome
	switch ev.Kind {
	case events.KindOpened:
		outcome = e.applyOpened(ctx, coll, ev, mode)
	case events.KindClosed:
		outcome = e.applyClosed(coll, ev)
	case events.KindDeleted:
		outcome = e.applyDeleted(coll, ev)
	default:
		outcome = Outcome{Kind: OutcomeIgnored, Event: ev}
		logger.Debug("ignoring unknown event kind")
		return outcome
	}

	e.logOutcome(logger, outcome)
	return outcome
}

func (e *Engine) eventDate(ev events.Event) string {
	at := ev.At
	if at.IsZero() {
		at = e.now()
	}
	return catalog.FormatDate(at.UTC())
}

func (e *Engine) applyOpened(ctx context.Context, coll *catalog.Collection, ev events.Event, mode Mode) Outcome {
	match, found, err := e.resolve(ctx, ev.Title)
	start := e.eventDate(ev)

	if err != nil || !found {
		if mode == ModeSingle {
			kind := OutcomeResolutionMiss
			if err != nil {
				kind = OutcomeResolutionFault
			}
			return Outcome{Kind: kind, Event: ev, Entry: catalog.Entry{Title: ev.Title, IssueNumber: ev.IssueKey}, Err: err}
		}
		entry := catalog.Entry{
			Title:       ev.Title,
			Author:      catalog.UnknownAuthor,
			Image:       "",
			Status:      catalog.StatusReading,
			StartDate:   start,
			IssueNumber: ev.IssueKey,
			NotFound:    true,
		}
		coll.Insert(entry)
		return Outcome{Kind: OutcomePlaceholder, Event: ev, Entry: entry, Err: err}
	}

	entry := EntryFromMatch(match, ev.IssueKey, start)
	coll.Insert(entry)
	return Outcome{Kind: OutcomeCreated, Event: ev, Entry: entry}
}

func (e *Engine) resolve(ctx context.Context, title string) (metadata.Match, bool, error) {
	if e.resolver == nil {
		return metadata.Match{}, false, services.Wrap(services.ErrConfiguration, "reconcile", "resolve", "no resolver configured", nil)
	}
	return e.resolver.Resolve(ctx, title)
}

// EntryFromMatch builds a reading entry from a resolved match.
func EntryFromMatch(match metadata.Match, issueKey int, startDate string) catalog.Entry {
	entry := catalog.Entry{
		Title:         match.Title,
		Author:        match.Author,
		Image:         match.Image,
		Status:        catalog.StatusReading,
		StartDate:     startDate,
		IssueNumber:   issueKey,
		ISBN:          match.ISBN,
		PublishedDate: match.PublishedDate,
		Description:   match.Description,
		PageCount:     match.PageCount,
	}
	switch match.Provider {
	case googlebooks.ProviderName:
		entry.GoogleBooksID = match.ID
	case openlibrary.ProviderName:
		entry.OpenLibraryID = match.ID
	}
	if entry.Author == "" {
		entry.Author = catalog.UnknownAuthor
	}
	return entry
}

func (e *Engine) applyClosed(coll *catalog.Collection, ev events.Event) Outcome {
	index, found := coll.FindByKey(ev.IssueKey)
	matchedBy := MatchedByIssue
	if !found {
		index, found = coll.FindByTitle(ev.Title)
		matchedBy = MatchedByTitle
	}
	if !found {
		return Outcome{Kind: OutcomeEntryMissing, Event: ev, Entry: catalog.Entry{Title: ev.Title, IssueNumber: ev.IssueKey}}
	}

	entry := coll.At(index)
	end := e.eventDate(ev)
	entry.Status = catalog.StatusCompleted
	entry.EndDate = &end
	coll.Replace(index, entry)
	return Outcome{Kind: OutcomeCompleted, Event: ev, Entry: entry, MatchedBy: matchedBy}
}

func (e *Engine) applyDeleted(coll *catalog.Collection, ev events.Event) Outcome {
	index, found := coll.FindByKey(ev.IssueKey)
	if !found {
		return Outcome{Kind: OutcomeNothingToDelete, Event: ev, Entry: catalog.Entry{IssueNumber: ev.IssueKey}}
	}
	removed := coll.Remove(index)
	return Outcome{Kind: OutcomeRemoved, Event: ev, Entry: removed}
}

func (e *Engine) logOutcome(logger *slog.Logger, outcome Outcome) {
	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "reconcile_"+string(outcome.Kind)),
		logging.Title(outcome.Entry.Title),
	}
	switch outcome.Kind {
	case OutcomeCreated:
		logger.Info("book added", logging.Args(append(attrs, logging.String("author", outcome.Entry.Author))...)...)
	case OutcomePlaceholder:
		if outcome.Err != nil {
			attrs = append(attrs, logging.Error(outcome.Err))
		}
		logging.WarnWithContext(logger, "book stored without metadata", "reconcile_placeholder",
			append(attrs,
				logging.String(logging.FieldErrorHint, "check the issue title or add details by hand"),
				logging.String(logging.FieldImpact, "entry has no author, cover, or ISBN"))...)
	case OutcomeCompleted:
		logger.Info("book completed", logging.Args(append(attrs, logging.String("matched_by", outcome.MatchedBy))...)...)
	case OutcomeRemoved:
		logger.Info("book removed", logging.Args(attrs...)...)
	case OutcomeResolutionMiss:
		logging.WarnWithContext(logger, "book not found by metadata provider", "reconcile_resolution_miss",
			append(attrs,
				logging.String(logging.FieldErrorHint, "check the spelling of the issue title"),
				logging.String(logging.FieldImpact, "book was not added to the catalog"))...)
	case OutcomeResolutionFault:
		logging.ErrorWithContext(logger, "metadata lookup failed", "reconcile_resolution_fault",
			append(attrs,
				logging.Error(outcome.Err),
				logging.String(logging.FieldErrorHint, services.ErrorHint(outcome.Err)),
				logging.String(logging.FieldImpact, "book was not added to the catalog"))...)
	case OutcomeEntryMissing:
		logging.WarnWithContext(logger, "book not found in tracking list", "reconcile_entry_missing",
			append(attrs,
				logging.String(logging.FieldErrorHint, "the issue may predate tracking or its title changed"),
				logging.String(logging.FieldImpact, "no entry was marked completed"))...)
	case OutcomeNothingToDelete:
		logger.Info("nothing to delete", logging.Args(attrs...)...)
	}
}
