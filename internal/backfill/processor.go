package backfill

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"booktrack/internal/catalog"
	"booktrack/internal/events"
	"booktrack/internal/logging"
	"booktrack/internal/reconcile"
)

// DefaultPacing is the delay between metadata lookups.
const DefaultPacing = 100 * time.Millisecond

// Summary counts what a replay did.
type Summary struct {
	Added        int `json:"added"`
	Skipped      int `json:"skipped"`
	Completed    int `json:"completed"`
	Placeholders int `json:"placeholders"`
	Ignored      int `json:"ignored"`
}

// Processor replays issue history through the reconcile engine.
type Processor struct {
	store  *catalog.Store
	engine *reconcile.Engine
	pacing time.Duration
	sleep  func(context.Context, time.Duration) error
	logger *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithPacing sets the delay after each metadata lookup. Zero disables it.
func WithPacing(d time.Duration) Option {
	return func(p *Processor) {
		if d >= 0 {
			p.pacing = d
		}
	}
}

// WithSleep replaces the pacing sleep, mainly for tests.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(p *Processor) {
		if sleep != nil {
			p.sleep = sleep
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// NewProcessor returns a processor writing to store.
func NewProcessor(store *catalog.Store, engine *reconcile.Engine, opts ...Option) *Processor {
	p := &Processor{
		store:  store,
		engine: engine,
		pacing: DefaultPacing,
		sleep:  SleepWithContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.NewComponentLogger(p.logger, "backfill")
	return p
}

// Run replays triggers in order. Nothing is written if the context is
// cancelled before the replay finishes.
func (p *Processor) Run(ctx context.Context, triggers []events.Trigger) (Summary, error) {
	var summary Summary

	unlock, err := p.store.Lock(ctx)
	if err != nil {
		return summary, err
	}
	defer func() {
		if err := unlock(); err != nil {
			p.logger.Warn("failed to release catalog lock", logging.Error(err))
		}
	}()

	coll, err := p.store.Load()
	if err != nil {
		return summary, err
	}

	p.logger.Info("backfill started",
		logging.String(logging.FieldEventType, "backfill_started"),
		logging.Int("triggers", len(triggers)),
		logging.Int("existing_entries", coll.Len()),
		logging.Duration("pacing", p.pacing))

	for _, trigger := range triggers {
		if !trigger.Trackable {
			summary.Ignored++
			continue
		}
		if _, exists := coll.FindByKey(trigger.IssueKey); exists {
			summary.Skipped++
			p.logger.Debug("issue already tracked", logging.Issue(trigger.IssueKey))
			continue
		}

		opened := p.engine.Apply(ctx, coll, events.Opened(trigger.IssueKey, trigger.Title, trigger.CreatedAt), reconcile.ModeBackfill)
		if opened.Changed() {
			summary.Added++
		}
		if opened.Kind == reconcile.OutcomePlaceholder {
			summary.Placeholders++
		}

		if trigger.Closed() {
			closed := p.engine.Apply(ctx, coll, events.Closed(trigger.IssueKey, trigger.Title, *trigger.ClosedAt), reconcile.ModeBackfill)
			if closed.Kind == reconcile.OutcomeCompleted {
				summary.Completed++
			}
		}

		if err := p.sleep(ctx, p.pacing); err != nil {
			return summary, fmt.Errorf("backfill interrupted: %w", err)
		}
	}

	coll.SortByIssueKey()
	if err := p.store.Save(coll); err != nil {
		return summary, err
	}

	p.logger.Info("backfill finished",
		logging.String(logging.FieldEventType, "backfill_completed"),
		logging.Int("added", summary.Added),
		logging.Int("skipped", summary.Skipped),
		logging.Int("completed", summary.Completed),
		logging.Int("placeholders", summary.Placeholders),
		logging.Int("ignored", summary.Ignored),
		logging.Int("total_entries", coll.Len()))
	return summary, nil
}

// SleepWithContext blocks for the given duration, returning early if the
// context is cancelled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
