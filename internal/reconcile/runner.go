package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"booktrack/internal/catalog"
	"booktrack/internal/events"
	"booktrack/internal/logging"
)

// Runner applies single events against a catalog store, one at a time.
type Runner struct {
	store  *catalog.Store
	engine *Engine
	logger *slog.Logger
	mu     sync.Mutex
}

// NewRunner wires an engine to a store.
func NewRunner(store *catalog.Store, engine *Engine, logger *slog.Logger) *Runner {
	return &Runner{
		store:  store,
		engine: engine,
		logger: logging.NewComponentLogger(logger, "runner"),
	}
}

// Handle locks the catalog, loads it, applies ev in ModeSingle, and saves when
// the collection changed. Only lock, load, and save failures are returned.
func (r *Runner) Handle(ctx context.Context, ev events.Event) (Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	unlock, err := r.store.Lock(ctx)
	if err != nil {
		return Outcome{}, err
	}
	defer func() {
		if err := unlock(); err != nil {
			r.logger.Warn("failed to release catalog lock", logging.Error(err))
		}
	}()

	coll, err := r.store.Load()
	if err != nil {
		return Outcome{}, err
	}

	outcome := r.engine.Apply(ctx, coll, ev, ModeSingle)
	if !outcome.Changed() {
		return outcome, nil
	}
	if err := r.store.Save(coll); err != nil {
		return outcome, fmt.Errorf("persist %s: %w", ev.Kind, err)
	}
	return outcome, nil
}
