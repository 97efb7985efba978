package testsupport

import (
	"context"
	"errors"
	"sync"

	"booktrack/internal/metadata"
	"booktrack/internal/services"
	"booktrack/internal/textutil"
)

// ErrFakeProvider is returned by FakeResolver for titles registered as faults.
var ErrFakeProvider = errors.New("fake provider unavailable")

// FakeResolver answers Resolve from an in-memory table keyed by folded title.
// Unknown titles are misses.
type FakeResolver struct {
	mu      sync.Mutex
	matches map[string]metadata.Match
	faults  map[string]bool
	calls   []string
}

// NewFakeResolver returns an empty fake.
func NewFakeResolver() *FakeResolver {
	return &FakeResolver{
		matches: make(map[string]metadata.Match),
		faults:  make(map[string]bool),
	}
}

// AddMatch registers a match for title.
func (f *FakeResolver) AddMatch(title string, match metadata.Match) *FakeResolver {
	f.mu.Lock()
	defer f.mu.Unlock()
	if match.Title == "" {
		match.Title = title
	}
	f.matches[textutil.FoldTitle(title)] = match
	return f
}

// AddFault makes lookups for title fail.
func (f *FakeResolver) AddFault(title string) *FakeResolver {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults[textutil.FoldTitle(title)] = true
	return f
}

// Resolve implements the engine's resolver contract.
func (f *FakeResolver) Resolve(_ context.Context, title string) (metadata.Match, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, title)
	key := textutil.FoldTitle(title)
	if f.faults[key] {
		return metadata.Match{}, false, services.Wrap(services.ErrExternal, "metadata", "fake", "search failed", ErrFakeProvider)
	}
	match, ok := f.matches[key]
	return match, ok, nil
}

// Calls returns the titles resolved so far.
func (f *FakeResolver) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}
