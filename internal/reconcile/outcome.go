package reconcile

import (
	"booktrack/internal/catalog"
	"booktrack/internal/events"
)

// OutcomeKind names the result of applying one event.
type OutcomeKind string

const (
	// OutcomeCreated means an enriched entry was inserted.
	OutcomeCreated OutcomeKind = "created"
	// OutcomePlaceholder means a not_found entry was inserted.
	OutcomePlaceholder OutcomeKind = "placeholder"
	// OutcomeCompleted means an entry moved to completed.
	OutcomeCompleted OutcomeKind = "completed"
	// OutcomeRemoved means an entry was deleted.
	OutcomeRemoved OutcomeKind = "removed"
	// OutcomeResolutionMiss means the provider had no candidates and nothing was stored.
	OutcomeResolutionMiss OutcomeKind = "resolution_miss"
	// OutcomeResolutionFault means the provider failed and nothing was stored.
	OutcomeResolutionFault OutcomeKind = "resolution_fault"
	// OutcomeEntryMissing means a closed event matched no entry.
	OutcomeEntryMissing OutcomeKind = "entry_missing"
	// OutcomeNothingToDelete means a deleted event matched no entry.
	OutcomeNothingToDelete OutcomeKind = "nothing_to_delete"
	// OutcomeIgnored means the event kind is not handled.
	OutcomeIgnored OutcomeKind = "ignored"
)

// Match strategies recorded on closed outcomes.
const (
	MatchedByIssue = "issue_number"
	MatchedByTitle = "title"
)

// Outcome describes what Apply did.
type Outcome struct {
	Kind  OutcomeKind
	Event events.Event
	// Entry is the inserted, updated, or removed entry. For misses it holds
	// only the event title.
	Entry catalog.Entry
	// MatchedBy is set on completed outcomes.
	MatchedBy string
	// Err carries the provider failure for resolution faults and for
	// placeholders inserted after one.
	Err error
}

// Changed reports whether the collection was mutated.
func (o Outcome) Changed() bool {
	switch o.Kind {
	case OutcomeCreated, OutcomePlaceholder, OutcomeCompleted, OutcomeRemoved:
		return true
	default:
		return false
	}
}
