package events

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the lifecycle transition an Event represents.
type Kind string

const (
	KindOpened  Kind = "opened"
	KindClosed  Kind = "closed"
	KindDeleted Kind = "deleted"
)

// Trigger is one notification from the event source.
type Trigger struct {
	IssueKey  int
	Title     string
	Action    string
	CreatedAt time.Time
	ClosedAt  *time.Time
	// Trackable is false for records that are not reading-list items, such as
	// pull requests returned by the issues listing.
	Trackable bool
}

// Closed reports whether the trigger's source is already in a terminal state.
func (t Trigger) Closed() bool {
	return t.ClosedAt != nil && !t.ClosedAt.IsZero()
}

// Event is a normalized lifecycle transition.
type Event struct {
	Kind     Kind
	IssueKey int
	Title    string
	// At is the moment the transition happened. Zero means "now" to the
	// engine.
	At time.Time
}

func (e Event) String() string {
	return fmt.Sprintf("%s #%d %q", e.Kind, e.IssueKey, e.Title)
}

// Normalize maps a trigger to an Event. Actions are matched case-sensitively;
// unknown actions yield false.
func Normalize(t Trigger) (Event, bool) {
	switch Kind(t.Action) {
	case KindOpened:
		return Opened(t.IssueKey, t.Title, t.CreatedAt), true
	case KindClosed:
		var at time.Time
		if t.ClosedAt != nil {
			at = *t.ClosedAt
		}
		return Closed(t.IssueKey, t.Title, at), true
	case KindDeleted:
		return Deleted(t.IssueKey), true
	default:
		return Event{}, false
	}
}

// Opened builds an opened event.
func Opened(key int, title string, at time.Time) Event {
	return Event{Kind: KindOpened, IssueKey: key, Title: strings.TrimSpace(title), At: at}
}

// Closed builds a closed event.
func Closed(key int, title string, at time.Time) Event {
	return Event{Kind: KindClosed, IssueKey: key, Title: strings.TrimSpace(title), At: at}
}

// Deleted builds a deleted event. Deletions are addressed by key only.
func Deleted(key int) Event {
	return Event{Kind: KindDeleted, IssueKey: key}
}

// ParseDate accepts RFC 3339 timestamps and bare YYYY-MM-DD dates.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	ts, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return ts, nil
}
