package notifications

import (
	"fmt"
	"strconv"
	"strings"

	"booktrack/internal/reconcile"
)

// Event enumerates notification types.
type Event string

const (
	EventBookAdded         Event = "book_added"
	EventBookPlaceholder   Event = "book_placeholder"
	EventBookNotFound      Event = "book_not_found"
	EventBookLookupFailed  Event = "book_lookup_failed"
	EventBookCompleted     Event = "book_completed"
	EventBookMissing       Event = "book_missing"
	EventBookRemoved       Event = "book_removed"
	EventNothingToDelete   Event = "nothing_to_delete"
	EventBackfillCompleted Event = "backfill_completed"
	EventTest              Event = "test"
)

// Payload carries the values a message is rendered from.
type Payload map[string]string

// Payload keys.
const (
	KeyTitle        = "title"
	KeyAuthor       = "author"
	KeyIssue        = "issue"
	KeyError        = "error"
	KeyAdded        = "added"
	KeySkipped      = "skipped"
	KeyCompleted    = "completed"
	KeyPlaceholders = "placeholders"
)

// Message is a rendered notification.
type Message struct {
	Title    string
	Body     string
	Tags     []string
	Priority string
}

// Issue returns the issue number the payload refers to, if any.
func (p Payload) Issue() (int, bool) {
	number, err := strconv.Atoi(strings.TrimSpace(p[KeyIssue]))
	if err != nil || number <= 0 {
		return 0, false
	}
	return number, true
}

// FromOutcome maps a reconcile outcome to the event and payload to publish.
// Ignored outcomes report false.
func FromOutcome(outcome reconcile.Outcome) (Event, Payload, bool) {
	payload := Payload{
		KeyTitle:  outcome.Entry.Title,
		KeyAuthor: outcome.Entry.Author,
	}
	if outcome.Event.IssueKey > 0 {
		payload[KeyIssue] = strconv.Itoa(outcome.Event.IssueKey)
	}
	if outcome.Err != nil {
		payload[KeyError] = outcome.Err.Error()
	}

	switch outcome.Kind {
	case reconcile.OutcomeCreated:
		return EventBookAdded, payload, true
	case reconcile.OutcomePlaceholder:
		return EventBookPlaceholder, payload, true
	case reconcile.OutcomeResolutionMiss:
		return EventBookNotFound, payload, true
	case reconcile.OutcomeResolutionFault:
		return EventBookLookupFailed, payload, true
	case reconcile.OutcomeCompleted:
		return EventBookCompleted, payload, true
	case reconcile.OutcomeEntryMissing:
		return EventBookMissing, payload, true
	case reconcile.OutcomeRemoved:
		return EventBookRemoved, payload, true
	case reconcile.OutcomeNothingToDelete:
		return EventNothingToDelete, payload, true
	default:
		return "", nil, false
	}
}

// Render formats event into a message. Unknown events report false.
func Render(event Event, payload Payload) (Message, bool) {
	title := strings.TrimSpace(payload[KeyTitle])
	author := strings.TrimSpace(payload[KeyAuthor])
	if author == "" {
		author = "Unknown"
	}

	switch event {
	case EventBookAdded:
		return Message{
			Title: "Booktrack - Book Added",
			Body:  fmt.Sprintf("✅ Book added: **%s** by %s", title, author),
			Tags:  []string{"booktrack", "book", "added"},
		}, true
	case EventBookPlaceholder:
		return Message{
			Title: "Booktrack - Book Added Without Metadata",
			Body:  fmt.Sprintf("📚 Book added without metadata: %s", title),
			Tags:  []string{"booktrack", "book", "placeholder"},
		}, true
	case EventBookNotFound:
		return Message{
			Title: "Booktrack - Book Not Found",
			Body:  fmt.Sprintf("❌ Book not found: %s", title),
			Tags:  []string{"booktrack", "book", "not_found"},
		}, true
	case EventBookLookupFailed:
		body := fmt.Sprintf("❌ Book lookup failed: %s", title)
		if reason := strings.TrimSpace(payload[KeyError]); reason != "" {
			body += "\n\n" + reason
		}
		return Message{
			Title:    "Booktrack - Lookup Failed",
			Body:     body,
			Tags:     []string{"booktrack", "error", "alert"},
			Priority: "high",
		}, true
	case EventBookCompleted:
		return Message{
			Title: "Booktrack - Book Completed",
			Body:  fmt.Sprintf("🎉 Book completed: **%s** by %s", title, author),
			Tags:  []string{"booktrack", "book", "completed"},
		}, true
	case EventBookMissing:
		return Message{
			Title: "Booktrack - Not Tracked",
			Body:  fmt.Sprintf("⚠️ Book not found in tracking list: %s", title),
			Tags:  []string{"booktrack", "book", "missing"},
		}, true
	case EventBookRemoved:
		return Message{
			Title: "Booktrack - Book Removed",
			Body:  fmt.Sprintf("🗑️ Book removed: **%s** by %s", title, author),
			Tags:  []string{"booktrack", "book", "removed"},
		}, true
	case EventNothingToDelete:
		return Message{
			Title:    "Booktrack - Nothing To Delete",
			Body:     fmt.Sprintf("ℹ️ Nothing to delete for issue #%s", payload[KeyIssue]),
			Tags:     []string{"booktrack", "book", "noop"},
			Priority: "low",
		}, true
	case EventBackfillCompleted:
		return Message{
			Title: "Booktrack - Backfill Complete",
			Body: fmt.Sprintf("📚 Backfill complete: %s added, %s skipped, %s completed, %s without metadata",
				orZero(payload[KeyAdded]), orZero(payload[KeySkipped]), orZero(payload[KeyCompleted]), orZero(payload[KeyPlaceholders])),
			Tags: []string{"booktrack", "backfill", "completed"},
		}, true
	case EventTest:
		return Message{
			Title:    "Booktrack - Test",
			Body:     "🧪 Notification system test",
			Tags:     []string{"booktrack", "test"},
			Priority: "low",
		}, true
	default:
		return Message{}, false
	}
}

func orZero(value string) string {
	if strings.TrimSpace(value) == "" {
		return "0"
	}
	return value
}

// commentable reports whether the event belongs on its issue thread. Removal
// events are not posted because the issue no longer exists.
func commentable(event Event) bool {
	switch event {
	case EventBookAdded, EventBookPlaceholder, EventBookNotFound, EventBookLookupFailed, EventBookCompleted, EventBookMissing:
		return true
	default:
		return false
	}
}
