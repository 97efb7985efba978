package github

import (
	"encoding/json"
	"time"

	"booktrack/internal/events"
)

// Issue is the subset of the REST issue object booktrack reads.
type Issue struct {
	Number      int             `json:"number"`
	Title       string          `json:"title"`
	State       string          `json:"state"`
	CreatedAt   time.Time       `json:"created_at"`
	ClosedAt    *time.Time      `json:"closed_at"`
	PullRequest json.RawMessage `json:"pull_request,omitempty"`
}

// IsPullRequest reports whether the issues API returned a pull request.
func (i Issue) IsPullRequest() bool {
	return len(i.PullRequest) > 0 && string(i.PullRequest) != "null"
}

// Trigger converts the issue into a normalizer input for action.
func (i Issue) Trigger(action string) events.Trigger {
	return events.Trigger{
		IssueKey:  i.Number,
		Title:     i.Title,
		Action:    action,
		CreatedAt: i.CreatedAt,
		ClosedAt:  i.ClosedAt,
		Trackable: !i.IsPullRequest(),
	}
}

// HistoryTriggers maps a full listing to backfill triggers, oldest issue
// first.
func HistoryTriggers(issues []Issue) []events.Trigger {
	triggers := make([]events.Trigger, 0, len(issues))
	for i := len(issues) - 1; i >= 0; i-- {
		triggers = append(triggers, issues[i].Trigger(string(events.KindOpened)))
	}
	return triggers
}
