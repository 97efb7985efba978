package testsupport

import (
	"context"
	"sync"

	"booktrack/internal/notifications"
)

// Published is one recorded notification.
type Published struct {
	Event   notifications.Event
	Payload notifications.Payload
}

// RecordingNotifier captures published notifications for assertions.
type RecordingNotifier struct {
	mu     sync.Mutex
	events []Published
	Err    error
}

// Publish records the notification and returns Err.
func (r *RecordingNotifier) Publish(_ context.Context, event notifications.Event, payload notifications.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Published{Event: event, Payload: payload})
	return r.Err
}

// Events returns a copy of what was published.
func (r *RecordingNotifier) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Published, len(r.events))
	copy(out, r.events)
	return out
}
