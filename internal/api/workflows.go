package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"booktrack/internal/backfill"
	"booktrack/internal/config"
	"booktrack/internal/events"
	"booktrack/internal/github"
	"booktrack/internal/logging"
	"booktrack/internal/notifications"
	"booktrack/internal/reconcile"
	"booktrack/internal/services"
)

// EventHandler applies one normalized event to the catalog.
type EventHandler interface {
	Handle(ctx context.Context, ev events.Event) (reconcile.Outcome, error)
}

// TrackResult reports what a single trigger did.
type TrackResult struct {
	Event   events.Event
	Ignored bool
	Outcome reconcile.Outcome
}

// View converts the result for printing or a webhook response.
func (r TrackResult) View() OutcomeView {
	if r.Ignored {
		return OutcomeView{
			Outcome: string(reconcile.OutcomeIgnored),
			Event:   string(r.Event.Kind),
			Issue:   r.Event.IssueKey,
			Title:   r.Event.Title,
		}
	}
	return FromOutcome(r.Outcome)
}

// Tracker runs single triggers end to end: normalize, apply, notify.
type Tracker struct {
	handler  EventHandler
	notifier notifications.Service
	logger   *slog.Logger
}

// NewTracker wires a handler to a notifier. A nil notifier publishes nothing.
func NewTracker(handler EventHandler, notifier notifications.Service, logger *slog.Logger) *Tracker {
	return &Tracker{
		handler:  handler,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "tracker"),
	}
}

// Track normalizes the trigger and applies it. Unknown actions and
// untrackable records are ignored without touching the catalog. Notification
// failures are logged and never returned.
func (t *Tracker) Track(ctx context.Context, trigger events.Trigger) (TrackResult, error) {
	logger := logging.WithContext(ctx, t.logger)
	if !trigger.Trackable {
		logger.Info("record is not a reading-list issue; skipping",
			logging.Issue(trigger.IssueKey))
		return TrackResult{Event: events.Event{IssueKey: trigger.IssueKey, Title: trigger.Title}, Ignored: true}, nil
	}
	ev, ok := events.Normalize(trigger)
	if !ok {
		logger.Info("action not tracked; skipping",
			logging.String(logging.FieldAction, trigger.Action),
			logging.Issue(trigger.IssueKey))
		return TrackResult{Event: events.Event{IssueKey: trigger.IssueKey, Title: trigger.Title}, Ignored: true}, nil
	}

	outcome, err := t.handler.Handle(ctx, ev)
	if err != nil {
		return TrackResult{Event: ev}, err
	}
	t.publish(ctx, outcome)
	return TrackResult{Event: ev, Outcome: outcome}, nil
}

func (t *Tracker) publish(ctx context.Context, outcome reconcile.Outcome) {
	if t.notifier == nil {
		return
	}
	event, payload, ok := notifications.FromOutcome(outcome)
	if !ok {
		return
	}
	if err := t.notifier.Publish(ctx, event, payload); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, t.logger), "notification failed", "notification_failed",
			logging.String("event", string(event)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "catalog updated without notice"),
		)
	}
}

// TriggerRequest carries the CLI inputs for a single run.
type TriggerRequest struct {
	// EventPath is the Actions payload file. When set it wins over Issue.
	EventPath string
	Issue     string
	Action    string
	Client    *github.Client
}

// ErrNoIssue is returned when no issue number was supplied.
var ErrNoIssue = errors.New("no issue number supplied")

// LoadTrigger resolves the trigger for a single run. Deleted issues cannot be
// fetched, so their trigger carries only the number.
func LoadTrigger(ctx context.Context, req TriggerRequest) (events.Trigger, error) {
	if path := strings.TrimSpace(req.EventPath); path != "" {
		payload, err := github.ReadEventFile(path)
		if err != nil {
			return events.Trigger{}, err
		}
		action := payload.Action
		if strings.TrimSpace(req.Action) != "" {
			action = strings.TrimSpace(req.Action)
		}
		return payload.Issue.Trigger(action), nil
	}

	raw := strings.TrimSpace(req.Issue)
	if raw == "" {
		return events.Trigger{}, ErrNoIssue
	}
	number, err := strconv.Atoi(raw)
	if err != nil || number <= 0 {
		return events.Trigger{}, services.Wrap(services.ErrValidation, "api", "load trigger",
			fmt.Sprintf("invalid issue number %q", raw), err)
	}
	action := strings.TrimSpace(req.Action)
	if action == string(events.KindDeleted) {
		return events.Trigger{IssueKey: number, Action: action, Trackable: true}, nil
	}
	if req.Client == nil {
		return events.Trigger{}, services.Wrap(services.ErrConfiguration, "api", "load trigger", "github client required to fetch the issue", nil)
	}
	issue, err := req.Client.GetIssue(ctx, number)
	if err != nil {
		return events.Trigger{}, err
	}
	return issue.Trigger(action), nil
}

// BackfillRequest configures a history replay.
type BackfillRequest struct {
	Config   *config.Config
	Logger   *slog.Logger
	Client   *github.Client
	Engine   *reconcile.Engine
	// Notifier receives the backfill_completed event; nil skips it.
	Notifier notifications.Service
}

// RunBackfill lists every issue in the repository and replays it.
func RunBackfill(ctx context.Context, req BackfillRequest) (BackfillView, error) {
	if req.Client == nil || req.Engine == nil {
		return BackfillView{}, services.Wrap(services.ErrConfiguration, "api", "backfill", "github client and engine required", nil)
	}
	logger := logging.NewComponentLogger(req.Logger, "backfill")

	issues, err := req.Client.ListIssues(ctx)
	if err != nil {
		return BackfillView{}, err
	}
	triggers := github.HistoryTriggers(issues)
	logger.Info("replaying issue history",
		logging.Int("issues", len(triggers)),
		logging.String("repository", req.Client.Repository()))

	processor := backfill.NewProcessor(OpenStore(req.Config, req.Logger), req.Engine,
		backfill.WithPacing(time.Duration(req.Config.Backfill.PacingMillis)*time.Millisecond),
		backfill.WithLogger(req.Logger),
	)
	summary, err := processor.Run(ctx, triggers)
	if err != nil {
		return BackfillView{}, err
	}
	view := FromSummary(len(triggers), summary)

	if req.Notifier != nil {
		payload := notifications.Payload{
			notifications.KeyAdded:        strconv.Itoa(summary.Added),
			notifications.KeySkipped:      strconv.Itoa(summary.Skipped),
			notifications.KeyCompleted:    strconv.Itoa(summary.Completed),
			notifications.KeyPlaceholders: strconv.Itoa(summary.Placeholders),
		}
		if err := req.Notifier.Publish(ctx, notifications.EventBackfillCompleted, payload); err != nil {
			logging.WarnWithContext(logger, "backfill notification failed", "notification_failed",
				logging.Error(err))
		}
	}
	return view, nil
}

// ResolveRequest asks the resolver about one title.
type ResolveRequest struct {
	Config *config.Config
	Logger *slog.Logger
	Title  string
}

// ResolveTitle runs the configured resolver without touching the catalog.
func ResolveTitle(ctx context.Context, req ResolveRequest) (MatchView, error) {
	resolver, closer, err := OpenResolver(ctx, req.Config, req.Logger)
	if err != nil {
		return MatchView{}, err
	}
	defer func() { _ = closer() }()

	match, found, err := resolver.Resolve(ctx, req.Title)
	if err != nil {
		return MatchView{}, err
	}
	return FromMatch(resolver.ProviderName(), match, found), nil
}

// ListCatalog reads the catalog without taking the lock.
func ListCatalog(cfg *config.Config, logger *slog.Logger) ([]EntryView, error) {
	coll, err := OpenStore(cfg, logger).Load()
	if err != nil {
		return nil, err
	}
	return FromEntries(coll.Entries()), nil
}
