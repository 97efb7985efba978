package services

import "context"

type contextKey string

const (
	runIDKey      contextKey = "run_id"
	issueKey      contextKey = "issue_number"
	actionKey     contextKey = "action"
	deliveryIDKey contextKey = "delivery_id"
)

// WithRunID annotates context with the identifier of the current reconciliation run.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithIssueNumber annotates context with the originating issue number.
func WithIssueNumber(ctx context.Context, number int) context.Context {
	return context.WithValue(ctx, issueKey, number)
}

// IssueNumberFromContext extracts the issue number if present.
func IssueNumberFromContext(ctx context.Context) (int, bool) {
	v := ctx.Value(issueKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	default:
		return 0, false
	}
}

// WithAction annotates context with the lifecycle action being processed.
func WithAction(ctx context.Context, action string) context.Context {
	if action == "" {
		return ctx
	}
	return context.WithValue(ctx, actionKey, action)
}

// ActionFromContext returns the action if present.
func ActionFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(actionKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithDeliveryID annotates context with a webhook delivery identifier.
func WithDeliveryID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, deliveryIDKey, id)
}

// DeliveryIDFromContext extracts the webhook delivery identifier if present.
func DeliveryIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(deliveryIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
