package logging

import (
	"context"
	"log/slog"

	"booktrack/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for reconciliation run identifiers.
	FieldRunID = "run_id"
	// FieldIssueNumber is the standardized structured logging key for originating issue numbers.
	FieldIssueNumber = "issue_number"
	// FieldAction is the standardized structured logging key for lifecycle actions.
	FieldAction = "action"
	// FieldDeliveryID is the standardized structured logging key for webhook delivery identifiers.
	FieldDeliveryID = "delivery_id"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to do next.
	FieldErrorHint = "error_hint"
	// FieldTitle is the standardized structured logging key for book and issue titles.
	FieldTitle = "title"
	// FieldDecisionType names the decision being logged.
	FieldDecisionType = "decision_type"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if n, ok := services.IssueNumberFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldIssueNumber, n))
	}
	if action, ok := services.ActionFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldAction, action))
	}
	if id, ok := services.DeliveryIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldDeliveryID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = discard
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
