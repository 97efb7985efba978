package notifications

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"booktrack/internal/config"
	"booktrack/internal/logging"
)

const userAgent = "booktrack"

// Service publishes notification events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// CommentPoster posts a comment on an issue.
type CommentPoster interface {
	CreateComment(ctx context.Context, number int, body string) error
}

// NewService builds the notifiers enabled in cfg. comments may be nil when
// no GitHub client is available. With nothing enabled a noop is returned.
func NewService(cfg *config.Config, comments CommentPoster, logger *slog.Logger) Service {
	var notifiers []Service
	if cfg.Notifications.IssueComments && comments != nil {
		notifiers = append(notifiers, &issueCommentService{poster: comments})
	}
	if topic := strings.TrimSpace(cfg.Notifications.NtfyTopic); topic != "" {
		timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		notifiers = append(notifiers, &ntfyService{
			endpoint: topic,
			client:   &http.Client{Timeout: timeout},
		})
	}

	switch len(notifiers) {
	case 0:
		return noopService{}
	case 1:
		return &loggingService{next: notifiers[0], logger: logging.NewComponentLogger(logger, "notifications")}
	default:
		return &loggingService{next: fanout(notifiers), logger: logging.NewComponentLogger(logger, "notifications")}
	}
}

type fanout []Service

func (f fanout) Publish(ctx context.Context, event Event, payload Payload) error {
	var errs []error
	for _, svc := range f {
		if err := svc.Publish(ctx, event, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type loggingService struct {
	next   Service
	logger *slog.Logger
}

func (l *loggingService) Publish(ctx context.Context, event Event, payload Payload) error {
	err := l.next.Publish(ctx, event, payload)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, l.logger), "notification delivery failed", "notification_failed",
			logging.String("event", string(event)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check ntfy topic and GitHub token permissions"),
			logging.String(logging.FieldImpact, "catalog was updated but nobody was told"))
		return err
	}
	l.logger.Debug("notification delivered", logging.String("event", string(event)))
	return nil
}

type issueCommentService struct {
	poster CommentPoster
}

func (s *issueCommentService) Publish(ctx context.Context, event Event, payload Payload) error {
	if !commentable(event) {
		return nil
	}
	number, ok := payload.Issue()
	if !ok {
		return nil
	}
	msg, ok := Render(event, payload)
	if !ok {
		return nil
	}
	if err := s.poster.CreateComment(ctx, number, msg.Body); err != nil {
		return fmt.Errorf("comment on issue #%d: %w", number, err)
	}
	return nil
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := Render(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func (n *ntfyService) send(ctx context.Context, data Message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.Body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Markdown", "yes")
	if data.Title != "" {
		req.Header.Set("Title", data.Title)
	}
	if len(data.Tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.Tags, ","))
	}
	if data.Priority != "" && data.Priority != "default" {
		req.Header.Set("Priority", data.Priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
