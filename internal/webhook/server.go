package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"booktrack/internal/api"
	"booktrack/internal/events"
	"booktrack/internal/logging"
)

const (
	webhookPath = "/webhook/github"
	healthPath  = "/healthz"

	defaultShutdownTimeout = 10 * time.Second
	requestTimeout         = 60 * time.Second
)

// Tracker applies one trigger. api.Tracker satisfies it.
type Tracker interface {
	Track(ctx context.Context, trigger events.Trigger) (api.TrackResult, error)
}

// Server is the webhook HTTP receiver.
type Server struct {
	tracker         Tracker
	secret          string
	repository      string
	shutdownTimeout time.Duration
	logger          *slog.Logger
	router          http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithSecret enables signature verification.
func WithSecret(secret string) Option {
	return func(s *Server) {
		s.secret = strings.TrimSpace(secret)
	}
}

// WithRepository restricts deliveries to owner/repo.
func WithRepository(repository string) Option {
	return func(s *Server) {
		s.repository = strings.TrimSpace(repository)
	}
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.shutdownTimeout = timeout
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New builds a server around tracker.
func New(tracker Tracker, opts ...Option) *Server {
	s := &Server{
		tracker:         tracker,
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "webhook")
	s.router = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Post(webhookPath, s.handleGitHub)
	r.Get(healthPath, handleHealth)
	return r
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe binds addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	if s.secret == "" {
		logging.WarnWithContext(s.logger, "webhook signature verification disabled", "webhook_unsigned",
			logging.String(logging.FieldErrorHint, "set github.webhook_secret or BOOKTRACK_WEBHOOK_SECRET"),
			logging.String(logging.FieldImpact, "any caller can submit deliveries"),
		)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("webhook receiver listening", logging.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.logger.Info("webhook receiver shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown webhook receiver: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}
