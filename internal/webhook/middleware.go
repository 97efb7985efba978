package webhook

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"booktrack/internal/logging"
)

// requestLogger logs one line per request through slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				attrs := []logging.Attr{
					logging.String("method", r.Method),
					logging.String("path", r.URL.Path),
					logging.Int("status", status),
					logging.Int("bytes", ww.BytesWritten()),
					logging.Duration("duration", time.Since(start)),
					logging.String("remote", r.RemoteAddr),
				}
				if id := middleware.GetReqID(r.Context()); id != "" {
					attrs = append(attrs, logging.String("request_id", id))
				}
				level := slog.LevelInfo
				if status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
				logger.Log(r.Context(), level, "http request", logging.Args(attrs...)...)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
