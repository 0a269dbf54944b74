// Package middleware provides HTTP middleware for the trip planner API server:
// request logging, CORS, body size limits, and bearer-token authentication.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// healthPath is polled by the orchestrator; successful hits log at debug.
const healthPath = "/healthz"

// NewSlogLogger logs one structured line per request on log. Besides method,
// path, status, size and duration it records the chi route pattern (so
// /trips/{tripID}/activities aggregates across trips), the trip id when the
// route has one, and the id set by chimiddleware.RequestID, which must run
// first. 5xx log at error, 4xx at warn.
func NewSlogLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.String("request_id", chimiddleware.GetReqID(r.Context())),
			}
			// Routing fills the shared route context while next runs.
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					attrs = append(attrs, slog.String("route", pattern))
				}
				if tripID := rctx.URLParam("tripID"); tripID != "" {
					attrs = append(attrs, slog.String("trip_id", tripID))
				}
			}
			log.LogAttrs(r.Context(), levelFor(r.URL.Path, status), "request", attrs...)
		})
	}
}

func levelFor(path string, status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	case path == healthPath:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
