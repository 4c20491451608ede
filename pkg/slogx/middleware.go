package slogx

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/toshilabs/toshiref/pkg/idx"
)

// MiddlewareOptions tunes the access log.
type MiddlewareOptions struct {
	// QuietPrefixes are logged at debug instead of info. The dashboard polls
	// the status endpoint every two seconds per login attempt.
	QuietPrefixes []string

	// RedactPrefixes have the trailing path segment replaced in the log line.
	// Authorization codes travel in the path and must not end up in logs.
	RedactPrefixes []string
}

// HTTPMiddleware logs requests and attaches a contextual logger into request context.
func HTTPMiddleware(base *slog.Logger, opts MiddlewareOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = idx.New().String()
			}
			rw.Header().Set("X-Request-ID", reqID)

			logger := base.With(
				"req_id", reqID,
				"method", r.Method,
				"path", redactPath(r.URL.Path, opts.RedactPrefixes),
				"remote_addr", r.RemoteAddr,
			)

			r = r.WithContext(WithContext(r.Context(), logger))
			next.ServeHTTP(rw, r)

			level := slog.LevelInfo
			if hasAnyPrefix(r.URL.Path, opts.QuietPrefixes) && rw.status < http.StatusBadRequest {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "http_request",
				"status", rw.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"user_agent", r.UserAgent(),
			)
		})
	}
}

func redactPath(path string, prefixes []string) string {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) && len(path) > len(p) {
			return p + "[redacted]"
		}
	}
	return path
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

type responseWriter struct {
	http.ResponseWriter

	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
