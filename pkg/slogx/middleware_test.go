package slogx_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toshilabs/toshiref/pkg/slogx"
)

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	mw := slogx.HTTPMiddleware(logger, slogx.MiddlewareOptions{
		QuietPrefixes:  []string{"/api/check-auth/"},
		RedactPrefixes: []string{"/api/check-auth/"},
	})

	var ctxLogger *slog.Logger
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLogger = slogx.FromContext(r.Context())
		w.WriteHeader(http.StatusAccepted)
	}))

	t.Run("logs with request id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

		require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		require.NotNil(t, ctxLogger)

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		require.Equal(t, "http_request", line["msg"])
		require.Equal(t, "/api/dashboard", line["path"])
		require.EqualValues(t, http.StatusAccepted, line["status"])
		require.Equal(t, rec.Header().Get("X-Request-ID"), line["req_id"])
	})

	t.Run("keeps caller request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
		req.Header.Set("X-Request-ID", "abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
	})

	t.Run("poll requests are quiet at info", func(t *testing.T) {
		buf.Reset()
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/check-auth/deadbeef", nil))
		require.Empty(t, buf.String())
	})
}

func TestRedactedPath(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := slogx.HTTPMiddleware(logger, slogx.MiddlewareOptions{
		RedactPrefixes: []string{"/api/check-auth/"},
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/check-auth/deadbeef", nil))
	require.NotContains(t, buf.String(), "deadbeef")
	require.Contains(t, buf.String(), "/api/check-auth/[redacted]")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, slogx.ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, slogx.ParseLevel("warning"))
	require.Equal(t, slog.LevelError, slogx.ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, slogx.ParseLevel("nonsense"))
}
