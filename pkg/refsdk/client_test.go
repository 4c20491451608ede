package refsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toshilabs/toshiref/pkg/httpx"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL + "/")
	c.PollInterval = time.Millisecond
	return c
}

func TestBegin(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/telegram-auth", r.URL.Path)
		var req BeginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.AuthKey != "shared-secret" {
			httpx.WriteError(w, http.StatusBadRequest, ErrorCodeInvalidKey, "Invalid authentication key")
			return
		}
		httpx.WriteJSON(w, http.StatusOK, BeginResponse{AuthCode: "c1"})
	}))

	code, err := c.Begin(context.Background(), "shared-secret", "")
	require.NoError(t, err)
	require.Equal(t, "c1", code)

	_, err = c.Begin(context.Background(), "wrong", "")
	require.True(t, IsInvalidKey(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestLookup(t *testing.T) {
	issued := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer approver", r.Header.Get("Authorization"))

		if r.URL.Path != "/api/approvals/c1" {
			httpx.WriteError(w, http.StatusNotFound, ErrorCodeNotFound, "This request has expired or is invalid.")
			return
		}
		httpx.WriteJSON(w, http.StatusOK, LookupResponse{
			Status:    StatusPending,
			IssuedAt:  issued,
			ExpiresAt: issued.Add(5 * time.Minute),
		})
	}))

	got, err := c.Lookup(context.Background(), "approver", "c1")
	require.NoError(t, err)
	require.Equal(t, StatusPending, got.Status)
	require.True(t, got.ExpiresAt.Equal(issued.Add(5*time.Minute)))
	require.Nil(t, got.DecidedAt)

	_, err = c.Lookup(context.Background(), "approver", "gone")
	require.True(t, IsErrorCode(err, ErrorCodeNotFound), "got %v", err)
}

func TestWaitForApproval(t *testing.T) {
	statusAfter := func(final StatusResponse) http.Handler {
		var calls int32
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/check-auth/c1", r.URL.Path)
			if atomic.AddInt32(&calls, 1) < 3 {
				httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: StatusPending})
				return
			}
			httpx.WriteJSON(w, http.StatusOK, final)
		})
	}

	t.Run("accepted", func(t *testing.T) {
		c := newTestClient(t, statusAfter(StatusResponse{Status: StatusAccepted, Token: "tok"}))
		sess, err := c.WaitForApproval(context.Background(), "c1")
		require.NoError(t, err)
		require.Equal(t, "tok", sess.Token())
	})

	t.Run("rejected", func(t *testing.T) {
		c := newTestClient(t, statusAfter(StatusResponse{Status: StatusRejected}))
		_, err := c.WaitForApproval(context.Background(), "c1")
		require.ErrorIs(t, err, ErrRejected)
	})

	t.Run("expired", func(t *testing.T) {
		c := newTestClient(t, statusAfter(StatusResponse{Status: StatusExpired}))
		_, err := c.WaitForApproval(context.Background(), "c1")
		require.ErrorIs(t, err, ErrExpired)
	})

	t.Run("context cancelled", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: StatusPending})
		}))
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := c.WaitForApproval(ctx, "c1")
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestSession(t *testing.T) {
	mux := http.NewServeMux()
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if tok, _ := httpx.BearerToken(r); tok != "tok" {
				httpx.WriteError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "session invalid or expired")
				return
			}
			h(w, r)
		}
	}
	mux.HandleFunc("GET /api/dashboard", authed(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, DashboardResponse{SolanaAddress: "addr", InvitationLink: "link"})
	}))
	mux.HandleFunc("POST /api/update-solana-address", authed(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "ok"})
	}))
	mux.HandleFunc("GET /api/settings", authed(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, SettingsResponse{RequiredReferrals: 1, Reminders: []Reminder{}})
	}))
	mux.HandleFunc("POST /api/settings", authed(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusServiceUnavailable, ErrorCodeMaintenance, "Settings are under maintenance")
	}))
	mux.HandleFunc("POST /api/logout", authed(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	c := newTestClient(t, mux)
	ctx := context.Background()
	sess := c.NewSession("tok")

	dash, err := sess.Dashboard(ctx)
	require.NoError(t, err)
	require.Equal(t, &DashboardResponse{SolanaAddress: "addr", InvitationLink: "link"}, dash)

	require.NoError(t, sess.UpdateSolanaAddress(ctx, ""))

	settings, err := sess.Settings(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, settings.RequiredReferrals)

	allow := true
	_, err = sess.UpdateSettings(ctx, UpdateSettingsRequest{AllowInvites: &allow})
	require.True(t, IsErrorCode(err, ErrorCodeMaintenance))

	require.NoError(t, sess.Logout(ctx))

	_, err = c.NewSession("other").Dashboard(ctx)
	require.True(t, IsUnauthorized(err))
}

func TestParseErrorResponse_Fallback(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))

	_, err := c.GetLiveness(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, ErrorCodeServerError, apiErr.Code)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}
