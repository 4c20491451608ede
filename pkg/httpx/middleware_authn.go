package httpx

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/toshilabs/toshiref/pkg/slogx"
)

// SessionVerifier resolves an opaque bearer token to a principal.
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (Principal, error)
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	return raw, raw != ""
}

// SessionAuth rejects requests without a live session token.
func SessionAuth(v SessionVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			p, err := v.VerifySession(ctx, raw)
			if err != nil {
				log.Debug("session verify failed", "err", err)
				writeBearerError(w, "session invalid or expired")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, p)))
		})
	}
}

// StaticTokenAuth guards machine endpoints with a single shared bearer token.
// An empty token disables the endpoint entirely.
func StaticTokenAuth(token string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				WriteError(w, http.StatusNotFound, "not_found", "Not found")
				return
			}
			raw, ok := BearerToken(r)
			if !ok || subtle.ConstantTimeCompare([]byte(raw), []byte(token)) != 1 {
				writeBearerError(w, "invalid approver token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-style challenge with a JSON body the dashboard can render.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "unauthorized", desc)
}
