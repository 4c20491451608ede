package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID    ctxKey = "user_id"
	CtxKeySessionID ctxKey = "session_id"
)

// Principal is what a verified session token resolves to.
type Principal struct {
	UserID    string
	SessionID string
}

// WithPrincipal stores p in ctx for downstream handlers.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, p.UserID)
	ctx = context.WithValue(ctx, CtxKeySessionID, p.SessionID)
	return ctx
}

// PrincipalFromContext returns the principal set by SessionAuth.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	uid, ok := ctx.Value(CtxKeyUserID).(string)
	if !ok || uid == "" {
		return Principal{}, false
	}
	sid, _ := ctx.Value(CtxKeySessionID).(string)
	return Principal{UserID: uid, SessionID: sid}, true
}
