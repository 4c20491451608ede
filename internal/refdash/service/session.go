package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/toshilabs/toshiref/internal/refdash/domain"
	"github.com/toshilabs/toshiref/internal/refdash/store"
	"github.com/toshilabs/toshiref/pkg/cryptox"
	"github.com/toshilabs/toshiref/pkg/httpx"
	"github.com/toshilabs/toshiref/pkg/idx"
	"github.com/toshilabs/toshiref/pkg/slogx"
)

// ErrSessionInvalid covers unknown, expired and revoked session tokens.
var ErrSessionInvalid = errors.New("session invalid or expired")

const DefaultSessionTTL = 24 * time.Hour

// SessionService stores dashboard sessions. Only the SHA-256 of a token is
// ever written; the token itself exists solely in the poller's response.
type SessionService struct {
	Store  store.Store
	Hasher *cryptox.SecretHasher
	TTL    time.Duration

	// ReferralLink, when set, is used to create an invitation for first-time
	// users. "{ref}" is replaced with the user id.
	ReferralLink string

	Now func() time.Time
}

var (
	_ SessionRecorder       = (*SessionService)(nil)
	_ httpx.SessionVerifier = (*SessionService)(nil)
)

// RecordSession attaches token to the user owning authKey, creating the user
// (and their invitation) on first sign-in.
func (s *SessionService) RecordSession(ctx context.Context, token, authKey string) error {
	log := slogx.FromContext(ctx)
	now := s.now()
	fingerprint := s.Hasher.Fingerprint(authKey)

	var userID string
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByKeyFingerprint(ctx, fingerprint)
		switch {
		case errors.Is(err, store.ErrNotFound):
			user = domain.User{
				ID:             idx.NewAt(now).String(),
				KeyFingerprint: fingerprint,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := tx.Users().CreateUser(ctx, user); err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			if s.ReferralLink != "" {
				inv := domain.Invitation{
					ID:             idx.NewAt(now).String(),
					UserID:         user.ID,
					InvitationLink: strings.ReplaceAll(s.ReferralLink, "{ref}", user.ID),
					CreatedAt:      now,
				}
				if err := tx.Invitations().CreateInvitation(ctx, inv); err != nil {
					return fmt.Errorf("create invitation: %w", err)
				}
			}
			log.Info("user created on first sign-in", "user_id", user.ID)
		case err != nil:
			return fmt.Errorf("lookup user: %w", err)
		}

		userID = user.ID
		return tx.Sessions().CreateSession(ctx, domain.Session{
			ID:        idx.NewAt(now).String(),
			UserID:    user.ID,
			TokenHash: cryptox.FingerprintToken(token),
			CreatedAt: now,
			ExpiresAt: now.Add(s.ttl()),
		})
	})
	if err != nil {
		return err
	}

	log.Info("session created", "user_id", userID)
	return nil
}

// VerifySession resolves a bearer token to its user.
func (s *SessionService) VerifySession(ctx context.Context, token string) (httpx.Principal, error) {
	if token == "" {
		return httpx.Principal{}, ErrSessionInvalid
	}

	sess, err := s.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	if errors.Is(err, store.ErrNotFound) {
		return httpx.Principal{}, ErrSessionInvalid
	}
	if err != nil {
		return httpx.Principal{}, fmt.Errorf("lookup session: %w", err)
	}
	if !s.now().Before(sess.ExpiresAt) {
		return httpx.Principal{}, ErrSessionInvalid
	}

	return httpx.Principal{UserID: sess.UserID, SessionID: sess.ID}, nil
}

// Revoke deletes a session. Revoking twice is not an error.
func (s *SessionService) Revoke(ctx context.Context, sessionID string) error {
	if err := s.Store.Sessions().DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	slogx.FromContext(ctx).Info("session revoked", "session_id", sessionID)
	return nil
}

// DeleteExpired removes sessions past their expiry.
func (s *SessionService) DeleteExpired(ctx context.Context) (int64, error) {
	return s.Store.Sessions().DeleteExpiredSessions(ctx, s.now())
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultSessionTTL
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
