package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/toshilabs/toshiref/internal/refdash/domain"
	"github.com/toshilabs/toshiref/internal/refdash/store"
	"github.com/toshilabs/toshiref/pkg/cryptox"
	"github.com/toshilabs/toshiref/pkg/slogx"
)

// ErrAuthorizationNotFound is returned by Decide for a code that was never
// issued, has expired, or was already decided.
var ErrAuthorizationNotFound = errors.New("authorization request expired or invalid")

// DefaultCodeTTL is how long an undecided code stays valid.
const DefaultCodeTTL = 5 * time.Minute

// issueAttempts bounds retries on a code collision, which with 128 bits of
// entropy only happens when the random source is broken.
const issueAttempts = 3

// SessionRecorder persists a freshly minted session token for the user that
// signed in with authKey.
type SessionRecorder interface {
	RecordSession(ctx context.Context, token, authKey string) error
}

// StatusResult is what a poller sees for a code. Token is only set once, on
// the read that consumes an accepted request.
type StatusResult struct {
	Status domain.AuthorizationStatus
	Token  string
}

// Broker issues authorization codes, records approver decisions and hands out
// a session token exactly once per accepted code.
//
// All state lives in Pending. Notifications leave through Events and are
// never awaited.
type Broker struct {
	Keys     *KeyValidator
	Pending  store.PendingAuthorizations
	Sessions SessionRecorder
	Events   EventPublisher

	CodeTTL time.Duration
	Now     func() time.Time
}

// Issue validates the presented key and registers a new pending code.
// A wrong key returns ErrInvalidKey and leaves the table untouched.
func (b *Broker) Issue(ctx context.Context, presentedKey, otpCode string) (string, error) {
	log := slogx.FromContext(ctx)

	if err := b.Keys.Validate(presentedKey, otpCode); err != nil {
		if errors.Is(err, ErrInvalidKey) {
			log.Warn("authorization attempt with invalid key")
		}
		return "", err
	}

	now := b.now()
	for range issueAttempts {
		code, err := cryptox.GenerateHexToken(cryptox.CodeSize)
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}

		req := domain.AuthorizationRequest{
			Code:      code,
			AuthKey:   presentedKey,
			Status:    domain.StatusPending,
			IssuedAt:  now,
			ExpiresAt: now.Add(b.codeTTL()),
		}

		err = b.Pending.Insert(ctx, req)
		if errors.Is(err, store.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("store authorization request: %w", err)
		}

		b.publish(domain.AuthorizationEvent{
			Type:       domain.EventAuthorizationIssued,
			Code:       code,
			AuthKey:    presentedKey,
			Status:     domain.StatusPending,
			ExpiresAt:  req.ExpiresAt,
			OccurredAt: now,
		})
		log.Info("authorization code issued", "expires_at", req.ExpiresAt)
		return code, nil
	}

	return "", errors.New("generate code: repeated collisions")
}

// Decide records the approver's answer for code. The request stays in the
// table so the poller can still observe the outcome.
func (b *Broker) Decide(ctx context.Context, code string, decision domain.Decision, actor string) (domain.AuthorizationRequest, error) {
	log := slogx.FromContext(ctx)

	switch decision {
	case domain.DecisionAccept, domain.DecisionReject:
	default:
		return domain.AuthorizationRequest{}, domain.ErrUnknownDecision
	}

	now := b.now()
	req, err := b.Pending.Decide(ctx, code, decision.Status(), actor, now)
	if errors.Is(err, store.ErrNotFound) {
		log.Info("decision for unknown or expired code", "decision", decision, "actor", actor)
		return domain.AuthorizationRequest{}, ErrAuthorizationNotFound
	}
	if err != nil {
		return domain.AuthorizationRequest{}, fmt.Errorf("record decision: %w", err)
	}

	evType := domain.EventAuthorizationRejected
	if req.Status == domain.StatusAccepted {
		evType = domain.EventAuthorizationAccepted
	}
	b.publish(domain.AuthorizationEvent{
		Type:       evType,
		Code:       req.Code,
		AuthKey:    req.AuthKey,
		Status:     req.Status,
		Actor:      actor,
		ExpiresAt:  req.ExpiresAt,
		OccurredAt: now,
	})
	log.Info("authorization decided", "status", req.Status, "actor", actor)
	return req, nil
}

// Lookup returns the request behind code without consuming it, for
// approvers who want to see where a code stands. Absent and expired codes
// are ErrAuthorizationNotFound.
func (b *Broker) Lookup(ctx context.Context, code string) (domain.AuthorizationRequest, error) {
	req, err := b.Pending.Get(ctx, code, b.now())
	if errors.Is(err, store.ErrNotFound) {
		return domain.AuthorizationRequest{}, ErrAuthorizationNotFound
	}
	if err != nil {
		return domain.AuthorizationRequest{}, fmt.Errorf("lookup authorization: %w", err)
	}
	return req, nil
}

// CheckStatus reports the state of code. Unknown, expired and consumed codes
// all read as StatusExpired; that is a normal result, not an error.
//
// An accepted request is removed by the same call that returns its token, so
// of several concurrent pollers only one receives it.
func (b *Broker) CheckStatus(ctx context.Context, code string) (StatusResult, error) {
	req, consumed, err := b.Pending.Consume(ctx, code, b.now())
	if errors.Is(err, store.ErrNotFound) {
		return StatusResult{Status: domain.StatusExpired}, nil
	}
	if err != nil {
		return StatusResult{}, fmt.Errorf("read authorization request: %w", err)
	}

	if !consumed {
		if req.Status == domain.StatusAccepted {
			// Only reachable if a driver breaks its contract.
			return StatusResult{Status: domain.StatusExpired}, nil
		}
		return StatusResult{Status: req.Status}, nil
	}

	token, err := cryptox.GenerateHexToken(cryptox.SessionTokenSize)
	if err != nil {
		return StatusResult{}, fmt.Errorf("generate session token: %w", err)
	}
	if b.Sessions != nil {
		if err := b.Sessions.RecordSession(ctx, token, req.AuthKey); err != nil {
			return StatusResult{}, fmt.Errorf("record session: %w", err)
		}
	}

	slogx.FromContext(ctx).Info("authorization consumed, session issued")
	return StatusResult{Status: domain.StatusAccepted, Token: token}, nil
}

func (b *Broker) publish(ev domain.AuthorizationEvent) {
	if b.Events != nil {
		b.Events.Publish(ev)
	}
}

func (b *Broker) codeTTL() time.Duration {
	if b.CodeTTL > 0 {
		return b.CodeTTL
	}
	return DefaultCodeTTL
}

func (b *Broker) now() time.Time {
	if b.Now != nil {
		return b.Now().UTC()
	}
	return time.Now().UTC()
}
