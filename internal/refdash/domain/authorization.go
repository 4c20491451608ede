package domain

import (
	"errors"
	"strings"
	"time"
)

// AuthorizationStatus is the stored state of a login attempt. Expiry is
// derived from timestamps and never stored.
type AuthorizationStatus string

const (
	StatusPending  AuthorizationStatus = "pending"
	StatusAccepted AuthorizationStatus = "accepted"
	StatusRejected AuthorizationStatus = "rejected"
	// StatusExpired is only ever reported, for codes with no live record.
	StatusExpired AuthorizationStatus = "expired"
)

// Decision is what an approver answers.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

var ErrUnknownDecision = errors.New("unknown decision")

// ParseDecision accepts "accept"/"reject" (case-insensitive).
func ParseDecision(s string) (Decision, error) {
	switch Decision(strings.ToLower(strings.TrimSpace(s))) {
	case DecisionAccept:
		return DecisionAccept, nil
	case DecisionReject:
		return DecisionReject, nil
	}
	return "", ErrUnknownDecision
}

// Status maps a decision onto the terminal status it produces.
func (d Decision) Status() AuthorizationStatus {
	if d == DecisionAccept {
		return StatusAccepted
	}
	return StatusRejected
}

// AuthorizationRequest is one outstanding login attempt keyed by Code.
type AuthorizationRequest struct {
	Code      string
	AuthKey   string // as presented, for the approver's audit trail
	Status    AuthorizationStatus
	IssuedAt  time.Time
	ExpiresAt time.Time
	DecidedAt time.Time // zero while pending
	DecidedBy string
}

// Live reports whether r is still observable at now.
//
// Pending requests die at ExpiresAt. Accepted requests live until consumed.
// Rejected requests stay readable for retention after the decision.
func (r AuthorizationRequest) Live(now time.Time, retention time.Duration) bool {
	switch r.Status {
	case StatusPending:
		return now.Before(r.ExpiresAt)
	case StatusAccepted:
		return true
	case StatusRejected:
		return now.Before(r.DecidedAt.Add(retention))
	default:
		return false
	}
}

// Decidable reports whether a decision may still be recorded at now.
func (r AuthorizationRequest) Decidable(now time.Time) bool {
	return r.Status == StatusPending && now.Before(r.ExpiresAt)
}
