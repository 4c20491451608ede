package domain

import "time"

type EventType string

const (
	EventAuthorizationIssued   EventType = "authorization.issued"
	EventAuthorizationAccepted EventType = "authorization.accepted"
	EventAuthorizationRejected EventType = "authorization.rejected"
)

func (t EventType) String() string { return string(t) }

// AuthorizationEvent describes a broker state transition. Transitions return
// these; delivery to approver and audit sinks happens elsewhere.
//
// Code and AuthKey are credentials and never serialized.
type AuthorizationEvent struct {
	Type       EventType           `json:"type"`
	Code       string              `json:"-"`
	AuthKey    string              `json:"-"`
	Status     AuthorizationStatus `json:"status"`
	Actor      string              `json:"actor,omitempty"`
	ExpiresAt  time.Time           `json:"expires_at"`
	OccurredAt time.Time           `json:"occurred_at"`
}
