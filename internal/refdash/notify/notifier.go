// Package notify delivers authorization lifecycle events to audit sinks.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/toshilabs/toshiref/internal/refdash/domain"
	"github.com/toshilabs/toshiref/pkg/cryptox"
)

// Notifier defines the interface for notification delivery.
type Notifier interface {
	Notify(ctx context.Context, ev *domain.AuthorizationEvent) error
}

// MultiNotifier sends to every wrapped notifier.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier filters out nil notifiers.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	filtered := make([]Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			filtered = append(filtered, n)
		}
	}
	return &MultiNotifier{notifiers: filtered}
}

// Len reports how many notifiers are wired.
func (m *MultiNotifier) Len() int { return len(m.notifiers) }

// Notify returns a joined error if any notifier fails.
func (m *MultiNotifier) Notify(ctx context.Context, ev *domain.AuthorizationEvent) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Record is the wire form sent to audit sinks. The authorization code is
// replaced by a short fingerprint so sinks can correlate events without
// being able to poll for the session token.
type Record struct {
	Type       domain.EventType           `json:"type"`
	Status     domain.AuthorizationStatus `json:"status"`
	CodeRef    string                     `json:"code_ref"`
	Actor      string                     `json:"actor,omitempty"`
	ExpiresAt  time.Time                  `json:"expires_at"`
	OccurredAt time.Time                  `json:"occurred_at"`
}

const codeRefLen = 12

func NewRecord(ev *domain.AuthorizationEvent) Record {
	return Record{
		Type:       ev.Type,
		Status:     ev.Status,
		CodeRef:    CodeRef(ev.Code),
		Actor:      ev.Actor,
		ExpiresAt:  ev.ExpiresAt,
		OccurredAt: ev.OccurredAt,
	}
}

// CodeRef is a stable, non-reversible reference to an authorization code.
func CodeRef(code string) string {
	if code == "" {
		return ""
	}
	return cryptox.FingerprintToken(code)[:codeRefLen]
}
