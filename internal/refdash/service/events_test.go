package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/toshilabs/toshiref/internal/refdash/domain"
	"github.com/toshilabs/toshiref/pkg/slogx"
)

type captureNotifier struct {
	mu     sync.Mutex
	events []domain.AuthorizationEvent
	err    error
	block  chan struct{}
}

func (n *captureNotifier) Notify(ctx context.Context, ev *domain.AuthorizationEvent) error {
	if n.block != nil {
		select {
		case <-n.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, *ev)
	return n.err
}

func (n *captureNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

func TestDispatcher_DeliversToAllNotifiers(t *testing.T) {
	failing := &captureNotifier{err: errors.New("boom")}
	ok := &captureNotifier{}

	d := NewDispatcher(slogx.Discard(), 8, time.Second, failing, nil, ok)
	d.Start()

	for _, typ := range []domain.EventType{domain.EventAuthorizationIssued, domain.EventAuthorizationAccepted} {
		d.Publish(domain.AuthorizationEvent{Type: typ, Code: "c1"})
	}
	d.Stop()

	require.Equal(t, 2, failing.count())
	require.Equal(t, 2, ok.count())
	require.Equal(t, domain.EventAuthorizationIssued, ok.events[0].Type)
	require.Equal(t, domain.EventAuthorizationAccepted, ok.events[1].Type)
}

func TestDispatcher_PublishNeverBlocks(t *testing.T) {
	slow := &captureNotifier{block: make(chan struct{})}
	d := NewDispatcher(slogx.Discard(), 1, time.Second, slow)

	// Worker not started: the queue holds one event, the rest are dropped.
	done := make(chan struct{})
	go func() {
		for range 10 {
			d.Publish(domain.AuthorizationEvent{Type: domain.EventAuthorizationIssued})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}

	close(slow.block)
	d.Start()
	d.Stop()
	require.Equal(t, 1, slow.count())
}

func TestDispatcher_DeliveryTimeout(t *testing.T) {
	stuck := &captureNotifier{block: make(chan struct{})}
	after := &captureNotifier{}

	d := NewDispatcher(slogx.Discard(), 4, 20*time.Millisecond, stuck, after)
	d.Start()
	d.Publish(domain.AuthorizationEvent{Type: domain.EventAuthorizationRejected})
	d.Stop()

	require.Zero(t, stuck.count())
	require.Equal(t, 1, after.count())
}

func TestDispatcher_SlowNotifierDoesNotDelayOthers(t *testing.T) {
	audit := &captureNotifier{block: make(chan struct{})}
	approver := &captureNotifier{}

	d := NewDispatcher(slogx.Discard(), 8, time.Minute, audit, approver)
	d.Start()

	d.Publish(domain.AuthorizationEvent{Type: domain.EventAuthorizationIssued, Code: "c1"})
	d.Publish(domain.AuthorizationEvent{Type: domain.EventAuthorizationAccepted, Code: "c1"})

	// The audit sink is still stuck on the first event.
	require.Eventually(t, func() bool { return approver.count() == 2 }, time.Second, 5*time.Millisecond)
	require.Zero(t, audit.count())

	close(audit.block)
	d.Stop()
	require.Equal(t, 2, audit.count())
	require.Equal(t, domain.EventAuthorizationIssued, audit.events[0].Type)
	require.Equal(t, domain.EventAuthorizationAccepted, audit.events[1].Type)
}
