// Package memory keeps pending authorizations in process memory. A restart
// forgets every outstanding code, which callers handle by starting over.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/toshilabs/toshiref/internal/refdash/domain"
	"github.com/toshilabs/toshiref/internal/refdash/store"
)

// PendingTable is a mutex-guarded map. A single lock is plenty for the
// expected volume of a few dozen entries.
type PendingTable struct {
	mu        sync.Mutex
	entries   map[string]domain.AuthorizationRequest
	retention time.Duration
}

var _ store.PendingAuthorizations = (*PendingTable)(nil)

// NewPendingTable returns an empty table. retention is how long rejected
// requests stay readable after the decision.
func NewPendingTable(retention time.Duration) *PendingTable {
	return &PendingTable{
		entries:   make(map[string]domain.AuthorizationRequest),
		retention: retention,
	}
}

func (t *PendingTable) Insert(_ context.Context, req domain.AuthorizationRequest) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.entries[req.Code]; ok {
		return store.ErrAlreadyExists
	}
	t.entries[req.Code] = req
	return nil
}

func (t *PendingTable) Get(_ context.Context, code string, now time.Time) (domain.AuthorizationRequest, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.liveLocked(code, now)
}

func (t *PendingTable) Decide(
	_ context.Context,
	code string,
	status domain.AuthorizationStatus,
	actor string,
	now time.Time,
) (domain.AuthorizationRequest, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	req, err := t.liveLocked(code, now)
	if err != nil {
		return domain.AuthorizationRequest{}, err
	}
	if !req.Decidable(now) {
		return domain.AuthorizationRequest{}, store.ErrNotFound
	}

	req.Status = status
	req.DecidedAt = now
	req.DecidedBy = actor
	t.entries[code] = req
	return req, nil
}

func (t *PendingTable) Consume(_ context.Context, code string, now time.Time) (domain.AuthorizationRequest, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	req, err := t.liveLocked(code, now)
	if err != nil {
		return domain.AuthorizationRequest{}, false, err
	}
	if req.Status != domain.StatusAccepted {
		return req, false, nil
	}
	delete(t.entries, code)
	return req, true, nil
}

func (t *PendingTable) Sweep(_ context.Context, now time.Time) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for code, req := range t.entries {
		if !req.Live(now, t.retention) {
			delete(t.entries, code)
			n++
		}
	}
	return n, nil
}

func (t *PendingTable) Len(context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries), nil
}

func (t *PendingTable) Close() error { return nil }

// liveLocked drops dead entries on sight so they never resurface.
func (t *PendingTable) liveLocked(code string, now time.Time) (domain.AuthorizationRequest, error) {
	req, ok := t.entries[code]
	if !ok {
		return domain.AuthorizationRequest{}, store.ErrNotFound
	}
	if !req.Live(now, t.retention) {
		delete(t.entries, code)
		return domain.AuthorizationRequest{}, store.ErrNotFound
	}
	return req, nil
}
