package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/toshilabs/toshiref/internal/refdash/domain"
	"github.com/toshilabs/toshiref/internal/refdash/store/drivers/memory"
	"github.com/toshilabs/toshiref/internal/refdash/store/drivers/sqlite"
	"github.com/toshilabs/toshiref/pkg/cryptox"
)

const testSharedKey = "shared-secret"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.AuthorizationEvent
}

func (p *recordingPublisher) Publish(ev domain.AuthorizationEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) Events() []domain.AuthorizationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.AuthorizationEvent(nil), p.events...)
}

type brokerFixture struct {
	broker   *Broker
	pending  *memory.PendingTable
	sessions *SessionService
	store    *sqlite.Store
	events   *recordingPublisher
	clock    *fakeClock
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newBrokerFixture(t *testing.T) *brokerFixture {
	t.Helper()

	clock := newFakeClock()
	st := newTestStore(t)
	hasher := cryptox.NewSecretHasher("test-pepper")

	keys, err := NewKeyValidator(KeyValidatorConfig{SharedKey: testSharedKey})
	require.NoError(t, err)

	sessions := &SessionService{
		Store:        st,
		Hasher:       hasher,
		TTL:          time.Hour,
		ReferralLink: "https://t.me/toshi_bot?start={ref}",
		Now:          clock.Now,
	}
	pending := memory.NewPendingTable(5 * time.Minute)
	events := &recordingPublisher{}

	return &brokerFixture{
		broker: &Broker{
			Keys:     keys,
			Pending:  pending,
			Sessions: sessions,
			Events:   events,
			CodeTTL:  5 * time.Minute,
			Now:      clock.Now,
		},
		pending:  pending,
		sessions: sessions,
		store:    st,
		events:   events,
		clock:    clock,
	}
}

func tableLen(t *testing.T, f *brokerFixture) int {
	t.Helper()
	n, err := f.pending.Len(context.Background())
	require.NoError(t, err)
	return n
}
