package memory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/toshilabs/toshiref/internal/refdash/domain"
	"github.com/toshilabs/toshiref/internal/refdash/store"
	"github.com/toshilabs/toshiref/internal/refdash/store/drivers/memory"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func pendingReq(code string) domain.AuthorizationRequest {
	return domain.AuthorizationRequest{
		Code:      code,
		AuthKey:   "shared-secret",
		Status:    domain.StatusPending,
		IssuedAt:  t0,
		ExpiresAt: t0.Add(5 * time.Minute),
	}
}

func TestPendingTable_InsertGet(t *testing.T) {
	ctx := context.Background()
	tbl := memory.NewPendingTable(5 * time.Minute)

	require.NoError(t, tbl.Insert(ctx, pendingReq("c1")))
	require.ErrorIs(t, tbl.Insert(ctx, pendingReq("c1")), store.ErrAlreadyExists)

	got, err := tbl.Get(ctx, "c1", t0.Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, got.Status)
	require.Equal(t, "shared-secret", got.AuthKey)

	_, err = tbl.Get(ctx, "nope", t0)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPendingTable_Decide(t *testing.T) {
	ctx := context.Background()

	t.Run("only once", func(t *testing.T) {
		tbl := memory.NewPendingTable(5 * time.Minute)
		require.NoError(t, tbl.Insert(ctx, pendingReq("c1")))

		req, err := tbl.Decide(ctx, "c1", domain.StatusRejected, "approver", t0.Add(time.Minute))
		require.NoError(t, err)
		require.Equal(t, domain.StatusRejected, req.Status)
		require.Equal(t, t0.Add(time.Minute), req.DecidedAt)
		require.Equal(t, "approver", req.DecidedBy)

		_, err = tbl.Decide(ctx, "c1", domain.StatusAccepted, "approver", t0.Add(2*time.Minute))
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("not after expiry", func(t *testing.T) {
		tbl := memory.NewPendingTable(5 * time.Minute)
		require.NoError(t, tbl.Insert(ctx, pendingReq("c1")))

		_, err := tbl.Decide(ctx, "c1", domain.StatusAccepted, "approver", t0.Add(5*time.Minute))
		require.ErrorIs(t, err, store.ErrNotFound)

		n, err := tbl.Len(ctx)
		require.NoError(t, err)
		require.Zero(t, n, "dead entry is dropped on sight")
	})
}

func TestPendingTable_Consume(t *testing.T) {
	ctx := context.Background()
	tbl := memory.NewPendingTable(5 * time.Minute)

	require.NoError(t, tbl.Insert(ctx, pendingReq("c1")))

	req, consumed, err := tbl.Consume(ctx, "c1", t0)
	require.NoError(t, err)
	require.False(t, consumed)
	require.Equal(t, domain.StatusPending, req.Status)

	_, err = tbl.Decide(ctx, "c1", domain.StatusAccepted, "approver", t0.Add(time.Minute))
	require.NoError(t, err)

	// Accepted outlives the pending deadline until someone consumes it.
	req, consumed, err = tbl.Consume(ctx, "c1", t0.Add(time.Hour))
	require.NoError(t, err)
	require.True(t, consumed)
	require.Equal(t, domain.StatusAccepted, req.Status)

	_, _, err = tbl.Consume(ctx, "c1", t0.Add(time.Hour))
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPendingTable_ConsumeRace(t *testing.T) {
	ctx := context.Background()
	tbl := memory.NewPendingTable(5 * time.Minute)

	require.NoError(t, tbl.Insert(ctx, pendingReq("c1")))
	_, err := tbl.Decide(ctx, "c1", domain.StatusAccepted, "approver", t0)
	require.NoError(t, err)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, consumed, err := tbl.Consume(ctx, "c1", t0); err == nil && consumed {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, wins.Load())
}

func TestPendingTable_Sweep(t *testing.T) {
	ctx := context.Background()
	tbl := memory.NewPendingTable(5 * time.Minute)

	require.NoError(t, tbl.Insert(ctx, pendingReq("pending")))
	require.NoError(t, tbl.Insert(ctx, pendingReq("accepted")))
	require.NoError(t, tbl.Insert(ctx, pendingReq("rejected")))

	_, err := tbl.Decide(ctx, "accepted", domain.StatusAccepted, "a", t0.Add(time.Minute))
	require.NoError(t, err)
	_, err = tbl.Decide(ctx, "rejected", domain.StatusRejected, "a", t0.Add(time.Minute))
	require.NoError(t, err)

	n, err := tbl.Sweep(ctx, t0.Add(4*time.Minute))
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = tbl.Sweep(ctx, t0.Add(5*time.Minute))
	require.NoError(t, err)
	require.Equal(t, 1, n, "undecided request expires")

	n, err = tbl.Sweep(ctx, t0.Add(6*time.Minute))
	require.NoError(t, err)
	require.Equal(t, 1, n, "rejected request leaves after retention")

	n, err = tbl.Sweep(ctx, t0.Add(24*time.Hour))
	require.NoError(t, err)
	require.Zero(t, n, "accepted request is only removed by consumption")

	left, err := tbl.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, left)
}
