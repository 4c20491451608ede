package redis_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/toshilabs/toshiref/internal/refdash/domain"
	"github.com/toshilabs/toshiref/internal/refdash/store"
	"github.com/toshilabs/toshiref/internal/refdash/store/drivers/redis"
)

// setupRedis starts a throwaway redis and returns a client for it.
func setupRedis(t *testing.T) goredis.UniversalClient {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func pendingReq(code string, now time.Time) domain.AuthorizationRequest {
	return domain.AuthorizationRequest{
		Code:      code,
		AuthKey:   "shared-secret",
		Status:    domain.StatusPending,
		IssuedAt:  now,
		ExpiresAt: now.Add(5 * time.Minute),
	}
}

func TestPendingTable(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	tbl := redis.NewPendingTable(client, "test:pending:", 5*time.Minute)
	require.NoError(t, tbl.Ping(ctx))

	t.Run("insert and get", func(t *testing.T) {
		require.NoError(t, tbl.Insert(ctx, pendingReq("get1", now)))
		require.ErrorIs(t, tbl.Insert(ctx, pendingReq("get1", now)), store.ErrAlreadyExists)

		got, err := tbl.Get(ctx, "get1", now)
		require.NoError(t, err)
		require.Equal(t, domain.StatusPending, got.Status)
		require.Equal(t, "shared-secret", got.AuthKey)
		require.True(t, got.ExpiresAt.Equal(now.Add(5*time.Minute)))

		_, err = tbl.Get(ctx, "missing", now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("accept then consume once", func(t *testing.T) {
		require.NoError(t, tbl.Insert(ctx, pendingReq("acc1", now)))

		req, err := tbl.Decide(ctx, "acc1", domain.StatusAccepted, "approver", now)
		require.NoError(t, err)
		require.Equal(t, domain.StatusAccepted, req.Status)
		require.Equal(t, "approver", req.DecidedBy)

		_, err = tbl.Decide(ctx, "acc1", domain.StatusRejected, "approver", now)
		require.ErrorIs(t, err, store.ErrNotFound)

		ttl, err := client.PTTL(ctx, "test:pending:acc1").Result()
		require.NoError(t, err)
		require.Equal(t, time.Duration(-1), ttl, "accepted entries wait for consumption")

		req, consumed, err := tbl.Consume(ctx, "acc1", now)
		require.NoError(t, err)
		require.True(t, consumed)
		require.Equal(t, domain.StatusAccepted, req.Status)

		_, _, err = tbl.Consume(ctx, "acc1", now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("rejected is readable repeatedly", func(t *testing.T) {
		require.NoError(t, tbl.Insert(ctx, pendingReq("rej1", now)))
		_, err := tbl.Decide(ctx, "rej1", domain.StatusRejected, "approver", now)
		require.NoError(t, err)

		for range 3 {
			req, consumed, err := tbl.Consume(ctx, "rej1", now)
			require.NoError(t, err)
			require.False(t, consumed)
			require.Equal(t, domain.StatusRejected, req.Status)
		}

		_, err = tbl.Get(ctx, "rej1", now.Add(6*time.Minute))
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("expired pending cannot be decided", func(t *testing.T) {
		require.NoError(t, tbl.Insert(ctx, pendingReq("exp1", now)))
		_, err := tbl.Decide(ctx, "exp1", domain.StatusAccepted, "approver", now.Add(5*time.Minute))
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("concurrent consume has one winner", func(t *testing.T) {
		require.NoError(t, tbl.Insert(ctx, pendingReq("race1", now)))
		_, err := tbl.Decide(ctx, "race1", domain.StatusAccepted, "approver", now)
		require.NoError(t, err)

		var wins atomic.Int32
		var wg sync.WaitGroup
		for range 32 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, consumed, err := tbl.Consume(ctx, "race1", now); err == nil && consumed {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		require.EqualValues(t, 1, wins.Load())
	})
}
