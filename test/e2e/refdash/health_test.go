package refdash_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	client := newClient(setupRefdash(t, containerOptions{}))

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)

	health, err = client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.PendingStore)

	msg, err := client.Ping(t.Context())
	require.NoError(t, err)
	require.Equal(t, "API is working", msg.Message)
}
