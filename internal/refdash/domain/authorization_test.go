package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/toshilabs/toshiref/internal/refdash/domain"
)

func TestAuthorizationRequestLive(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	retention := 5 * time.Minute

	pending := domain.AuthorizationRequest{Status: domain.StatusPending, IssuedAt: t0, ExpiresAt: t0.Add(5 * time.Minute)}
	require.True(t, pending.Live(t0.Add(4*time.Minute), retention))
	require.False(t, pending.Live(t0.Add(5*time.Minute), retention))
	require.True(t, pending.Decidable(t0))
	require.False(t, pending.Decidable(t0.Add(6*time.Minute)))

	accepted := pending
	accepted.Status = domain.StatusAccepted
	accepted.DecidedAt = t0.Add(time.Minute)
	require.True(t, accepted.Live(t0.Add(24*time.Hour), retention), "accepted waits for consumption")
	require.False(t, accepted.Decidable(t0))

	rejected := pending
	rejected.Status = domain.StatusRejected
	rejected.DecidedAt = t0.Add(4 * time.Minute)
	require.True(t, rejected.Live(t0.Add(8*time.Minute), retention))
	require.False(t, rejected.Live(t0.Add(9*time.Minute), retention))
}

func TestParseDecision(t *testing.T) {
	d, err := domain.ParseDecision(" Accept ")
	require.NoError(t, err)
	require.Equal(t, domain.DecisionAccept, d)
	require.Equal(t, domain.StatusAccepted, d.Status())

	d, err = domain.ParseDecision("reject")
	require.NoError(t, err)
	require.Equal(t, domain.StatusRejected, d.Status())

	_, err = domain.ParseDecision("maybe")
	require.ErrorIs(t, err, domain.ErrUnknownDecision)
}

func TestReminderEnums(t *testing.T) {
	require.True(t, domain.UnitDays.Valid())
	require.False(t, domain.IntervalUnit("weeks").Valid())
	require.Equal(t, 2*time.Hour, domain.UnitHours.Duration(2))
	require.Equal(t, 48*time.Hour, domain.UnitDays.Duration(2))

	require.True(t, domain.ActionNotPaid.Valid())
	require.False(t, domain.ReminderAction("spam").Valid())
}
