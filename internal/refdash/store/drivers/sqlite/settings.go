package sqlite

import (
	"context"
	"time"

	"github.com/toshilabs/toshiref/internal/refdash/domain"
	"github.com/toshilabs/toshiref/internal/refdash/store/drivers/sqlite/gen"
)

type settingsRepo struct {
	q *gen.Queries
}

func (r *settingsRepo) GetSettings(ctx context.Context) (domain.Settings, error) {
	row, err := r.q.GetSettings(ctx)
	if err != nil {
		return domain.Settings{}, mapNotFound(err)
	}
	return domain.Settings{
		AllowInvites:      row.AllowInvites,
		RequiredReferrals: int(row.RequiredReferrals),
		UpdatedAt:         row.UpdatedAt,
	}, nil
}

func (r *settingsRepo) UpdateSettings(ctx context.Context, allowInvites bool, requiredReferrals int, now time.Time) error {
	return r.q.UpdateSettings(ctx, gen.UpdateSettingsParams{
		AllowInvites:      allowInvites,
		RequiredReferrals: int64(requiredReferrals),
		UpdatedAt:         utc(now),
	})
}

type remindersRepo struct {
	q *gen.Queries
}

func (r *remindersRepo) ListReminders(ctx context.Context) ([]domain.Reminder, error) {
	rows, err := r.q.ListReminders(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Reminder, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapReminder(row))
	}
	return out, nil
}

func (r *remindersRepo) CreateReminder(ctx context.Context, rem domain.Reminder) error {
	return mapConstraint(r.q.CreateReminder(ctx, gen.CreateReminderParams{
		ID:            rem.ID,
		IntervalValue: int64(rem.IntervalValue),
		IntervalUnit:  string(rem.IntervalUnit),
		Message:       rem.Message,
		Action:        string(rem.Action),
		CreatedAt:     utc(rem.CreatedAt),
	}))
}

func (r *remindersRepo) DeleteAllReminders(ctx context.Context) error {
	return r.q.DeleteAllReminders(ctx)
}
