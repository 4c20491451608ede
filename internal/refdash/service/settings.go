package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/toshilabs/toshiref/internal/refdash/domain"
	"github.com/toshilabs/toshiref/internal/refdash/store"
	"github.com/toshilabs/toshiref/pkg/idx"
	"github.com/toshilabs/toshiref/pkg/slogx"
)

var (
	// ErrSettingsReadOnly is returned by UpdateSettings while writes are
	// switched off for maintenance.
	ErrSettingsReadOnly = errors.New("settings are under maintenance")

	ErrInvalidSettings = errors.New("invalid settings")
	ErrInvalidReminder = fmt.Errorf("%w: invalid reminder", ErrInvalidSettings)
)

const (
	maxReminders       = 20
	maxReminderMessage = 1000
)

// SettingsUpdate is a partial update. Nil fields are left unchanged; a
// non-nil Reminders replaces the whole list.
type SettingsUpdate struct {
	AllowInvites      *bool
	RequiredReferrals *int
	Reminders         *[]domain.Reminder
}

type SettingsService struct {
	Store    store.Store
	Writable bool
	Now      func() time.Time
}

// GetSettings returns the invite settings with their reminders.
func (s *SettingsService) GetSettings(ctx context.Context) (domain.Settings, error) {
	return s.load(ctx, s.Store)
}

// UpdateSettings applies upd in a single transaction and returns the result.
func (s *SettingsService) UpdateSettings(ctx context.Context, upd SettingsUpdate) (domain.Settings, error) {
	if !s.Writable {
		return domain.Settings{}, ErrSettingsReadOnly
	}

	if upd.RequiredReferrals != nil && *upd.RequiredReferrals < 0 {
		return domain.Settings{}, fmt.Errorf("%w: required referrals must not be negative", ErrInvalidSettings)
	}
	if upd.Reminders != nil {
		if err := validateReminders(*upd.Reminders); err != nil {
			return domain.Settings{}, err
		}
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}

	var out domain.Settings
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		cur, err := tx.Settings().GetSettings(ctx)
		if err != nil {
			return fmt.Errorf("get settings: %w", err)
		}

		allow, required := cur.AllowInvites, cur.RequiredReferrals
		if upd.AllowInvites != nil {
			allow = *upd.AllowInvites
		}
		if upd.RequiredReferrals != nil {
			required = *upd.RequiredReferrals
		}
		if err := tx.Settings().UpdateSettings(ctx, allow, required, now); err != nil {
			return fmt.Errorf("update settings: %w", err)
		}

		if upd.Reminders != nil {
			if err := tx.Reminders().DeleteAllReminders(ctx); err != nil {
				return fmt.Errorf("clear reminders: %w", err)
			}
			for _, r := range *upd.Reminders {
				r.ID = idx.NewAt(now).String()
				r.Message = strings.TrimSpace(r.Message)
				r.CreatedAt = now
				if err := tx.Reminders().CreateReminder(ctx, r); err != nil {
					return fmt.Errorf("create reminder: %w", err)
				}
			}
		}

		out, err = s.load(ctx, tx)
		return err
	})
	if err != nil {
		return domain.Settings{}, err
	}

	slogx.FromContext(ctx).Info("settings updated",
		"allow_invites", out.AllowInvites,
		"required_referrals", out.RequiredReferrals,
		"reminders", len(out.Reminders),
	)
	return out, nil
}

func (s *SettingsService) load(ctx context.Context, st store.Store) (domain.Settings, error) {
	settings, err := st.Settings().GetSettings(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	reminders, err := st.Reminders().ListReminders(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("list reminders: %w", err)
	}
	settings.Reminders = reminders
	return settings, nil
}

func validateReminders(rs []domain.Reminder) error {
	if len(rs) > maxReminders {
		return fmt.Errorf("%w: at most %d reminders", ErrInvalidReminder, maxReminders)
	}
	for i, r := range rs {
		switch {
		case r.IntervalValue <= 0:
			return fmt.Errorf("%w: reminder %d: interval must be positive", ErrInvalidReminder, i)
		case !r.IntervalUnit.Valid():
			return fmt.Errorf("%w: reminder %d: unknown unit %q", ErrInvalidReminder, i, r.IntervalUnit)
		case !r.Action.Valid():
			return fmt.Errorf("%w: reminder %d: unknown action %q", ErrInvalidReminder, i, r.Action)
		case strings.TrimSpace(r.Message) == "":
			return fmt.Errorf("%w: reminder %d: message is required", ErrInvalidReminder, i)
		case len(r.Message) > maxReminderMessage:
			return fmt.Errorf("%w: reminder %d: message too long", ErrInvalidReminder, i)
		}
	}
	return nil
}
