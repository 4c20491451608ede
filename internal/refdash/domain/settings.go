package domain

import "time"

type IntervalUnit string

const (
	UnitMinutes IntervalUnit = "minutes"
	UnitHours   IntervalUnit = "hours"
	UnitDays    IntervalUnit = "days"
)

func (u IntervalUnit) Valid() bool {
	switch u {
	case UnitMinutes, UnitHours, UnitDays:
		return true
	}
	return false
}

// Duration converts value units into a time.Duration.
func (u IntervalUnit) Duration(value int) time.Duration {
	switch u {
	case UnitHours:
		return time.Duration(value) * time.Hour
	case UnitDays:
		return time.Duration(value) * 24 * time.Hour
	default:
		return time.Duration(value) * time.Minute
	}
}

type ReminderAction string

const (
	ActionNone       ReminderAction = "no_action"
	ActionNotInvited ReminderAction = "not_invited"
	ActionNotPaid    ReminderAction = "not_paid"
)

func (a ReminderAction) Valid() bool {
	switch a {
	case ActionNone, ActionNotInvited, ActionNotPaid:
		return true
	}
	return false
}

type Reminder struct {
	ID            string
	IntervalValue int
	IntervalUnit  IntervalUnit
	Message       string
	Action        ReminderAction
	CreatedAt     time.Time
}

// Settings is the singleton invite configuration.
type Settings struct {
	AllowInvites      bool
	RequiredReferrals int
	Reminders         []Reminder
	UpdatedAt         time.Time
}
