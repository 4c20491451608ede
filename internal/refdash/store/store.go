package store

import (
	"context"
	"errors"
	"time"

	"github.com/toshilabs/toshiref/internal/refdash/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface for the relational data (users,
// invitations, settings, reminders, sessions). It exposes sub-repositories so
// callers cannot accidentally start a transaction within a transaction.
type Store interface {
	Users() Users
	Invitations() Invitations
	Settings() Settings
	Reminders() Reminders
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByKeyFingerprint finds the user that signs in with a given key.
	GetUserByKeyFingerprint(ctx context.Context, fingerprint string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists if the fingerprint is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateSolanaAddress sets or, with "", clears the payout address.
	UpdateSolanaAddress(ctx context.Context, userID, address string, now time.Time) error
}

type Invitations interface {
	// GetLatestInvitation returns the newest invitation for a user.
	GetLatestInvitation(ctx context.Context, userID string) (domain.Invitation, error)
	CreateInvitation(ctx context.Context, inv domain.Invitation) error
}

type Settings interface {
	// GetSettings returns the singleton row. Reminders are not populated.
	GetSettings(ctx context.Context) (domain.Settings, error)
	UpdateSettings(ctx context.Context, allowInvites bool, requiredReferrals int, now time.Time) error
}

type Reminders interface {
	ListReminders(ctx context.Context) ([]domain.Reminder, error)
	CreateReminder(ctx context.Context, r domain.Reminder) error
	DeleteAllReminders(ctx context.Context) error
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByTokenHash returns the session regardless of expiry; callers
	// compare ExpiresAt themselves.
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error)

	DeleteSession(ctx context.Context, id string) error

	// DeleteExpiredSessions removes sessions whose expires_at is before now.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
