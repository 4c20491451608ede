package domain

import "time"

// User is a dashboard operator. Users are keyed by the fingerprint of the
// shared key they authenticated with, so one row exists per key.
type User struct {
	ID             string
	KeyFingerprint string
	SolanaAddress  string // empty when unset
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Invitation struct {
	ID             string
	UserID         string
	InvitationLink string
	CreatedAt      time.Time
}

type Session struct {
	ID        string
	UserID    string
	TokenHash string // hex sha256 of the bearer token
	CreatedAt time.Time
	ExpiresAt time.Time
}
