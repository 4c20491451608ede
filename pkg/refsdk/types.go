package refsdk

import "time"

// Authorization status values reported by the status endpoint.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	StatusExpired  = "expired"
)

// BeginRequest starts a login attempt.
type BeginRequest struct {
	// AuthKey is the pre-shared dashboard key.
	AuthKey string `json:"authKey"`

	// OTP is the current TOTP code, required only when the server has one configured.
	OTP string `json:"otp,omitempty"`
}

// BeginResponse carries the code to poll.
type BeginResponse struct {
	AuthCode string `json:"authCode"`
}

// StatusResponse is the poll result for an authorization code.
type StatusResponse struct {
	// Status is one of pending, accepted, rejected or expired.
	Status string `json:"status"`

	// Token is the session token, only present on the single accepted read.
	Token string `json:"token,omitempty"`
}

// ApprovalResponse acknowledges a recorded decision.
type ApprovalResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// LookupResponse is an approver's view of a code. Reading it never consumes
// the code.
type LookupResponse struct {
	Status    string     `json:"status"`
	IssuedAt  time.Time  `json:"issuedAt"`
	ExpiresAt time.Time  `json:"expiresAt"`
	DecidedAt *time.Time `json:"decidedAt,omitempty"`
	DecidedBy string     `json:"decidedBy,omitempty"`
}

// DashboardResponse is the signed-in user's overview.
type DashboardResponse struct {
	SolanaAddress  string `json:"solanaAddress"`
	InvitationLink string `json:"invitationLink"`
}

// UpdateSolanaAddressRequest sets the payout address. An empty address clears it.
type UpdateSolanaAddressRequest struct {
	SolanaAddress string `json:"solanaAddress"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// Reminder is one scheduled reminder message.
type Reminder struct {
	ID            string `json:"id,omitempty"`
	IntervalValue int    `json:"intervalValue"`
	// IntervalUnit is minutes, hours or days.
	IntervalUnit string `json:"intervalUnit"`
	Message      string `json:"message"`
	// Action is no_action, not_invited or not_paid.
	Action string `json:"action"`
}

// SettingsResponse holds the invite settings.
type SettingsResponse struct {
	AllowInvites      bool       `json:"allowInvites"`
	RequiredReferrals int        `json:"requiredReferrals"`
	Reminders         []Reminder `json:"reminders"`
}

// UpdateSettingsRequest is a partial update; omitted fields keep their value.
// A present reminders list replaces the stored one.
type UpdateSettingsRequest struct {
	AllowInvites      *bool       `json:"allowInvites,omitempty"`
	RequiredReferrals *int        `json:"requiredReferrals,omitempty"`
	Reminders         *[]Reminder `json:"reminders,omitempty"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains detailed component health (readyz only)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency on /readyz.
type HealthChecks struct {
	Database     string `json:"database"`
	PendingStore string `json:"pendingStore"`
}
