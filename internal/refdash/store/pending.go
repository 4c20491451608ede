package store

import (
	"context"
	"time"

	"github.com/toshilabs/toshiref/internal/refdash/domain"
)

// PendingAuthorizations owns the code -> AuthorizationRequest mapping. It is
// deliberately separate from Store: the table is short-lived and may live in
// process memory or in redis.
//
// Every method takes now explicitly so expiry is decided by the caller's clock.
// A request that is no longer live (see domain.AuthorizationRequest.Live) is
// reported as ErrNotFound, exactly like a code that was never issued.
type PendingAuthorizations interface {
	// Insert stores a new pending request. ErrAlreadyExists on code collision.
	Insert(ctx context.Context, req domain.AuthorizationRequest) error

	// Get returns a live request without modifying it.
	Get(ctx context.Context, code string, now time.Time) (domain.AuthorizationRequest, error)

	// Decide moves a live pending request to status (accepted or rejected) in
	// place. Anything else, including a second decision, is ErrNotFound.
	Decide(ctx context.Context, code string, status domain.AuthorizationStatus, actor string, now time.Time) (domain.AuthorizationRequest, error)

	// Consume reads a live request and, if it is accepted, removes it in the
	// same critical section. consumed reports whether the removal happened;
	// exactly one concurrent caller can observe consumed == true per code.
	Consume(ctx context.Context, code string, now time.Time) (req domain.AuthorizationRequest, consumed bool, err error)

	// Sweep deletes requests that are no longer live and reports how many.
	Sweep(ctx context.Context, now time.Time) (int, error)

	// Len counts stored entries, live or not yet swept.
	Len(ctx context.Context) (int, error)

	Close() error
}
