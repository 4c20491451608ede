package sqlite

import (
	"context"
	"time"

	"github.com/toshilabs/toshiref/internal/refdash/domain"
	"github.com/toshilabs/toshiref/internal/refdash/store"
	"github.com/toshilabs/toshiref/internal/refdash/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByKeyFingerprint(ctx context.Context, fingerprint string) (domain.User, error) {
	row, err := r.q.GetUserByKeyFingerprint(ctx, fingerprint)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	err := r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:                 u.ID,
		AuthKeyFingerprint: u.KeyFingerprint,
		SolanaAddress:      mapStringNull(u.SolanaAddress),
		CreatedAt:          utc(u.CreatedAt),
		UpdatedAt:          utc(u.UpdatedAt),
	})
	return mapConstraint(err)
}

func (r *usersRepo) UpdateSolanaAddress(ctx context.Context, userID, address string, now time.Time) error {
	n, err := r.q.UpdateUserSolanaAddress(ctx, gen.UpdateUserSolanaAddressParams{
		SolanaAddress: mapStringNull(address),
		UpdatedAt:     utc(now),
		ID:            userID,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
