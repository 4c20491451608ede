package sqlite

import (
	"context"

	"github.com/toshilabs/toshiref/internal/refdash/domain"
	"github.com/toshilabs/toshiref/internal/refdash/store/drivers/sqlite/gen"
)

type invitationsRepo struct {
	q *gen.Queries
}

func (r *invitationsRepo) GetLatestInvitation(ctx context.Context, userID string) (domain.Invitation, error) {
	row, err := r.q.GetLatestInvitation(ctx, userID)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return mapInvitation(row), nil
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	return mapConstraint(r.q.CreateInvitation(ctx, gen.CreateInvitationParams{
		ID:             inv.ID,
		UserID:         inv.UserID,
		InvitationLink: inv.InvitationLink,
		CreatedAt:      utc(inv.CreatedAt),
	}))
}
