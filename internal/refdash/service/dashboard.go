package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mr-tron/base58"

	"github.com/toshilabs/toshiref/internal/refdash/store"
	"github.com/toshilabs/toshiref/pkg/slogx"
)

// ErrInvalidSolanaAddress is returned for anything that is not a base58
// encoded 32-byte public key.
var ErrInvalidSolanaAddress = errors.New("invalid solana address")

const solanaPublicKeySize = 32

// Dashboard is the per-user view shown after sign-in.
type Dashboard struct {
	SolanaAddress  string
	InvitationLink string
}

type DashboardService struct {
	Store store.Store
	Now   func() time.Time
}

// GetDashboard returns the payout address and latest invitation link for
// userID. Missing values are empty strings.
func (s *DashboardService) GetDashboard(ctx context.Context, userID string) (Dashboard, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("get user: %w", err)
	}

	out := Dashboard{SolanaAddress: user.SolanaAddress}

	inv, err := s.Store.Invitations().GetLatestInvitation(ctx, userID)
	switch {
	case err == nil:
		out.InvitationLink = inv.InvitationLink
	case errors.Is(err, store.ErrNotFound):
	default:
		return Dashboard{}, fmt.Errorf("get invitation: %w", err)
	}

	return out, nil
}

// UpdateSolanaAddress validates and stores address. An empty address clears it.
func (s *DashboardService) UpdateSolanaAddress(ctx context.Context, userID, address string) error {
	address = strings.TrimSpace(address)
	if err := ValidateSolanaAddress(address); err != nil {
		return err
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}

	if err := s.Store.Users().UpdateSolanaAddress(ctx, userID, address, now); err != nil {
		return fmt.Errorf("update solana address: %w", err)
	}
	slogx.FromContext(ctx).Info("solana address updated", "user_id", userID, "cleared", address == "")
	return nil
}

// ValidateSolanaAddress accepts "" or a base58 string decoding to 32 bytes.
func ValidateSolanaAddress(address string) error {
	if address == "" {
		return nil
	}
	raw, err := base58.Decode(address)
	if err != nil || len(raw) != solanaPublicKeySize {
		return ErrInvalidSolanaAddress
	}
	return nil
}
