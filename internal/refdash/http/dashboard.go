package http

import (
	"errors"
	"net/http"

	"github.com/toshilabs/toshiref/internal/refdash/service"
	"github.com/toshilabs/toshiref/internal/refdash/store"
	"github.com/toshilabs/toshiref/pkg/httpx"
	"github.com/toshilabs/toshiref/pkg/refsdk"
	"github.com/toshilabs/toshiref/pkg/slogx"
)

type DashboardHandler struct {
	DashboardService *service.DashboardService
}

// HandleGet godoc
//
//	@Summary		Dashboard
//	@Description	Payout address and invitation link of the signed-in user.
//	@Tags			Dashboard
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	refsdk.DashboardResponse	"solanaAddress, invitationLink"
//	@Failure		401	{object}	httpx.ErrorResponse			"unauthorized"
//	@Router			/api/dashboard [get].
func (h *DashboardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := httpx.PrincipalFromContext(ctx)

	dash, err := h.DashboardService.GetDashboard(ctx, p.UserID)
	if errors.Is(err, store.ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, refsdk.ErrorCodeNotFound, "User not found")
		return
	}
	if err != nil {
		slogx.FromContext(ctx).Error("load dashboard failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, refsdk.ErrorCodeServerError, "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, refsdk.DashboardResponse{
		SolanaAddress:  dash.SolanaAddress,
		InvitationLink: dash.InvitationLink,
	})
}

// HandleUpdateSolanaAddress godoc
//
//	@Summary		Update Solana Address
//	@Description	Sets the payout address. An empty string clears it.
//	@Tags			Dashboard
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		refsdk.UpdateSolanaAddressRequest	true	"solanaAddress"
//	@Success		200		{object}	refsdk.MessageResponse				"message"
//	@Failure		400		{object}	httpx.ErrorResponse					"invalid_request, invalid_solana_address"
//	@Failure		401		{object}	httpx.ErrorResponse					"unauthorized"
//	@Router			/api/update-solana-address [post].
func (h *DashboardHandler) HandleUpdateSolanaAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := httpx.PrincipalFromContext(ctx)

	var req refsdk.UpdateSolanaAddressRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, refsdk.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}

	err := h.DashboardService.UpdateSolanaAddress(ctx, p.UserID, req.SolanaAddress)
	switch {
	case errors.Is(err, service.ErrInvalidSolanaAddress):
		httpx.WriteError(w, http.StatusBadRequest, refsdk.ErrorCodeInvalidAddress, "Invalid Solana address")
		return
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, refsdk.ErrorCodeNotFound, "User not found")
		return
	case err != nil:
		slogx.FromContext(ctx).Error("update solana address failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, refsdk.ErrorCodeServerError, "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, refsdk.MessageResponse{Message: "Solana address updated successfully"})
}
