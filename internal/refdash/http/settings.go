package http

import (
	"errors"
	"net/http"

	"github.com/toshilabs/toshiref/internal/refdash/domain"
	"github.com/toshilabs/toshiref/internal/refdash/service"
	"github.com/toshilabs/toshiref/pkg/httpx"
	"github.com/toshilabs/toshiref/pkg/refsdk"
	"github.com/toshilabs/toshiref/pkg/slogx"
)

type SettingsHandler struct {
	SettingsService *service.SettingsService
}

// HandleGet godoc
//
//	@Summary		Get Settings
//	@Description	Invite settings and reminder schedule.
//	@Tags			Settings
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	refsdk.SettingsResponse	"allowInvites, requiredReferrals, reminders"
//	@Failure		401	{object}	httpx.ErrorResponse		"unauthorized"
//	@Router			/api/settings [get].
func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	s, err := h.SettingsService.GetSettings(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("load settings failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, refsdk.ErrorCodeServerError, "Internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSettingsResponse(s))
}

// HandleUpdate godoc
//
//	@Summary		Update Settings
//	@Description	Partial update of invite settings. A reminders list replaces the stored one.
//	@Description	Returns 503 while settings are switched to read-only.
//	@Tags			Settings
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		refsdk.UpdateSettingsRequest	true	"fields to change"
//	@Success		200		{object}	refsdk.SettingsResponse			"updated settings"
//	@Failure		400		{object}	httpx.ErrorResponse				"invalid_request, invalid_settings"
//	@Failure		401		{object}	httpx.ErrorResponse				"unauthorized"
//	@Failure		503		{object}	httpx.ErrorResponse				"maintenance"
//	@Router			/api/settings [post].
func (h *SettingsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req refsdk.UpdateSettingsRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, refsdk.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}

	upd := service.SettingsUpdate{
		AllowInvites:      req.AllowInvites,
		RequiredReferrals: req.RequiredReferrals,
	}
	if req.Reminders != nil {
		list := make([]domain.Reminder, 0, len(*req.Reminders))
		for _, rem := range *req.Reminders {
			list = append(list, domain.Reminder{
				IntervalValue: rem.IntervalValue,
				IntervalUnit:  domain.IntervalUnit(rem.IntervalUnit),
				Message:       rem.Message,
				Action:        domain.ReminderAction(rem.Action),
			})
		}
		upd.Reminders = &list
	}

	s, err := h.SettingsService.UpdateSettings(ctx, upd)
	switch {
	case errors.Is(err, service.ErrSettingsReadOnly):
		httpx.WriteError(w, http.StatusServiceUnavailable, refsdk.ErrorCodeMaintenance, "Settings are under maintenance")
		return
	case errors.Is(err, service.ErrInvalidSettings):
		httpx.WriteError(w, http.StatusBadRequest, refsdk.ErrorCodeInvalidSettings, err.Error())
		return
	case err != nil:
		slogx.FromContext(ctx).Error("update settings failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, refsdk.ErrorCodeServerError, "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toSettingsResponse(s))
}

func toSettingsResponse(s domain.Settings) refsdk.SettingsResponse {
	out := refsdk.SettingsResponse{
		AllowInvites:      s.AllowInvites,
		RequiredReferrals: s.RequiredReferrals,
		Reminders:         make([]refsdk.Reminder, 0, len(s.Reminders)),
	}
	for _, r := range s.Reminders {
		out.Reminders = append(out.Reminders, refsdk.Reminder{
			ID:            r.ID,
			IntervalValue: r.IntervalValue,
			IntervalUnit:  string(r.IntervalUnit),
			Message:       r.Message,
			Action:        string(r.Action),
		})
	}
	return out
}
