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

type AuthHandler struct {
	Broker *service.Broker
}

// HandleBegin godoc
//
//	@Summary		Begin Authorization
//	@Description	Validates the pre-shared key and sends a login prompt to the approver chat.
//	@Description	Returns an authorization code to poll with /api/check-auth/{code}.
//	@Tags			Authorization
//	@Accept			json
//	@Produce		json
//	@Param			request	body		refsdk.BeginRequest		true	"authKey and optional otp"
//	@Success		200		{object}	refsdk.BeginResponse	"authCode"
//	@Failure		400		{object}	httpx.ErrorResponse		"invalid_request, invalid_key"
//	@Failure		429		{object}	httpx.ErrorResponse		"rate_limit_exceeded"
//	@Failure		500		{object}	httpx.ErrorResponse		"server_error"
//	@Router			/api/telegram-auth [post].
func (h *AuthHandler) HandleBegin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req refsdk.BeginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, refsdk.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}
	if req.AuthKey == "" {
		httpx.WriteError(w, http.StatusBadRequest, refsdk.ErrorCodeInvalidRequest, "authKey is required")
		return
	}

	code, err := h.Broker.Issue(ctx, req.AuthKey, req.OTP)
	if errors.Is(err, service.ErrInvalidKey) {
		httpx.WriteError(w, http.StatusBadRequest, refsdk.ErrorCodeInvalidKey, "Invalid authentication key")
		return
	}
	if err != nil {
		log.Error("issue authorization failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, refsdk.ErrorCodeServerError, "Authentication failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, refsdk.BeginResponse{AuthCode: code})
}

// HandleCheck godoc
//
//	@Summary		Check Authorization Status
//	@Description	Reports pending, rejected, expired, or accepted with a session token.
//	@Description	An accepted code is consumed by the read that returns its token; later reads report expired.
//	@Tags			Authorization
//	@Produce		json
//	@Param			code	path		string					true	"Authorization code"
//	@Success		200		{object}	refsdk.StatusResponse	"status, token"
//	@Failure		429		{object}	httpx.ErrorResponse		"rate_limit_exceeded"
//	@Failure		500		{object}	httpx.ErrorResponse		"server_error"
//	@Router			/api/check-auth/{code} [get].
func (h *AuthHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := h.Broker.CheckStatus(ctx, r.PathValue("code"))
	if err != nil {
		slogx.FromContext(ctx).Error("check authorization failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, refsdk.ErrorCodeServerError, "Status check failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, refsdk.StatusResponse{
		Status: string(res.Status),
		Token:  res.Token,
	})
}

// HandleDecide godoc
//
//	@Summary		Record Approver Decision
//	@Description	Accepts or rejects a pending login attempt. Intended for automation; the
//	@Description	Telegram bot is the interactive approver.
//	@Tags			Authorization
//	@Produce		json
//	@Security		ApproverAuth
//	@Param			code		path		string					true	"Authorization code"
//	@Param			decision	path		string					true	"accept or reject"
//	@Success		200			{object}	refsdk.ApprovalResponse	"status, message"
//	@Failure		400			{object}	httpx.ErrorResponse		"invalid_request"
//	@Failure		401			{object}	httpx.ErrorResponse		"unauthorized"
//	@Failure		404			{object}	httpx.ErrorResponse		"not_found"
//	@Router			/api/approvals/{code}/{decision} [post].
func (h *AuthHandler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	decision, err := domain.ParseDecision(r.PathValue("decision"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, refsdk.ErrorCodeInvalidRequest, "decision must be accept or reject")
		return
	}

	req, err := h.Broker.Decide(ctx, r.PathValue("code"), decision, "http")
	if errors.Is(err, service.ErrAuthorizationNotFound) {
		httpx.WriteError(w, http.StatusNotFound, refsdk.ErrorCodeNotFound, "This request has expired or is invalid.")
		return
	}
	if err != nil {
		slogx.FromContext(ctx).Error("record decision failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, refsdk.ErrorCodeServerError, "Decision failed")
		return
	}

	msg := "Login rejected"
	if req.Status == domain.StatusAccepted {
		msg = "Login accepted"
	}
	httpx.WriteJSON(w, http.StatusOK, refsdk.ApprovalResponse{Status: string(req.Status), Message: msg})
}

// HandleLookup godoc
//
//	@Summary		Inspect Authorization
//	@Description	Shows an approver the state of a code. Unlike /api/check-auth/{code} this never
//	@Description	consumes an accepted code.
//	@Tags			Authorization
//	@Produce		json
//	@Security		ApproverAuth
//	@Param			code	path		string					true	"Authorization code"
//	@Success		200		{object}	refsdk.LookupResponse	"status, issuedAt, expiresAt, decidedAt, decidedBy"
//	@Failure		401		{object}	httpx.ErrorResponse		"unauthorized"
//	@Failure		404		{object}	httpx.ErrorResponse		"not_found"
//	@Router			/api/approvals/{code} [get].
func (h *AuthHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := h.Broker.Lookup(ctx, r.PathValue("code"))
	if errors.Is(err, service.ErrAuthorizationNotFound) {
		httpx.WriteError(w, http.StatusNotFound, refsdk.ErrorCodeNotFound, "This request has expired or is invalid.")
		return
	}
	if err != nil {
		slogx.FromContext(ctx).Error("lookup authorization failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, refsdk.ErrorCodeServerError, "Lookup failed")
		return
	}

	resp := refsdk.LookupResponse{
		Status:    string(req.Status),
		IssuedAt:  req.IssuedAt,
		ExpiresAt: req.ExpiresAt,
		DecidedBy: req.DecidedBy,
	}
	if !req.DecidedAt.IsZero() {
		resp.DecidedAt = &req.DecidedAt
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

type LogoutHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Logout
//	@Description	Revokes the current session token.
//	@Tags			Authorization
//	@Security		BearerAuth
//	@Success		204
//	@Failure		401	{object}	httpx.ErrorResponse	"unauthorized"
//	@Router			/api/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, _ := httpx.PrincipalFromContext(ctx)

	if err := h.SessionService.Revoke(ctx, p.SessionID); err != nil {
		slogx.FromContext(ctx).Error("logout failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, refsdk.ErrorCodeServerError, "Logout failed")
		return
	}
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
