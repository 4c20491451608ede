package refsdk

import (
	"context"
	"net/http"
)

// Session is an authenticated dashboard session.
type Session struct {
	client *Client
	token  string
}

// Token returns the raw session token for persistence.
func (s *Session) Token() string { return s.token }

func (s *Session) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/api/dashboard", nil, s.token)
	if err != nil {
		return nil, err
	}

	var out DashboardResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSolanaAddress sets the payout address; "" clears it.
func (s *Session) UpdateSolanaAddress(ctx context.Context, address string) error {
	resp, err := s.client.doRequest(ctx, http.MethodPost, "/api/update-solana-address",
		UpdateSolanaAddressRequest{SolanaAddress: address}, s.token)
	if err != nil {
		return err
	}

	var out MessageResponse
	return decodeJSON(resp, &out, http.StatusOK)
}

func (s *Session) Settings(ctx context.Context) (*SettingsResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/api/settings", nil, s.token)
	if err != nil {
		return nil, err
	}

	var out SettingsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSettings fails with ErrorCodeMaintenance while the server has
// settings writes disabled.
func (s *Session) UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (*SettingsResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodPost, "/api/settings", req, s.token)
	if err != nil {
		return nil, err
	}

	var out SettingsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the session server-side.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.client.doRequest(ctx, http.MethodPost, "/api/logout", nil, s.token)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
