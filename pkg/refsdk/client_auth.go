package refsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Begin starts a login attempt and returns the authorization code to poll.
func (c *Client) Begin(ctx context.Context, authKey, otp string) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/telegram-auth", BeginRequest{AuthKey: authKey, OTP: otp}, "")
	if err != nil {
		return "", err
	}

	var out BeginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return "", err
	}
	return out.AuthCode, nil
}

// CheckStatus asks once for the state of code. An accepted response carries
// the session token and is only ever returned once.
func (c *Client) CheckStatus(ctx context.Context, code string) (*StatusResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/check-auth/"+url.PathEscape(code), nil, "")
	if err != nil {
		return nil, err
	}

	var out StatusResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// WaitForApproval polls until code is accepted, rejected or expired, or ctx
// is done. Transport errors end the wait; the caller decides whether to retry.
func (c *Client) WaitForApproval(ctx context.Context, code string) (*Session, error) {
	interval := c.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		st, err := c.CheckStatus(ctx, code)
		if err != nil {
			return nil, err
		}

		switch st.Status {
		case StatusAccepted:
			if st.Token == "" {
				return nil, fmt.Errorf("refsdk: accepted status without token")
			}
			return c.NewSession(st.Token), nil
		case StatusRejected:
			return nil, ErrRejected
		case StatusExpired:
			return nil, ErrExpired
		case StatusPending:
		default:
			return nil, fmt.Errorf("refsdk: unexpected status %q", st.Status)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Decide records an approver decision over HTTP. decision is "accept" or
// "reject"; approverToken is the server's APPROVER_TOKEN.
func (c *Client) Decide(ctx context.Context, approverToken, code, decision string) (*ApprovalResponse, error) {
	path := "/api/approvals/" + url.PathEscape(code) + "/" + url.PathEscape(decision)
	resp, err := c.doRequest(ctx, http.MethodPost, path, nil, approverToken)
	if err != nil {
		return nil, err
	}

	var out ApprovalResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Lookup shows an approver where code stands without consuming it, unlike
// CheckStatus. Unknown and expired codes are a not_found APIError.
func (c *Client) Lookup(ctx context.Context, approverToken, code string) (*LookupResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/approvals/"+url.PathEscape(code), nil, approverToken)
	if err != nil {
		return nil, err
	}

	var out LookupResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
