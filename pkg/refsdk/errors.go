package refsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/toshilabs/toshiref/pkg/httpx"
)

// Error codes returned in the "error" field.
const (
	ErrorCodeInvalidRequest  = "invalid_request"
	ErrorCodeInvalidKey      = "invalid_key"
	ErrorCodeUnauthorized    = "unauthorized"
	ErrorCodeNotFound        = "not_found"
	ErrorCodeMaintenance     = "maintenance"
	ErrorCodeRateLimited     = "rate_limit_exceeded"
	ErrorCodeServerError     = "server_error"
	ErrorCodeInvalidSettings = "invalid_settings"
	ErrorCodeInvalidAddress  = "invalid_solana_address"
)

var (
	// ErrRejected is returned by WaitForApproval when the approver said no.
	ErrRejected = errors.New("refsdk: login rejected")

	// ErrExpired is returned by WaitForApproval when the code is unknown,
	// timed out or was already consumed.
	ErrExpired = errors.New("refsdk: authorization code expired or invalid")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (HTTP %d)", e.Code, e.Message, e.StatusCode)
}

// IsErrorCode reports whether err is an APIError with the given code.
func IsErrorCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// IsInvalidKey reports whether Begin failed because of the key or OTP.
func IsInvalidKey(err error) bool { return IsErrorCode(err, ErrorCodeInvalidKey) }

// IsUnauthorized reports whether the session token was rejected.
func IsUnauthorized(err error) bool { return IsErrorCode(err, ErrorCodeUnauthorized) }

func parseErrorResponse(resp *http.Response, body []byte) error {
	var errResp httpx.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       errResp.Error,
			Message:    errResp.Message,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       ErrorCodeServerError,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
