package refsdk

import (
	"net/http"
	"strings"
	"time"
)

// DefaultPollInterval is how often WaitForApproval asks for a status.
const DefaultPollInterval = 2 * time.Second

// Client talks to the unauthenticated endpoints and creates Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// PollInterval is used by WaitForApproval. Default: DefaultPollInterval.
	PollInterval time.Duration
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		PollInterval: DefaultPollInterval,
	}
}

// NewSession wraps an existing session token.
func (c *Client) NewSession(token string) *Session {
	return &Session{client: c, token: token}
}
