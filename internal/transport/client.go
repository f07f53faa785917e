// Package transport provides the shared HTTP plumbing for provider and
// remote-store clients: request construction, authentication, and response
// decoding with the core's error taxonomy.
package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/openshelf/openshelf/pkg/errors"
)

// DefaultTimeout bounds a single provider call. A hung provider costs at
// most this budget before the cascade moves on.
const DefaultTimeout = 10 * time.Second

// UserAgent identifies the client to external services. Open bibliographic
// APIs ask for a contactable user agent.
const UserAgent = "openshelf/1.0 (+https://github.com/openshelf/openshelf)"

// Client provides HTTP client functionality with authentication.
type Client struct {
	http   *http.Client
	auth   Authenticator
	apiKey string
}

// New creates a new transport client with the specified authenticator.
// A nil authenticator means no authentication.
func New(auth Authenticator, apiKey string, timeout time.Duration) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:   &http.Client{Timeout: timeout},
		auth:   auth,
		apiKey: apiKey,
	}
}

// SetHTTPClient replaces the underlying http.Client. Used by tests and by
// callers that need custom transport behavior.
func (c *Client) SetHTTPClient(hc *http.Client) {
	if hc != nil {
		c.http = hc
	}
}

// Do performs an HTTP request with authentication and common headers applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.apiKey != "" {
		c.auth.Apply(req, c.apiKey)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	req.Header.Set("User-Agent", UserAgent)
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		if req.Header.Get("Content-Type") == "" {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	return c.http.Do(req)
}

// Get performs a GET request against the given URL.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapValidation("url", err)
	}
	return c.Do(req)
}
