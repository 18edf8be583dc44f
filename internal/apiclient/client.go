// internal/apiclient/client.go
//
// Package apiclient is the data-fetch layer: a thin client for the
// congregation REST API. One operation per resource; every call
// attaches the session's bearer credential; a fetch returns the full
// collection or a typed error. No retries, no backoff, no pagination.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// Client calls the congregation API. It is safe for concurrent use.
type Client struct {
	base     *url.URL
	http     *http.Client
	log      *zap.Logger
	sanitize *bluemonday.Policy
}

// New builds a client for the API at baseURL (scheme://host[:port],
// without the /api prefix). timeout bounds each request in addition to
// any caller context deadline.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api base url %q must include scheme and host", baseURL)
	}
	return &Client{
		base:     u,
		http:     &http.Client{Timeout: timeout},
		log:      logger,
		sanitize: bluemonday.StrictPolicy(),
	}, nil
}

// BaseURL returns the configured upstream base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// CloseIdleConnections releases pooled upstream connections.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}

// endpoint joins the API prefix and path onto the base URL.
func (c *Client) endpoint(path string) string {
	return c.base.String() + "/api" + path
}

// getJSON performs an authenticated GET and decodes a 2xx body into
// out. A non-2xx status is returned as *FetchError carrying the
// server's message; transport failures come back as *NetworkError.
func (c *Client) getJSON(ctx context.Context, token, path, resource string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return &NetworkError{Op: "fetch " + resource, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("api fetch failed", zap.String("resource", resource), zap.Error(err))
		return &NetworkError{Op: "fetch " + resource, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := c.readErrorMessage(resp.Body)
		c.log.Warn("api fetch rejected",
			zap.String("resource", resource),
			zap.Int("status", resp.StatusCode))
		return &FetchError{Resource: resource, Status: resp.StatusCode, Message: msg}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Resource: resource, Status: resp.StatusCode, Message: "malformed response"}
	}
	return nil
}

// postJSON performs an authenticated POST of a JSON payload. A non-2xx
// status is returned as *SubmitError carrying the server's message
// verbatim (sanitized of markup) so it can be surfaced in a toast.
func (c *Client) postJSON(ctx context.Context, token, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(body))
	if err != nil {
		return &NetworkError{Op: "post " + path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("api post failed", zap.String("path", path), zap.Error(err))
		return &NetworkError{Op: "post " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := c.readErrorMessage(resp.Body)
		c.log.Warn("api post rejected",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return &SubmitError{Status: resp.StatusCode, Message: msg}
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// getBinary performs an authenticated GET for a binary export and
// returns the body and content type.
func (c *Client) getBinary(ctx context.Context, token, path, resource string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return nil, "", &NetworkError{Op: "fetch " + resource, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", &NetworkError{Op: "fetch " + resource, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := c.readErrorMessage(resp.Body)
		return nil, "", &FetchError{Resource: resource, Status: resp.StatusCode, Message: msg}
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &NetworkError{Op: "fetch " + resource, Err: err}
	}
	return raw, resp.Header.Get("Content-Type"), nil
}

// apiError is the upstream error envelope; some endpoints use "error",
// others "message".
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// readErrorMessage extracts the server's message from an error body and
// strips any markup before it can reach a template.
func (c *Client) readErrorMessage(body io.Reader) string {
	var e apiError
	if err := json.NewDecoder(body).Decode(&e); err != nil {
		return ""
	}
	msg := e.Error
	if msg == "" {
		msg = e.Message
	}
	return strings.TrimSpace(c.sanitize.Sanitize(msg))
}
