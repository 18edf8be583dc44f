// internal/apiclient/ping.go
package apiclient

import (
	"context"
	"io"
	"net/http"
)

// Ping checks that the upstream API is reachable. Any HTTP response,
// including an error status, counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.String()+"/", nil)
	if err != nil {
		return &NetworkError{Op: "ping", Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: "ping", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}
