// internal/apiclient/receipts.go
package apiclient

import (
	"context"
	"io"
	"net/http"
	"strings"
)

// ReceiptFile fetches an uploaded receipt by its server-relative path
// (e.g. "uploads/receipts/r12.png"). Receipt files are served from the
// upstream root, not under the API prefix.
func (c *Client) ReceiptFile(ctx context.Context, token, path string) ([]byte, string, error) {
	u := c.base.String() + "/" + strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", &NetworkError{Op: "fetch receipt", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", &NetworkError{Op: "fetch receipt", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &FetchError{Resource: "receipt", Status: resp.StatusCode}
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &NetworkError{Op: "fetch receipt", Err: err}
	}
	return raw, resp.Header.Get("Content-Type"), nil
}
