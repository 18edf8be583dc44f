// internal/apiclient/users.go
package apiclient

import (
	"context"

	"github.com/chapelstack/chapelhub/internal/domain/models"
)

type usersEnvelope struct {
	Users []models.User `json:"users"`
}

// FetchUsers lists all users.
func (c *Client) FetchUsers(ctx context.Context, token string) ([]models.User, error) {
	var env usersEnvelope
	if err := c.getJSON(ctx, token, "/users", "users", &env); err != nil {
		return nil, err
	}
	return env.Users, nil
}

// CreateUser creates a user account. The server assigns and enforces
// the role; this client only forwards the chosen value.
func (c *Client) CreateUser(ctx context.Context, token string, draft models.UserDraft) error {
	return c.postJSON(ctx, token, "/users", draft)
}
