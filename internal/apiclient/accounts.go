// internal/apiclient/accounts.go
package apiclient

import (
	"context"

	"github.com/chapelstack/chapelhub/internal/domain/models"
)

type accountsEnvelope struct {
	Accounts []models.AccountDetail `json:"accounts"`
}

// FetchAccountDetails lists the configured church bank accounts.
func (c *Client) FetchAccountDetails(ctx context.Context, token string) ([]models.AccountDetail, error) {
	var env accountsEnvelope
	if err := c.getJSON(ctx, token, "/account-details", "account details", &env); err != nil {
		return nil, err
	}
	return env.Accounts, nil
}
