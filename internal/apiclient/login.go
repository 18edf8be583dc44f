// internal/apiclient/login.go
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/chapelstack/chapelhub/internal/domain/models"
	"go.uber.org/zap"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    models.Identity `json:"user"`
}

// Login exchanges a username and password for an Identity and bearer
// Credential. A rejection comes back as *AuthError with the server's
// message; transport failures as *NetworkError. Never retried.
func (c *Client) Login(ctx context.Context, username, password string) (models.Identity, string, error) {
	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return models.Identity{}, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/login"), bytes.NewReader(body))
	if err != nil {
		return models.Identity{}, "", &NetworkError{Op: "login", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("login transport failure", zap.Error(err))
		return models.Identity{}, "", &NetworkError{Op: "login", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := c.readErrorMessage(resp.Body)
		c.log.Info("login rejected",
			zap.String("username", username),
			zap.Int("status", resp.StatusCode))
		return models.Identity{}, "", &AuthError{Message: msg}
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return models.Identity{}, "", &AuthError{Message: "malformed login response"}
	}
	if lr.Token == "" {
		return models.Identity{}, "", &AuthError{Message: "login response missing token"}
	}
	return lr.User, lr.Token, nil
}
