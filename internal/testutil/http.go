package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/chapelstack/chapelhub/internal/app/system/auth"
	"github.com/chapelstack/chapelhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	SID      string
	Username string
	Role     string
	FullName string
	Token    string
}

// SecretaryUser returns a TestUser with the secretary role.
func SecretaryUser() TestUser {
	return newTestUser("sec_user", "secretary", "Test Secretary")
}

// AccountantUser returns a TestUser with the accountant role.
func AccountantUser() TestUser {
	return newTestUser("acc_user", "accountant", "Test Accountant")
}

// GroupAdminUser returns a TestUser with the group admin role.
func GroupAdminUser() TestUser {
	return newTestUser("grp_admin", "group_admin", "Test Group Admin")
}

// RegionalAdminUser returns a TestUser with the regional admin role.
func RegionalAdminUser() TestUser {
	return newTestUser("reg_admin", "regional_admin", "Test Regional Admin")
}

func newTestUser(username, role, name string) TestUser {
	return TestUser{
		SID:      uuid.NewString(),
		Username: username,
		Role:     role,
		FullName: name,
		Token:    "test-token-" + username,
	}
}

// Identity returns the models.Identity for the test user.
func (u TestUser) Identity() models.Identity {
	return models.Identity{
		Username: u.Username,
		Role:     u.Role,
		FullName: u.FullName,
	}
}

// SessionUser returns the auth.SessionUser for the test user.
func (u TestUser) SessionUser() *auth.SessionUser {
	return &auth.SessionUser{
		SID:      u.SID,
		Identity: u.Identity(),
		Token:    u.Token,
	}
}

// WithUser adds a user to the request context for testing authenticated
// handlers. This bypasses the session middleware and injects the user
// directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, user.SessionUser())
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return WithUser(req, user)
}
