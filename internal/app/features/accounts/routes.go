// internal/app/features/accounts/routes.go
package accounts

import (
	"github.com/chapelstack/chapelhub/internal/app/system/auth"
	"github.com/chapelstack/chapelhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireTab(authz.TabAccounts))
		pr.Get("/", h.ServeList)
	})

	return r
}
