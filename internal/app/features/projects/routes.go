// internal/app/features/projects/routes.go
package projects

import (
	"github.com/chapelstack/chapelhub/internal/app/system/auth"
	"github.com/chapelstack/chapelhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireTab(authz.TabProjects))
		pr.Get("/", h.ServeList)
		pr.Get("/new", h.ServeNew)
		pr.Get("/cancel", h.ServeCancel)
		pr.Post("/", h.HandleCreate)
	})

	return r
}
