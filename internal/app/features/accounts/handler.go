// internal/app/features/accounts/handler.go
package accounts

import (
	"context"
	"net/http"

	"github.com/chapelstack/chapelhub/internal/apiclient"
	"github.com/chapelstack/chapelhub/internal/app/state"
	"github.com/chapelstack/chapelhub/internal/app/system/auth"
	"github.com/chapelstack/chapelhub/internal/app/system/authz"
	"github.com/chapelstack/chapelhub/internal/app/system/refresh"
	"github.com/chapelstack/chapelhub/internal/app/system/timeouts"
	"github.com/chapelstack/chapelhub/internal/app/system/viewdata"
	"github.com/chapelstack/chapelhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type Handler struct {
	API   *apiclient.Client
	State *state.Store
	Log   *zap.Logger
}

func NewHandler(api *apiclient.Client, st *state.Store, logger *zap.Logger) *Handler {
	return &Handler{
		API:   api,
		State: st,
		Log:   logger,
	}
}

type pageData struct {
	viewdata.BaseVM
	Accounts []models.AccountDetail
}

// ServeList handles GET /accounts.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s := h.State.Get(u.SID)
	restored := s.EnsureLoggedIn(u.Identity)
	s.SelectTab(authz.TabAccounts)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	if restored {
		refresh.All(ctx, h.API, s, u, h.Log)
	} else {
		refresh.One(ctx, h.API, s, u, authz.ResourceAccounts, h.Log)
	}

	view := s.Snapshot()
	templates.Render(w, r, "accounts", pageData{
		BaseVM:   viewdata.NewBaseVM(r, "Account Details", authz.TabAccounts, s.TakeToast()),
		Accounts: view.Accounts,
	})
}
