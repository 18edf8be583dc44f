// internal/app/features/members/handler.go
package members

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

type memberRow struct {
	models.User
	RoleDisplay string
}

type pageData struct {
	viewdata.BaseVM
	Members []memberRow
}

// ServeList handles GET /members: the member directory. Regional
// admins are administrators, not congregation members, so they are
// excluded from the listing.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s := h.State.Get(u.SID)
	restored := s.EnsureLoggedIn(u.Identity)
	s.SelectTab(authz.TabMembers)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	if restored {
		refresh.All(ctx, h.API, s, u, h.Log)
	} else {
		refresh.One(ctx, h.API, s, u, authz.ResourceUsers, h.Log)
	}

	data := pageData{
		BaseVM: viewdata.NewBaseVM(r, "Members", authz.TabMembers, s.TakeToast()),
	}
	for _, usr := range s.Snapshot().Users {
		role, ok := authz.ParseRole(usr.Role)
		if !ok || role == authz.RoleRegionalAdmin {
			continue
		}
		data.Members = append(data.Members, memberRow{
			User:        usr,
			RoleDisplay: role.Display(),
		})
	}

	templates.Render(w, r, "members", data)
}
