// internal/app/features/users/handler.go
package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/chapelstack/chapelhub/internal/apiclient"
	uierrors "github.com/chapelstack/chapelhub/internal/app/features/errors"
	"github.com/chapelstack/chapelhub/internal/app/state"
	"github.com/chapelstack/chapelhub/internal/app/system/auth"
	"github.com/chapelstack/chapelhub/internal/app/system/authz"
	"github.com/chapelstack/chapelhub/internal/app/system/refresh"
	"github.com/chapelstack/chapelhub/internal/app/system/timeouts"
	"github.com/chapelstack/chapelhub/internal/app/system/viewdata"
	"github.com/chapelstack/chapelhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type Handler struct {
	API      *apiclient.Client
	State    *state.Store
	Validate *validator.Validate
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(api *apiclient.Client, st *state.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		API:      api,
		State:    st,
		Validate: validator.New(validator.WithRequiredStructEnabled()),
		ErrLog:   errLog,
		Log:      logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type userRow struct {
	models.User
	RoleDisplay string
	IsSelf      bool
}

type roleOption struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	viewdata.BaseVM
	Rows        []userRow
	Draft       models.UserDraft
	RoleOptions []roleOption
	ShowModal   bool
}

// assignableRoles are the roles an administrator may create accounts
// for. Regional admin accounts are provisioned out of band.
var assignableRoles = []authz.Role{
	authz.RoleSecretary,
	authz.RoleAccountant,
	authz.RoleGroupAdmin,
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /users                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s := h.State.Get(u.SID)
	restored := s.EnsureLoggedIn(u.Identity)
	s.SelectTab(authz.TabUsers)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	if restored {
		refresh.All(ctx, h.API, s, u, h.Log)
	} else {
		refresh.One(ctx, h.API, s, u, authz.ResourceUsers, h.Log)
	}

	h.render(w, r, s, u)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, s *state.Session, u *auth.SessionUser) {
	view := s.Snapshot()

	data := pageData{
		BaseVM:    viewdata.NewBaseVM(r, "User Management", authz.TabUsers, s.TakeToast()),
		Draft:     view.UserDraft,
		ShowModal: view.Modal.Kind == state.ModalAddUser,
	}
	for _, usr := range view.Users {
		display := usr.Role
		if role, ok := authz.ParseRole(usr.Role); ok {
			display = role.Display()
		}
		data.Rows = append(data.Rows, userRow{
			User:        usr,
			RoleDisplay: display,
			IsSelf:      usr.Username == u.Identity.Username,
		})
	}
	for _, role := range assignableRoles {
		data.RoleOptions = append(data.RoleOptions, roleOption{
			Value:    string(role),
			Label:    role.Display(),
			Selected: string(role) == view.UserDraft.Role,
		})
	}

	templates.Render(w, r, "users", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Modal open / cancel                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		s := h.State.Get(u.SID)
		s.EnsureLoggedIn(u.Identity)
		s.OpenModal(state.Modal{Kind: state.ModalAddUser})
	}
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

func (h *Handler) ServeCancel(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.State.Get(u.SID).Cancel()
	}
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /users                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/users")
		return
	}

	s := h.State.Get(u.SID)
	s.EnsureLoggedIn(u.Identity)

	draft := models.UserDraft{
		Username:    strings.TrimSpace(r.FormValue("username")),
		Password:    r.FormValue("password"),
		Role:        r.FormValue("role"),
		FullName:    strings.TrimSpace(r.FormValue("full_name")),
		PhoneNumber: strings.TrimSpace(r.FormValue("phone_number")),
		Email:       strings.TrimSpace(r.FormValue("email")),
		Gender:      r.FormValue("gender"),
	}
	s.SetUserDraft(draft)

	if err := h.Validate.Struct(draft); err != nil {
		s.ShowToast("Please fill in a username, password, and valid details.", state.ToastError)
		s.OpenModal(state.Modal{Kind: state.ModalAddUser})
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.API.CreateUser(ctx, u.Token, draft)
	var subErr *apiclient.SubmitError
	switch {
	case err == nil:
		s.SubmitSucceeded(state.ModalAddUser)
		s.ShowToast("User created successfully!", state.ToastSuccess)
	case errors.As(err, &subErr):
		msg := subErr.Message
		if msg == "" {
			msg = "Failed to create user."
		}
		s.ShowToast(msg, state.ToastError)
		s.OpenModal(state.Modal{Kind: state.ModalAddUser})
	case apiclient.IsNetwork(err):
		s.ShowToast("Network error. Please try again.", state.ToastError)
		s.OpenModal(state.Modal{Kind: state.ModalAddUser})
	default:
		h.Log.Error("user create failed", zap.Error(err))
		s.ShowToast("Failed to create user.", state.ToastError)
		s.OpenModal(state.Modal{Kind: state.ModalAddUser})
	}

	http.Redirect(w, r, "/users", http.StatusSeeOther)
}
