// internal/app/features/login/handler.go
package login

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
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type Handler struct {
	API        *apiclient.Client
	State      *state.Store
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(api *apiclient.Client, st *state.Store, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		API:        api,
		State:      st,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Log:        logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Username  string
	ReturnURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	ret := query.Get(r, "return")

	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Login", "", nil),
		ReturnURL: ret,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if username == "" || password == "" {
		h.renderFormWithError(w, r, "Please enter your username and password.", username)
		return
	}

	/*── authenticate against the upstream API ─────────────────────────────*/

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	identity, token, err := h.API.Login(ctx, username, password)
	if err != nil {
		var authErr *apiclient.AuthError
		switch {
		case errors.As(err, &authErr):
			msg := authErr.Message
			if msg == "" {
				msg = "Invalid username or password."
			}
			h.renderFormWithError(w, r, msg, username)
		case apiclient.IsNetwork(err):
			h.renderFormWithError(w, r, "Network error. Please try again.", username)
		default:
			h.ErrLog.LogServerError(w, r, "login request failed", err, "A server error occurred.", "/login")
		}
		return
	}

	role, ok := authz.ParseRole(identity.Role)
	if !ok {
		h.Log.Warn("login rejected: unknown role",
			zap.String("username", username),
			zap.String("role", identity.Role))
		h.renderFormWithError(w, r, "Your account role is not recognized.", username)
		return
	}

	/*── establish the session and seed its state ──────────────────────────*/

	sid, err := h.SessionMgr.SignIn(w, r, identity, token)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "sign in failed", err, "A server error occurred.", "/login")
		return
	}

	s := h.State.Get(sid)
	s.Login(identity)

	u := &auth.SessionUser{SID: sid, Identity: identity, Token: token}
	fctx, fcancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer fcancel()
	refresh.All(fctx, h.API, s, u, h.Log)

	h.Log.Info("user signed in",
		zap.String("username", identity.Username),
		zap.String("role", string(role)))

	ret := strings.TrimSpace(r.FormValue("return"))
	if !safeReturn(ret) {
		ret = "/dashboard"
	}
	http.Redirect(w, r, ret, http.StatusSeeOther)
}

// safeReturn accepts only same-site absolute paths.
func safeReturn(ret string) bool {
	return strings.HasPrefix(ret, "/") && !strings.HasPrefix(ret, "//")
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, username string) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Login", "", nil),
		Error:     msg,
		Username:  username,
		ReturnURL: strings.TrimSpace(r.FormValue("return")),
	})
}
