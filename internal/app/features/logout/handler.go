// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/chapelstack/chapelhub/internal/app/state"
	"github.com/chapelstack/chapelhub/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	State      *state.Store
}

func NewHandler(sessionMgr *auth.SessionManager, st *state.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		State:      st,
	}
}

// ServeLogout handles GET /logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	// Drop server-side UI state first so any fetch still in flight for
	// this session resolves into nothing.
	if u, ok := auth.CurrentUser(r); ok && h.State != nil {
		h.State.Drop(u.SID)
		h.Log.Info("user signed out", zap.String("username", u.Identity.Username))
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: clear session", zap.Error(err))
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
