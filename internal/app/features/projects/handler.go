// internal/app/features/projects/handler.go
package projects

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/chapelstack/chapelhub/internal/apiclient"
	uierrors "github.com/chapelstack/chapelhub/internal/app/features/errors"
	"github.com/chapelstack/chapelhub/internal/app/state"
	"github.com/chapelstack/chapelhub/internal/app/system/auth"
	"github.com/chapelstack/chapelhub/internal/app/system/authz"
	"github.com/chapelstack/chapelhub/internal/app/system/format"
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

type row struct {
	models.Project
	TargetDisplay  string
	RaisedDisplay  string
	StartDisplay   string
	ProgressPct    int
	StatusIsActive bool
}

type pageData struct {
	viewdata.BaseVM
	Rows      []row
	Draft     models.ProjectDraft
	ShowModal bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /projects                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s := h.State.Get(u.SID)
	restored := s.EnsureLoggedIn(u.Identity)
	s.SelectTab(authz.TabProjects)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	if restored {
		refresh.All(ctx, h.API, s, u, h.Log)
	} else {
		refresh.One(ctx, h.API, s, u, authz.ResourceProjects, h.Log)
	}

	h.render(w, r, s)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, s *state.Session) {
	view := s.Snapshot()

	data := pageData{
		BaseVM:    viewdata.NewBaseVM(r, "Projects", authz.TabProjects, s.TakeToast()),
		Draft:     view.ProjectDraft,
		ShowModal: view.Modal.Kind == state.ModalAddProject,
	}
	for _, p := range view.Projects {
		pct := 0
		if p.TargetAmount > 0 {
			pct = int(p.CurrentAmount / p.TargetAmount * 100)
			if pct > 100 {
				pct = 100
			}
		}
		data.Rows = append(data.Rows, row{
			Project:        p,
			TargetDisplay:  format.Currency(p.TargetAmount),
			RaisedDisplay:  format.Currency(p.CurrentAmount),
			StartDisplay:   format.Date(p.StartDate),
			ProgressPct:    pct,
			StatusIsActive: p.Status == "active",
		})
	}

	templates.Render(w, r, "projects", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Modal open / cancel                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		s := h.State.Get(u.SID)
		s.EnsureLoggedIn(u.Identity)
		s.OpenModal(state.Modal{Kind: state.ModalAddProject})
	}
	http.Redirect(w, r, "/projects", http.StatusSeeOther)
}

func (h *Handler) ServeCancel(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.State.Get(u.SID).Cancel()
	}
	http.Redirect(w, r, "/projects", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /projects                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/projects")
		return
	}

	s := h.State.Get(u.SID)
	s.EnsureLoggedIn(u.Identity)

	draft := models.ProjectDraft{
		ProjectName:  strings.TrimSpace(r.FormValue("project_name")),
		TargetAmount: strings.TrimSpace(r.FormValue("target_amount")),
		StartDate:    strings.TrimSpace(r.FormValue("start_date")),
	}
	s.SetProjectDraft(draft)

	if err := h.Validate.Struct(draft); err != nil {
		s.ShowToast("Please fill in the project name, target amount, and start date.", state.ToastError)
		s.OpenModal(state.Modal{Kind: state.ModalAddProject})
		http.Redirect(w, r, "/projects", http.StatusSeeOther)
		return
	}
	if amt, err := strconv.ParseFloat(draft.TargetAmount, 64); err != nil || amt <= 0 {
		s.ShowToast("Please enter a valid target amount.", state.ToastError)
		s.OpenModal(state.Modal{Kind: state.ModalAddProject})
		http.Redirect(w, r, "/projects", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.API.CreateProject(ctx, u.Token, draft)
	var subErr *apiclient.SubmitError
	switch {
	case err == nil:
		s.SubmitSucceeded(state.ModalAddProject)
		s.ShowToast("Project created successfully!", state.ToastSuccess)
	case errors.As(err, &subErr):
		msg := subErr.Message
		if msg == "" {
			msg = "Failed to create project."
		}
		s.ShowToast(msg, state.ToastError)
		s.OpenModal(state.Modal{Kind: state.ModalAddProject})
	case apiclient.IsNetwork(err):
		s.ShowToast("Network error. Please try again.", state.ToastError)
		s.OpenModal(state.Modal{Kind: state.ModalAddProject})
	default:
		h.Log.Error("project create failed", zap.Error(err))
		s.ShowToast("Failed to create project.", state.ToastError)
		s.OpenModal(state.Modal{Kind: state.ModalAddProject})
	}

	http.Redirect(w, r, "/projects", http.StatusSeeOther)
}
