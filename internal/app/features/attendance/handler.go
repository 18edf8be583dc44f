// internal/app/features/attendance/handler.go
package attendance

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
	"github.com/chapelstack/chapelhub/internal/app/system/format"
	"github.com/chapelstack/chapelhub/internal/app/system/headcount"
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
	models.AttendanceRecord
	DateDisplay string
}

type pageData struct {
	viewdata.BaseVM
	Rows      []row
	Draft     models.AttendanceDraft
	ShowModal bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /attendance                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s := h.State.Get(u.SID)
	restored := s.EnsureLoggedIn(u.Identity)
	s.SelectTab(authz.TabAttendance)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	if restored {
		refresh.All(ctx, h.API, s, u, h.Log)
	} else {
		refresh.One(ctx, h.API, s, u, authz.ResourceAttendance, h.Log)
	}

	h.render(w, r, s)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, s *state.Session) {
	view := s.Snapshot()

	data := pageData{
		BaseVM:    viewdata.NewBaseVM(r, "Attendance", authz.TabAttendance, s.TakeToast()),
		Draft:     view.AttendanceDraft,
		ShowModal: view.Modal.Kind == state.ModalRecordAttendance,
	}
	for _, rec := range view.Attendance {
		data.Rows = append(data.Rows, row{
			AttendanceRecord: rec,
			DateDisplay:      format.Date(rec.ServiceDate),
		})
	}

	templates.Render(w, r, "attendance", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Modal open / cancel                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeNew handles GET /attendance/new: open the record-attendance
// modal. The draft is deliberately left as-is so a half-filled form
// survives closing and reopening.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		s := h.State.Get(u.SID)
		s.EnsureLoggedIn(u.Identity)
		s.OpenModal(state.Modal{Kind: state.ModalRecordAttendance})
	}
	http.Redirect(w, r, "/attendance", http.StatusSeeOther)
}

// ServeCancel handles GET /attendance/cancel: close the modal and reset
// the draft to its defaults.
func (h *Handler) ServeCancel(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.State.Get(u.SID).Cancel()
	}
	http.Redirect(w, r, "/attendance", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /attendance                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/attendance")
		return
	}

	s := h.State.Get(u.SID)
	s.EnsureLoggedIn(u.Identity)

	draft := models.AttendanceDraft{
		ServiceDate:   strings.TrimSpace(r.FormValue("service_date")),
		Men:           r.FormValue("men"),
		Women:         r.FormValue("women"),
		YouthBoys:     r.FormValue("youth_boys"),
		YouthGirls:    r.FormValue("youth_girls"),
		ChildrenBoys:  r.FormValue("children_boys"),
		ChildrenGirls: r.FormValue("children_girls"),
		NewConverts:   r.FormValue("new_converts"),
		YouTube:       r.FormValue("youtube"),
	}
	s.SetAttendanceDraft(draft)

	if err := h.Validate.Struct(draft); err != nil {
		s.ShowToast("Please select a service date.", state.ToastError)
		s.OpenModal(state.Modal{Kind: state.ModalRecordAttendance})
		http.Redirect(w, r, "/attendance", http.StatusSeeOther)
		return
	}

	totals := headcount.Derive(draft.Men, draft.Women,
		draft.YouthBoys, draft.YouthGirls,
		draft.ChildrenBoys, draft.ChildrenGirls)

	sub := models.AttendanceSubmission{
		ServiceDate:    draft.ServiceDate,
		Men:            headcount.Coerce(draft.Men),
		Women:          headcount.Coerce(draft.Women),
		YouthBoys:      headcount.Coerce(draft.YouthBoys),
		YouthGirls:     headcount.Coerce(draft.YouthGirls),
		ChildrenBoys:   headcount.Coerce(draft.ChildrenBoys),
		ChildrenGirls:  headcount.Coerce(draft.ChildrenGirls),
		NewConverts:    headcount.Coerce(draft.NewConverts),
		YouTube:        headcount.Coerce(draft.YouTube),
		YouthTotal:     totals.Youth,
		ChildrenTotal:  totals.Children,
		TotalHeadcount: totals.Total,
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.API.SubmitAttendance(ctx, u.Token, sub)
	var subErr *apiclient.SubmitError
	switch {
	case err == nil:
		s.SubmitSucceeded(state.ModalRecordAttendance)
		s.ShowToast("Attendance recorded successfully!", state.ToastSuccess)
	case errors.As(err, &subErr):
		msg := subErr.Message
		if msg == "" {
			msg = "Failed to record attendance."
		}
		s.ShowToast(msg, state.ToastError)
		s.OpenModal(state.Modal{Kind: state.ModalRecordAttendance})
	case apiclient.IsNetwork(err):
		s.ShowToast("Network error. Please try again.", state.ToastError)
		s.OpenModal(state.Modal{Kind: state.ModalRecordAttendance})
	default:
		h.Log.Error("attendance submit failed", zap.Error(err))
		s.ShowToast("Failed to record attendance.", state.ToastError)
		s.OpenModal(state.Modal{Kind: state.ModalRecordAttendance})
	}

	http.Redirect(w, r, "/attendance", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /attendance/pdf                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServePDF(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	raw, contentType, err := h.API.AttendancePDF(ctx, u.Token)
	if err != nil {
		h.Log.Warn("attendance export failed", zap.Error(err))
		s := h.State.Get(u.SID)
		s.ShowToast("Failed to download attendance records.", state.ToastError)
		http.Redirect(w, r, "/attendance", http.StatusSeeOther)
		return
	}

	if contentType == "" {
		contentType = "application/pdf"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="attendance_records.pdf"`)
	w.Write(raw)
}
