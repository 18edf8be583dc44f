package attendance_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/chapelstack/chapelhub/internal/app/features/attendance"
	uierrors "github.com/chapelstack/chapelhub/internal/app/features/errors"
	"github.com/chapelstack/chapelhub/internal/app/state"
	"github.com/chapelstack/chapelhub/internal/domain/models"
	"github.com/chapelstack/chapelhub/internal/testutil"
	"go.uber.org/zap"
)

func newHandler(t *testing.T, stub *testutil.APIStub) (*attendance.Handler, *state.Store) {
	t.Helper()
	logger := zap.NewNop()
	st := state.NewStore()
	return attendance.NewHandler(stub.Client(t), st, uierrors.NewErrorLogger(logger), logger), st
}

func loggedInSession(st *state.Store, user testutil.TestUser) *state.Session {
	s := st.Get(user.SID)
	s.Login(user.Identity())
	return s
}

func postSubmit(h *attendance.Handler, user testutil.TestUser, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/attendance", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, user)
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, req)
	return rec
}

func TestHandleSubmit_SendsDerivedTotals(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	h, st := newHandler(t, stub)
	user := testutil.SecretaryUser()
	loggedInSession(st, user)

	rec := postSubmit(h, user, url.Values{
		"service_date":   {"2026-08-30"},
		"men":            {"10"},
		"women":          {"15"},
		"youth_boys":     {"3"},
		"youth_girls":    {"4"},
		"children_boys":  {"2"},
		"children_girls": {"1"},
		"new_converts":   {"1"},
		"youtube":        {"5"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/attendance" {
		t.Errorf("redirect = %q, want /attendance", loc)
	}

	var sub models.AttendanceSubmission
	stub.LastSubmission(t, "attendance/submit", &sub)
	if sub.ServiceDate != "2026-08-30" {
		t.Errorf("service date = %q", sub.ServiceDate)
	}
	if sub.YouthTotal != 7 {
		t.Errorf("youth total = %d, want 7", sub.YouthTotal)
	}
	if sub.ChildrenTotal != 3 {
		t.Errorf("children total = %d, want 3", sub.ChildrenTotal)
	}
	if sub.TotalHeadcount != 35 {
		t.Errorf("total headcount = %d, want 35", sub.TotalHeadcount)
	}
}

func TestHandleSubmit_SuccessResetsDraftAndClosesModal(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	h, st := newHandler(t, stub)
	user := testutil.SecretaryUser()
	s := loggedInSession(st, user)
	s.OpenModal(state.Modal{Kind: state.ModalRecordAttendance})

	postSubmit(h, user, url.Values{"service_date": {"2026-08-30"}, "men": {"4"}})

	view := s.Snapshot()
	if view.Modal.Kind != state.ModalClosed {
		t.Error("modal should close on success")
	}
	if view.AttendanceDraft != models.DefaultAttendanceDraft() {
		t.Errorf("draft should reset, got %+v", view.AttendanceDraft)
	}
	toast := s.TakeToast()
	if toast == nil || toast.Message != "Attendance recorded successfully!" {
		t.Errorf("toast = %+v", toast)
	}
}

func TestHandleSubmit_MissingDateKeepsDraftAndReopensModal(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	h, st := newHandler(t, stub)
	user := testutil.SecretaryUser()
	s := loggedInSession(st, user)

	postSubmit(h, user, url.Values{"men": {"12"}, "women": {"8"}})

	view := s.Snapshot()
	if view.Modal.Kind != state.ModalRecordAttendance {
		t.Error("modal should stay open on validation failure")
	}
	if view.AttendanceDraft.Men != "12" || view.AttendanceDraft.Women != "8" {
		t.Errorf("draft lost on validation failure: %+v", view.AttendanceDraft)
	}
	toast := s.TakeToast()
	if toast == nil || toast.Message != "Please select a service date." {
		t.Errorf("toast = %+v", toast)
	}
	if _, ok := stub.LastBodyRecorded("attendance/submit"); ok {
		t.Error("invalid form must never reach the API")
	}
}

func TestHandleSubmit_ServerRejectionCarriesMessage(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	stub.SubmitStatus = 400
	stub.SubmitError = "Attendance already recorded for this date"
	h, st := newHandler(t, stub)
	user := testutil.SecretaryUser()
	s := loggedInSession(st, user)

	postSubmit(h, user, url.Values{"service_date": {"2026-08-30"}})

	view := s.Snapshot()
	if view.Modal.Kind != state.ModalRecordAttendance {
		t.Error("modal should reopen on server rejection")
	}
	if view.AttendanceDraft.ServiceDate != "2026-08-30" {
		t.Error("draft should survive a rejected submission")
	}
	toast := s.TakeToast()
	if toast == nil || toast.Message != "Attendance already recorded for this date" {
		t.Errorf("toast = %+v", toast)
	}
	if toast.Kind != state.ToastError {
		t.Errorf("toast kind = %q, want error", toast.Kind)
	}
}

func TestHandleSubmit_NetworkFailureShowsGenericMessage(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	h, st := newHandler(t, stub)
	stub.Server.Close()
	user := testutil.SecretaryUser()
	s := loggedInSession(st, user)

	postSubmit(h, user, url.Values{"service_date": {"2026-08-30"}})

	toast := s.TakeToast()
	if toast == nil || toast.Message != "Network error. Please try again." {
		t.Errorf("toast = %+v", toast)
	}
}

func TestServeNew_OpensModalWithoutTouchingDraft(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	h, st := newHandler(t, stub)
	user := testutil.SecretaryUser()
	s := loggedInSession(st, user)
	s.SetAttendanceDraft(models.AttendanceDraft{ServiceDate: "2026-08-30", Men: "9"})

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/attendance/new", user)
	rec := httptest.NewRecorder()
	h.ServeNew(rec, req)

	view := s.Snapshot()
	if view.Modal.Kind != state.ModalRecordAttendance {
		t.Error("modal should open")
	}
	if view.AttendanceDraft.Men != "9" {
		t.Error("opening the modal must not reset the draft")
	}
}

func TestServeCancel_ResetsDraft(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	h, st := newHandler(t, stub)
	user := testutil.SecretaryUser()
	s := loggedInSession(st, user)
	s.OpenModal(state.Modal{Kind: state.ModalRecordAttendance})
	s.SetAttendanceDraft(models.AttendanceDraft{ServiceDate: "2026-08-30"})

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/attendance/cancel", user)
	h.ServeCancel(httptest.NewRecorder(), req)

	view := s.Snapshot()
	if view.Modal.Kind != state.ModalClosed {
		t.Error("modal should close")
	}
	if view.AttendanceDraft != models.DefaultAttendanceDraft() {
		t.Error("cancel should reset the draft")
	}
}

func TestServeList_ReFetchesAttendanceOnce(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	stub.Attendance = []models.AttendanceRecord{{ID: 1, ServiceDate: "2026-08-30"}}
	h, st := newHandler(t, stub)
	user := testutil.SecretaryUser()
	loggedInSession(st, user)

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/attendance", user)
	rec := httptest.NewRecorder()
	func() {
		defer func() { recover() }()
		h.ServeList(rec, req)
	}()

	if got := stub.FetchCount("attendance"); got != 1 {
		t.Errorf("attendance fetches = %d, want 1", got)
	}
	if got := stub.TotalFetches(); got != 1 {
		t.Errorf("total fetches = %d, want 1", got)
	}
}

func TestServeList_RestoredSessionRefetchesAll(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	h, _ := newHandler(t, stub)
	user := testutil.RegionalAdminUser()

	// No prior Login on the server-side session: the cookie survived a
	// restart and the state must be rebuilt from scratch.
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/attendance", user)
	func() {
		defer func() { recover() }()
		h.ServeList(httptest.NewRecorder(), req)
	}()

	if got := stub.TotalFetches(); got != 5 {
		t.Errorf("total fetches after restore = %d, want 5", got)
	}
}

func TestServePDF_StreamsAttachment(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	h, st := newHandler(t, stub)
	user := testutil.SecretaryUser()
	loggedInSession(st, user)

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/attendance/pdf", user)
	rec := httptest.NewRecorder()
	h.ServePDF(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attendance_records.pdf") {
		t.Errorf("content disposition = %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("body should be the PDF bytes")
	}
}

func TestServePDF_FailureRedirectsWithToast(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	h, st := newHandler(t, stub)
	stub.Server.Close()
	user := testutil.SecretaryUser()
	s := loggedInSession(st, user)

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/attendance/pdf", user)
	rec := httptest.NewRecorder()
	h.ServePDF(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	toast := s.TakeToast()
	if toast == nil || toast.Message != "Failed to download attendance records." {
		t.Errorf("toast = %+v", toast)
	}
}
