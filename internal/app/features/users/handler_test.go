package users_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/chapelstack/chapelhub/internal/app/features/errors"
	"github.com/chapelstack/chapelhub/internal/app/features/users"
	"github.com/chapelstack/chapelhub/internal/app/state"
	"github.com/chapelstack/chapelhub/internal/domain/models"
	"github.com/chapelstack/chapelhub/internal/testutil"
	"go.uber.org/zap"
)

func newHandler(t *testing.T, stub *testutil.APIStub) (*users.Handler, *state.Store) {
	t.Helper()
	logger := zap.NewNop()
	st := state.NewStore()
	return users.NewHandler(stub.Client(t), st, uierrors.NewErrorLogger(logger), logger), st
}

func postCreate(h *users.Handler, user testutil.TestUser, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, user)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)
	return rec
}

func TestHandleCreate_SendsDraft(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	h, st := newHandler(t, stub)
	user := testutil.RegionalAdminUser()
	s := st.Get(user.SID)
	s.Login(user.Identity())

	rec := postCreate(h, user, url.Values{
		"username":     {"new_sec"},
		"password":     {"s3cret"},
		"role":         {"secretary"},
		"full_name":    {"New Secretary"},
		"phone_number": {"08012345678"},
		"email":        {"sec@example.org"},
		"gender":       {"female"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}

	var sent models.UserDraft
	stub.LastSubmission(t, "users", &sent)
	if sent.Username != "new_sec" || sent.Role != "secretary" || sent.Gender != "female" {
		t.Errorf("submission = %+v", sent)
	}

	toast := s.TakeToast()
	if toast == nil || toast.Message != "User created successfully!" {
		t.Errorf("toast = %+v", toast)
	}
	if s.Snapshot().UserDraft != models.DefaultUserDraft() {
		t.Error("draft should reset on success")
	}
}

func TestHandleCreate_InvalidDraftNeverReachesAPI(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	h, st := newHandler(t, stub)
	user := testutil.RegionalAdminUser()
	s := st.Get(user.SID)
	s.Login(user.Identity())

	cases := []url.Values{
		// missing password
		{"username": {"x"}, "role": {"secretary"}, "gender": {"male"}},
		// role outside the assignable set
		{"username": {"x"}, "password": {"pw"}, "role": {"regional_admin"}, "gender": {"male"}},
		// malformed email
		{"username": {"x"}, "password": {"pw"}, "role": {"secretary"}, "gender": {"male"}, "email": {"not-an-email"}},
	}
	for i, form := range cases {
		postCreate(h, user, form)
		toast := s.TakeToast()
		if toast == nil || toast.Message != "Please fill in a username, password, and valid details." {
			t.Errorf("case %d: toast = %+v", i, toast)
		}
		if s.Snapshot().Modal.Kind != state.ModalAddUser {
			t.Errorf("case %d: modal should reopen", i)
		}
	}
	if _, ok := stub.LastBodyRecorded("users"); ok {
		t.Error("invalid drafts must never reach the API")
	}
}

func TestHandleCreate_ServerRejectionKeepsDraft(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	stub.SubmitStatus = 409
	stub.SubmitError = "Username already exists"
	h, st := newHandler(t, stub)
	user := testutil.RegionalAdminUser()
	s := st.Get(user.SID)
	s.Login(user.Identity())

	postCreate(h, user, url.Values{
		"username": {"taken"},
		"password": {"pw"},
		"role":     {"accountant"},
		"gender":   {"male"},
	})

	view := s.Snapshot()
	if view.UserDraft.Username != "taken" {
		t.Error("draft should survive a rejected create")
	}
	toast := s.TakeToast()
	if toast == nil || toast.Message != "Username already exists" {
		t.Errorf("toast = %+v", toast)
	}
}

func TestServeList_FetchesOnlyUsers(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	h, st := newHandler(t, stub)
	user := testutil.RegionalAdminUser()
	st.Get(user.SID).Login(user.Identity())

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/users", user)
	func() {
		defer func() { recover() }()
		h.ServeList(httptest.NewRecorder(), req)
	}()

	if stub.FetchCount("users") != 1 {
		t.Error("users should be fetched once")
	}
	if got := stub.TotalFetches(); got != 1 {
		t.Errorf("total fetches = %d, want 1", got)
	}
}
