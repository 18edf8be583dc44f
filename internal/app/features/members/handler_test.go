package members_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chapelstack/chapelhub/internal/app/features/members"
	"github.com/chapelstack/chapelhub/internal/app/state"
	"github.com/chapelstack/chapelhub/internal/domain/models"
	"github.com/chapelstack/chapelhub/internal/testutil"
	"go.uber.org/zap"
)

func serveList(t *testing.T, stub *testutil.APIStub, user testutil.TestUser, preLogin bool) *httptest.ResponseRecorder {
	t.Helper()
	st := state.NewStore()
	if preLogin {
		st.Get(user.SID).Login(user.Identity())
	}
	h := members.NewHandler(stub.Client(t), st, zap.NewNop())

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/members", user)
	rec := httptest.NewRecorder()
	func() {
		defer func() { recover() }()
		h.ServeList(rec, req)
	}()
	return rec
}

func TestServeList_FetchesOnlyUsers(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	stub.Users = []models.User{
		{Username: "sec_user", Role: "secretary"},
		{Username: "reg_admin", Role: "regional_admin"},
	}

	serveList(t, stub, testutil.GroupAdminUser(), true)

	if stub.FetchCount("users") != 1 {
		t.Error("members page should fetch the user directory once")
	}
	if got := stub.TotalFetches(); got != 1 {
		t.Errorf("total fetches = %d, want 1", got)
	}
}

func TestServeList_RestoredGroupAdminRefetchesAll(t *testing.T) {
	stub := testutil.NewAPIStub(t)

	serveList(t, stub, testutil.GroupAdminUser(), false)

	// group_admin sees attendance, payments, projects and users.
	if got := stub.TotalFetches(); got != 4 {
		t.Errorf("total fetches after restore = %d, want 4", got)
	}
}

func TestServeList_AnonymousRedirectsHome(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	h := members.NewHandler(stub.Client(t), state.NewStore(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/members", nil)
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect = %q, want /", loc)
	}
}
