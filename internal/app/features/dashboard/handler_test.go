package dashboard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chapelstack/chapelhub/internal/app/features/dashboard"
	"github.com/chapelstack/chapelhub/internal/app/state"
	"github.com/chapelstack/chapelhub/internal/testutil"
	"go.uber.org/zap"
)

func newHandler(t *testing.T, stub *testutil.APIStub) (*dashboard.Handler, *state.Store) {
	t.Helper()
	st := state.NewStore()
	return dashboard.NewHandler(stub.Client(t), st, zap.NewNop()), st
}

func serve(h *dashboard.Handler, user testutil.TestUser) *httptest.ResponseRecorder {
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard", user)
	rec := httptest.NewRecorder()
	func() {
		defer func() { recover() }()
		h.ServeDashboard(rec, req)
	}()
	return rec
}

func TestServeDashboard_AnonymousRedirectsHome(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	h, _ := newHandler(t, stub)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	h.ServeDashboard(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect = %q, want /", loc)
	}
	if stub.TotalFetches() != 0 {
		t.Error("anonymous request must not trigger fetches")
	}
}

func TestServeDashboard_FetchScopePerRole(t *testing.T) {
	cases := []struct {
		name    string
		user    testutil.TestUser
		fetches int
	}{
		{"secretary", testutil.SecretaryUser(), 1},
		{"accountant", testutil.AccountantUser(), 2},
		{"group admin", testutil.GroupAdminUser(), 4},
		{"regional admin", testutil.RegionalAdminUser(), 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := testutil.NewAPIStub(t)
			h, st := newHandler(t, stub)
			st.Get(tc.user.SID).Login(tc.user.Identity())

			serve(h, tc.user)

			if got := stub.TotalFetches(); got != tc.fetches {
				t.Errorf("total fetches = %d, want %d", got, tc.fetches)
			}
		})
	}
}

func TestServeDashboard_SecretaryNeverFetchesPayments(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	h, st := newHandler(t, stub)
	user := testutil.SecretaryUser()
	st.Get(user.SID).Login(user.Identity())

	serve(h, user)

	for _, res := range []string{"payments", "accounts", "projects", "users"} {
		if stub.FetchCount(res) != 0 {
			t.Errorf("secretary dashboard must not fetch %s", res)
		}
	}
}
