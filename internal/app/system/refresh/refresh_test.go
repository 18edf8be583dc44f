package refresh_test

import (
	"context"
	"testing"

	"github.com/chapelstack/chapelhub/internal/app/state"
	"github.com/chapelstack/chapelhub/internal/app/system/authz"
	"github.com/chapelstack/chapelhub/internal/app/system/refresh"
	"github.com/chapelstack/chapelhub/internal/domain/models"
	"github.com/chapelstack/chapelhub/internal/testutil"
	"go.uber.org/zap"
)

func TestAll_SecretaryFetchesOnlyAttendance(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	stub.Attendance = []models.AttendanceRecord{{ID: 1}}
	client := stub.Client(t)

	user := testutil.SecretaryUser()
	s := &state.Session{}
	s.Login(user.Identity())

	refresh.All(context.Background(), client, s, user.SessionUser(), zap.NewNop())

	if got := stub.TotalFetches(); got != 1 {
		t.Errorf("total fetches = %d, want 1", got)
	}
	if stub.FetchCount("attendance") != 1 {
		t.Error("attendance should have been fetched")
	}
	if stub.FetchCount("payments") != 0 {
		t.Error("secretary must never fetch payments")
	}
	if len(s.Snapshot().Attendance) != 1 {
		t.Error("attendance collection not applied")
	}
}

func TestAll_RegionalAdminFetchesEverything(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	client := stub.Client(t)

	user := testutil.RegionalAdminUser()
	s := &state.Session{}
	s.Login(user.Identity())

	refresh.All(context.Background(), client, s, user.SessionUser(), zap.NewNop())

	if got := stub.TotalFetches(); got != 5 {
		t.Errorf("total fetches = %d, want 5", got)
	}
	for _, res := range []string{"attendance", "payments", "accounts", "projects", "users"} {
		if stub.FetchCount(res) != 1 {
			t.Errorf("%s: fetched %d times, want 1", res, stub.FetchCount(res))
		}
	}
}

func TestOne_DeniedResourceNeverFetched(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	client := stub.Client(t)

	user := testutil.AccountantUser()
	s := &state.Session{}
	s.Login(user.Identity())

	if refresh.One(context.Background(), client, s, user.SessionUser(), authz.ResourceAttendance, zap.NewNop()) {
		t.Error("accountant attendance fetch should be refused")
	}
	if stub.FetchCount("attendance") != 0 {
		t.Error("no request should reach the API for a denied resource")
	}
}

func TestOne_FetchFailureSetsErrorToast(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	stub.FetchStatus = 500
	client := stub.Client(t)

	user := testutil.SecretaryUser()
	s := &state.Session{}
	s.Login(user.Identity())

	if refresh.One(context.Background(), client, s, user.SessionUser(), authz.ResourceAttendance, zap.NewNop()) {
		t.Error("failed fetch should report false")
	}
	toast := s.TakeToast()
	if toast == nil {
		t.Fatal("expected an error toast")
	}
	if toast.Kind != state.ToastError {
		t.Errorf("toast kind = %q, want error", toast.Kind)
	}
	if toast.Message != "Failed to fetch attendance data." {
		t.Errorf("toast message = %q", toast.Message)
	}
}

func TestOne_NetworkFailureUsesNetworkMessage(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	client := stub.Client(t)
	stub.Server.Close()

	user := testutil.SecretaryUser()
	s := &state.Session{}
	s.Login(user.Identity())

	refresh.One(context.Background(), client, s, user.SessionUser(), authz.ResourceAttendance, zap.NewNop())

	toast := s.TakeToast()
	if toast == nil {
		t.Fatal("expected an error toast")
	}
	if toast.Message != "Network error fetching attendance data." {
		t.Errorf("toast message = %q", toast.Message)
	}
}

func TestOne_ResultAfterLogoutDiscarded(t *testing.T) {
	stub := testutil.NewAPIStub(t)
	stub.Attendance = []models.AttendanceRecord{{ID: 1}}
	client := stub.Client(t)

	user := testutil.SecretaryUser()
	s := &state.Session{}
	s.Login(user.Identity())

	// Logout before the fetch starts; the session epoch moves on and the
	// refresh result must not land.
	s.Logout()

	if refresh.One(context.Background(), client, s, user.SessionUser(), authz.ResourceAttendance, zap.NewNop()) {
		t.Error("result for a logged-out session should be discarded")
	}
	if len(s.Snapshot().Attendance) != 0 {
		t.Error("collection applied after logout")
	}
}
