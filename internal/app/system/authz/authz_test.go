package authz_test

import (
	"testing"

	"github.com/chapelstack/chapelhub/internal/app/system/authz"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want authz.Role
		ok   bool
	}{
		{"secretary", authz.RoleSecretary, true},
		{"accountant", authz.RoleAccountant, true},
		{"group_admin", authz.RoleGroupAdmin, true},
		{"regional_admin", authz.RoleRegionalAdmin, true},
		{" Secretary ", authz.RoleSecretary, true},
		{"superadmin", "superadmin", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := authz.ParseRole(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseRole(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTabs_PerRole(t *testing.T) {
	cases := []struct {
		role authz.Role
		want []authz.Tab
	}{
		{authz.RoleSecretary, []authz.Tab{authz.TabDashboard, authz.TabAttendance}},
		{authz.RoleAccountant, []authz.Tab{authz.TabDashboard, authz.TabPayments, authz.TabAccounts}},
		{authz.RoleGroupAdmin, []authz.Tab{authz.TabDashboard, authz.TabAttendance, authz.TabPayments, authz.TabAccounts, authz.TabMembers}},
		{authz.RoleRegionalAdmin, []authz.Tab{authz.TabDashboard, authz.TabAttendance, authz.TabPayments, authz.TabAccounts, authz.TabMembers, authz.TabUsers, authz.TabProjects}},
	}
	for _, tc := range cases {
		got := authz.Tabs(tc.role)
		if len(got) != len(tc.want) {
			t.Errorf("Tabs(%s): got %v, want %v", tc.role, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("Tabs(%s)[%d]: got %q, want %q", tc.role, i, got[i], tc.want[i])
			}
		}
	}
}

func TestCanView_DeniesOutsideTable(t *testing.T) {
	if authz.CanView(authz.RoleSecretary, authz.TabPayments) {
		t.Error("secretary must not view payments")
	}
	if authz.CanView(authz.RoleAccountant, authz.TabAttendance) {
		t.Error("accountant must not view attendance")
	}
	if authz.CanView(authz.RoleGroupAdmin, authz.TabUsers) {
		t.Error("group admin must not view user management")
	}
	if authz.CanView(authz.RoleGroupAdmin, authz.TabProjects) {
		t.Error("group admin must not view projects")
	}
	if authz.CanView("unknown", authz.TabDashboard) {
		t.Error("unknown role must see nothing")
	}
}

func TestCanFetch_PerRole(t *testing.T) {
	if !authz.CanFetch(authz.RoleSecretary, authz.ResourceAttendance) {
		t.Error("secretary fetches attendance")
	}
	if authz.CanFetch(authz.RoleSecretary, authz.ResourcePayments) {
		t.Error("secretary must not fetch payments")
	}
	if !authz.CanFetch(authz.RoleGroupAdmin, authz.ResourceUsers) {
		t.Error("group admin fetches users for the member directory")
	}
	if authz.CanFetch(authz.RoleGroupAdmin, authz.ResourceProjects) {
		t.Error("group admin must not fetch projects")
	}
	if !authz.CanFetch(authz.RoleRegionalAdmin, authz.ResourceProjects) {
		t.Error("regional admin fetches projects")
	}
}

func TestResources_MatchCapabilityCounts(t *testing.T) {
	counts := map[authz.Role]int{
		authz.RoleSecretary:     1,
		authz.RoleAccountant:    2,
		authz.RoleGroupAdmin:    4,
		authz.RoleRegionalAdmin: 5,
	}
	for role, want := range counts {
		if got := len(authz.Resources(role)); got != want {
			t.Errorf("Resources(%s): got %d resources, want %d", role, got, want)
		}
	}
}

func TestRolesForTab(t *testing.T) {
	roles := authz.RolesForTab(authz.TabUsers)
	if len(roles) != 1 || roles[0] != authz.RoleRegionalAdmin {
		t.Errorf("RolesForTab(users): got %v, want [regional_admin]", roles)
	}

	all := authz.RolesForTab(authz.TabDashboard)
	if len(all) != 4 {
		t.Errorf("RolesForTab(dashboard): got %d roles, want 4", len(all))
	}
}
