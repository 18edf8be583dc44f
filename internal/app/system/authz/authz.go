// internal/app/system/authz/authz.go
//
// Package authz centralizes the role→capability table. Every navigation
// entry, fetch decision, and route guard consults this table rather than
// re-checking roles ad hoc at each call site.
package authz

// Tab identifies one of the named views in the application.
type Tab string

const (
	TabDashboard  Tab = "dashboard"
	TabAttendance Tab = "attendance"
	TabPayments   Tab = "payments"
	TabAccounts   Tab = "accounts"
	TabMembers    Tab = "members"
	TabUsers      Tab = "users"
	TabProjects   Tab = "projects"
)

// Resource identifies one of the independently fetched collections.
type Resource string

const (
	ResourceAttendance Resource = "attendance"
	ResourcePayments   Resource = "payments"
	ResourceAccounts   Resource = "accounts"
	ResourceProjects   Resource = "projects"
	ResourceUsers      Resource = "users"
)

// tabTable maps each role to the tabs its navigation exposes, in
// display order. A tab absent here is structurally unreachable for the
// role: it is never rendered and its routes reject the role.
var tabTable = map[Role][]Tab{
	RoleSecretary:  {TabDashboard, TabAttendance},
	RoleAccountant: {TabDashboard, TabPayments, TabAccounts},
	RoleGroupAdmin: {TabDashboard, TabAttendance, TabPayments, TabAccounts, TabMembers},
	RoleRegionalAdmin: {
		TabDashboard, TabAttendance, TabPayments, TabAccounts,
		TabMembers, TabUsers, TabProjects,
	},
}

// resourceTable maps each role to the collections it may fetch. Group
// admins fetch users for the member directory even though they have no
// user-management tab.
var resourceTable = map[Role][]Resource{
	RoleSecretary:  {ResourceAttendance},
	RoleAccountant: {ResourcePayments, ResourceAccounts},
	RoleGroupAdmin: {ResourceAttendance, ResourcePayments, ResourceAccounts, ResourceUsers},
	RoleRegionalAdmin: {
		ResourceAttendance, ResourcePayments, ResourceAccounts,
		ResourceUsers, ResourceProjects,
	},
}

// Tabs returns the navigation tabs permitted for the role.
func Tabs(r Role) []Tab {
	return tabTable[r]
}

// Resources returns the collections the role is permitted to fetch.
func Resources(r Role) []Resource {
	return resourceTable[r]
}

// CanView reports whether the role's navigation includes the tab.
func CanView(r Role, t Tab) bool {
	for _, have := range tabTable[r] {
		if have == t {
			return true
		}
	}
	return false
}

// CanFetch reports whether the role may fetch the resource.
func CanFetch(r Role, res Resource) bool {
	for _, have := range resourceTable[r] {
		if have == res {
			return true
		}
	}
	return false
}

// RolesForTab returns every role whose navigation includes the tab.
// Route guards use this to keep middleware and navigation in lockstep.
func RolesForTab(t Tab) []Role {
	var out []Role
	for _, r := range []Role{RoleSecretary, RoleAccountant, RoleGroupAdmin, RoleRegionalAdmin} {
		if CanView(r, t) {
			out = append(out, r)
		}
	}
	return out
}
