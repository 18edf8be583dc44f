// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"
	"sync"

	"github.com/chapelstack/chapelhub/internal/app/state"
	"github.com/chapelstack/chapelhub/internal/app/system/auth"
	"github.com/chapelstack/chapelhub/internal/app/system/authz"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// TabVM is one navigation entry. Only tabs the current role is
// permitted to view are ever produced, so an unpermitted view is
// structurally unreachable from the navigation.
type TabVM struct {
	Tab    authz.Tab
	Label  string
	Path   string
	Active bool
}

var tabLabels = map[authz.Tab]string{
	authz.TabDashboard:  "Dashboard",
	authz.TabAttendance: "Attendance",
	authz.TabPayments:   "Payments",
	authz.TabAccounts:   "Account Details",
	authz.TabMembers:    "Members",
	authz.TabUsers:      "User Management",
	authz.TabProjects:   "Projects",
}

var tabPaths = map[authz.Tab]string{
	authz.TabDashboard:  "/dashboard",
	authz.TabAttendance: "/attendance",
	authz.TabPayments:   "/payments",
	authz.TabAccounts:   "/accounts",
	authz.TabMembers:    "/members",
	authz.TabUsers:      "/users",
	authz.TabProjects:   "/projects",
}

// BaseVM contains common fields for all view models. Embed it in
// feature-specific view models.
type BaseVM struct {
	SiteName string
	Tagline  string

	IsLoggedIn  bool
	Role        string
	RoleDisplay string
	Username    string
	FullName    string

	Title       string
	CurrentPath string
	CSRFToken   string

	Tabs []TabVM

	// One-slot transient toast taken from session state for this render.
	Toast       *state.Toast
	ToastMillis int64
}

var (
	mu       sync.RWMutex
	siteName = "ChapelHub"
	tagline  = "Congregation Management"
)

// Init sets the configured site branding. Call once at startup.
func Init(name, tag string) {
	mu.Lock()
	defer mu.Unlock()
	if name != "" {
		siteName = name
	}
	if tag != "" {
		tagline = tag
	}
}

// NewBaseVM builds the common view model for a page. active marks the
// navigation entry for the current tab; toast may be nil.
func NewBaseVM(r *http.Request, title string, active authz.Tab, toast *state.Toast) BaseVM {
	mu.RLock()
	vm := BaseVM{
		SiteName:    siteName,
		Tagline:     tagline,
		Title:       title,
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
		Toast:       toast,
		ToastMillis: state.ToastDuration.Milliseconds(),
	}
	mu.RUnlock()

	if u, ok := auth.CurrentUser(r); ok {
		role := u.Role()
		vm.IsLoggedIn = true
		vm.Role = string(role)
		vm.RoleDisplay = role.Display()
		vm.Username = u.Identity.Username
		vm.FullName = u.Identity.FullName
		for _, t := range authz.Tabs(role) {
			vm.Tabs = append(vm.Tabs, TabVM{
				Tab:    t,
				Label:  tabLabels[t],
				Path:   tabPaths[t],
				Active: t == active,
			})
		}
	}
	return vm
}
