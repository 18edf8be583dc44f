// internal/app/state/state.go
//
// Package state is the explicit UI-state container behind the role-gated
// views. Each signed-in session owns one Session value holding the
// fetched collections, the transient form drafts, the single active
// modal slot, and the single toast slot. Handlers mutate it only
// through the typed transitions below, which makes every rule testable
// without rendering a page:
//
//   - a fetch fully replaces its collection on success and leaves it
//     untouched on failure;
//   - a fetch that resolves after logout (stale epoch) is discarded;
//   - a draft resets only on successful submission or explicit cancel,
//     never on plain modal close;
//   - opening a modal replaces the active one (no stacking);
//   - a new toast replaces the visible one (one slot, not a queue).
package state

import (
	"sync"
	"time"

	"github.com/chapelstack/chapelhub/internal/app/system/authz"
	"github.com/chapelstack/chapelhub/internal/domain/models"
)

// ToastDuration is the fixed auto-dismiss interval for toasts.
const ToastDuration = 3 * time.Second

// ToastKind selects the toast styling.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toast is the transient one-slot notification.
type Toast struct {
	Message string
	Kind    ToastKind
}

// ModalKind is the tagged set of modals; exactly one (or none) is
// active at a time.
type ModalKind int

const (
	ModalClosed ModalKind = iota
	ModalRecordAttendance
	ModalRecordPayment
	ModalAddUser
	ModalAddProject
	ModalPreviewReceipt
)

// Modal is the active-modal slot. PaymentID is set only for
// ModalPreviewReceipt.
type Modal struct {
	Kind      ModalKind
	PaymentID int
}

// Session is one signed-in session's UI state.
type Session struct {
	mu sync.Mutex

	epoch    uint64
	loggedIn bool
	identity models.Identity

	activeTab authz.Tab
	modal     Modal
	toast     *Toast

	attendance []models.AttendanceRecord
	payments   []models.Payment
	accounts   []models.AccountDetail
	projects   []models.Project
	users      []models.User

	attendanceDraft models.AttendanceDraft
	paymentDraft    models.PaymentDraft
	userDraft       models.UserDraft
	projectDraft    models.ProjectDraft
}

func newSession() *Session {
	s := &Session{activeTab: authz.TabDashboard}
	s.resetDrafts()
	return s
}

func (s *Session) resetDrafts() {
	s.attendanceDraft = models.DefaultAttendanceDraft()
	s.paymentDraft = models.DefaultPaymentDraft()
	s.userDraft = models.DefaultUserDraft()
	s.projectDraft = models.DefaultProjectDraft()
}

/*── session lifecycle ───────────────────────────────────────────────────────*/

// Login records the authenticated identity and bumps the epoch so any
// fetch still in flight for a previous sign-in is discarded.
func (s *Session) Login(id models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.loggedIn = true
	s.identity = id
	s.activeTab = authz.TabDashboard
	s.modal = Modal{}
	s.resetDrafts()
}

// Logout clears everything and resets the active tab to the dashboard.
// Collections do not outlive the session.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.loggedIn = false
	s.identity = models.Identity{}
	s.activeTab = authz.TabDashboard
	s.modal = Modal{}
	s.toast = nil
	s.attendance = nil
	s.payments = nil
	s.accounts = nil
	s.projects = nil
	s.users = nil
	s.resetDrafts()
}

// EnsureLoggedIn seeds the session from a persisted credential when the
// server has no state for it yet (for example after a restart while the
// browser still holds a valid cookie). It reports whether the session
// was restored, in which case the caller should refetch collections.
func (s *Session) EnsureLoggedIn(id models.Identity) bool {
	s.mu.Lock()
	if s.loggedIn {
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()
	s.Login(id)
	return true
}

// Epoch returns the current session epoch. Handlers capture it before
// issuing a fetch and pass it back when applying the result.
func (s *Session) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

/*── navigation & modal ──────────────────────────────────────────────────────*/

// SelectTab records the active tab.
func (s *Session) SelectTab(t authz.Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeTab = t
}

// OpenModal replaces the active-modal slot. Opening does not reset the
// corresponding draft: a previously abandoned draft reappears until the
// user cancels or submits (preserved behavior, not a defect).
func (s *Session) OpenModal(m Modal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = m
}

// CloseModal clears the slot without touching any draft.
func (s *Session) CloseModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = Modal{}
}

// Cancel closes the active modal and resets the draft tied to it.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.modal.Kind {
	case ModalRecordAttendance:
		s.attendanceDraft = models.DefaultAttendanceDraft()
	case ModalRecordPayment:
		s.paymentDraft = models.DefaultPaymentDraft()
	case ModalAddUser:
		s.userDraft = models.DefaultUserDraft()
	case ModalAddProject:
		s.projectDraft = models.DefaultProjectDraft()
	}
	s.modal = Modal{}
}

/*── toast slot ──────────────────────────────────────────────────────────────*/

// ShowToast replaces the toast slot.
func (s *Session) ShowToast(message string, kind ToastKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toast = &Toast{Message: message, Kind: kind}
}

// TakeToast returns and clears the pending toast, or nil.
func (s *Session) TakeToast() *Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.toast
	s.toast = nil
	return t
}

/*── collection fetch results ────────────────────────────────────────────────*/

// stale reports whether a fetch begun at epoch should be discarded: the
// session logged out (or cycled) while the request was in flight.
func (s *Session) stale(epoch uint64) bool {
	return epoch != s.epoch || !s.loggedIn
}

// SetAttendance applies a successful attendance fetch: the collection
// is replaced wholesale. Returns false (and changes nothing) if the
// result is stale.
func (s *Session) SetAttendance(epoch uint64, recs []models.AttendanceRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(epoch) {
		return false
	}
	s.attendance = recs
	return true
}

// SetPayments applies a successful payments fetch.
func (s *Session) SetPayments(epoch uint64, recs []models.Payment) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(epoch) {
		return false
	}
	s.payments = recs
	return true
}

// SetAccounts applies a successful account-details fetch.
func (s *Session) SetAccounts(epoch uint64, recs []models.AccountDetail) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(epoch) {
		return false
	}
	s.accounts = recs
	return true
}

// SetProjects applies a successful projects fetch.
func (s *Session) SetProjects(epoch uint64, recs []models.Project) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(epoch) {
		return false
	}
	s.projects = recs
	return true
}

// SetUsers applies a successful users fetch.
func (s *Session) SetUsers(epoch uint64, recs []models.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(epoch) {
		return false
	}
	s.users = recs
	return true
}

/*── drafts ──────────────────────────────────────────────────────────────────*/

// SetAttendanceDraft stores the in-flight attendance form values.
func (s *Session) SetAttendanceDraft(d models.AttendanceDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attendanceDraft = d
}

// SetPaymentDraft stores the in-flight payment form values.
func (s *Session) SetPaymentDraft(d models.PaymentDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paymentDraft = d
}

// SetUserDraft stores the in-flight user form values.
func (s *Session) SetUserDraft(d models.UserDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userDraft = d
}

// SetProjectDraft stores the in-flight project form values.
func (s *Session) SetProjectDraft(d models.ProjectDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectDraft = d
}

// SubmitSucceeded applies the uniform success transition for the modal
// kind: close the modal and reset its draft to the default shape. The
// caller is responsible for the success toast and the single re-fetch
// of the owning collection.
func (s *Session) SubmitSucceeded(kind ModalKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case ModalRecordAttendance:
		s.attendanceDraft = models.DefaultAttendanceDraft()
	case ModalRecordPayment:
		s.paymentDraft = models.DefaultPaymentDraft()
	case ModalAddUser:
		s.userDraft = models.DefaultUserDraft()
	case ModalAddProject:
		s.projectDraft = models.DefaultProjectDraft()
	}
	if s.modal.Kind == kind {
		s.modal = Modal{}
	}
}

/*── snapshot for rendering ──────────────────────────────────────────────────*/

// View is an immutable copy of the session state for template
// rendering.
type View struct {
	LoggedIn  bool
	Identity  models.Identity
	ActiveTab authz.Tab
	Modal     Modal

	Attendance []models.AttendanceRecord
	Payments   []models.Payment
	Accounts   []models.AccountDetail
	Projects   []models.Project
	Users      []models.User

	AttendanceDraft models.AttendanceDraft
	PaymentDraft    models.PaymentDraft
	UserDraft       models.UserDraft
	ProjectDraft    models.ProjectDraft
}

// Snapshot copies the current state for rendering.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		LoggedIn:        s.loggedIn,
		Identity:        s.identity,
		ActiveTab:       s.activeTab,
		Modal:           s.modal,
		Attendance:      s.attendance,
		Payments:        s.payments,
		Accounts:        s.accounts,
		Projects:        s.projects,
		Users:           s.users,
		AttendanceDraft: s.attendanceDraft,
		PaymentDraft:    s.paymentDraft,
		UserDraft:       s.userDraft,
		ProjectDraft:    s.projectDraft,
	}
}
