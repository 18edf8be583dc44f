// internal/domain/models/user.go
package models

// Identity is the authenticated user's profile as returned by the
// congregation API on login. Role is assigned server-side and never
// changes through this application.
type Identity struct {
	Username    string `json:"username"`
	Role        string `json:"role"`
	FullName    string `json:"full_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Email       string `json:"email,omitempty"`
	Gender      string `json:"gender,omitempty"`
}

// User is one row of the user directory as listed by GET /api/users.
type User struct {
	ID          int    `json:"id,omitempty"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	FullName    string `json:"full_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Email       string `json:"email,omitempty"`
	Gender      string `json:"gender,omitempty"`
}

// UserDraft is the uncommitted "Add User" form state. The password is
// held only until the create POST succeeds; it is never persisted here.
type UserDraft struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	Role        string `json:"role" validate:"required,oneof=secretary accountant group_admin"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email" validate:"omitempty,email"`
	Gender      string `json:"gender" validate:"oneof=male female"`
}

// DefaultUserDraft returns the documented default shape of the user form.
func DefaultUserDraft() UserDraft {
	return UserDraft{Role: "secretary", Gender: "male"}
}
