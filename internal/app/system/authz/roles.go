// internal/app/system/authz/roles.go
package authz

import "strings"

// Role is one of the fixed set of roles the congregation API assigns.
type Role string

const (
	RoleSecretary     Role = "secretary"
	RoleAccountant    Role = "accountant"
	RoleGroupAdmin    Role = "group_admin"
	RoleRegionalAdmin Role = "regional_admin"
)

// ParseRole normalizes a role string from the API or session. Unknown
// values come back as-is with ok=false so callers can fail closed.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleSecretary, RoleAccountant, RoleGroupAdmin, RoleRegionalAdmin:
		return r, true
	}
	return r, false
}

// Display returns the human form of a role ("group_admin" → "group admin").
func (r Role) Display() string {
	return strings.ReplaceAll(string(r), "_", " ")
}
