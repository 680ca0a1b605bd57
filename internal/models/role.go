package models

import "fmt"

// Role is the closed set of account classifications used for authorization.
type Role string

const (
	RoleBlogger   Role = "blogger"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Roles lists every valid role.
func Roles() []Role {
	return []Role{RoleBlogger, RoleModerator, RoleAdmin}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleBlogger, RoleModerator, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts a wire value into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q: %w", s, ErrValidation)
	}
	return r, nil
}
