package entity

// Role represents an authorization role.
// A user holds exactly one role; authorization decisions compare against it.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// DefaultRole is assigned to users created without an explicit role.
const DefaultRole = RoleEditor

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor:
		return true
	}
	return false
}
