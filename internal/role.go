package internal

import "fmt"

// Role is a closed set. The evaluator switches over it exhaustively, so
// adding a role is a compile-visible change instead of a silent fallthrough
// in scattered string comparisons.
type Role uint8

const (
	RoleUser Role = iota
	RoleManager
	RoleAdmin
	RoleSuperadmin
)

var roleNames = map[Role]string{
	RoleUser:       "user",
	RoleManager:    "manager",
	RoleAdmin:      "admin",
	RoleSuperadmin: "superadmin",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// ParseRole maps a persisted role string to its Role value. Unknown strings
// are an error: a row with a bad role means corrupt data, not a new role.
func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}
