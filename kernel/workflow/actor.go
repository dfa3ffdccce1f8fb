package workflow

import "strings"

// Role is a coarse capability granted to a user by the identity provider.
type Role string

const (
	RoleMember    Role = "member"
	RoleLibrarian Role = "librarian"
)

// ParseRole normalizes a textual role and reports whether it is known.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleMember:
		return RoleMember, true
	case RoleLibrarian:
		return RoleLibrarian, true
	default:
		return "", false
	}
}

// Actor is the resolved caller of an operation.
type Actor struct {
	ID    string
	Roles []Role
}

func (a Actor) Has(role Role) bool {
	for _, item := range a.Roles {
		if item == role {
			return true
		}
	}
	return false
}

// HasAny reports whether the actor holds at least one of roles.
// An empty role set is satisfied by any identified actor.
func (a Actor) HasAny(roles ...Role) bool {
	if len(roles) == 0 {
		return strings.TrimSpace(a.ID) != ""
	}
	for _, role := range roles {
		if a.Has(role) {
			return true
		}
	}
	return false
}

func (a Actor) IsLibrarian() bool {
	return a.Has(RoleLibrarian)
}
