package models

import "strings"

// Role is the closed set of account roles.
type Role int

const (
	RoleNone Role = iota
	RolePatient
	RolePsychologist
	RoleAdmin
)

var roleNames = map[Role]string{
	RolePatient:      "patient",
	RolePsychologist: "psychologist",
	RoleAdmin:        "admin",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "none"
}

// ParseRole maps a stored role string onto a Role. Unknown values yield RoleNone.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "patient":
		return RolePatient
	case "psychologist":
		return RolePsychologist
	case "admin":
		return RoleAdmin
	default:
		return RoleNone
	}
}

// RoleSet is a set of roles allowed on a route.
type RoleSet map[Role]struct{}

func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Allows reports whether r is in the set. An empty set allows any known role.
func (s RoleSet) Allows(r Role) bool {
	if r == RoleNone {
		return false
	}
	if len(s) == 0 {
		return true
	}
	_, ok := s[r]
	return ok
}
