package models

// Role is the closed set of user roles. Values outside the set are carried
// through unchanged so that the authorization filter can fail closed on them.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCandidate Role = "candidate"
)

// ParseRole reports whether raw names a known role.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleCandidate:
		return RoleCandidate, true
	default:
		return Role(raw), false
	}
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

func (r Role) String() string {
	return string(r)
}
