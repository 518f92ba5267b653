package entity

// Role is the authorization role carried by an Identity and its session.
type Role string

const (
	// RolePrivileged manages every standard identity and its profile.
	RolePrivileged Role = "admin"
	// RoleStandard is limited to its own identity and profile.
	RoleStandard Role = "user"
)

func (r Role) Valid() bool {
	return r == RolePrivileged || r == RoleStandard
}

func (r Role) String() string { return string(r) }
