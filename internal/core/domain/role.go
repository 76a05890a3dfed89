package domain

const (
	RoleAdmin    = "admin"
	RoleOfficer  = "officer"
	RoleMember   = "member"
	RoleInitiate = "initiate"
	RolePending  = "pending"
)

// Role is a named permission level. Accounts reference it by ID internally
// and by Name at the input boundary.
type Role struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// SeedRoles is the fixed role set created at migration time.
var SeedRoles = []string{RoleAdmin, RoleOfficer, RoleMember, RoleInitiate, RolePending}

// IsSafeRole reports whether role may be requested by an unauthenticated
// registration. Only "initiate" and "pending" qualify.
func IsSafeRole(role string) bool {
	return role == RoleInitiate || role == RolePending
}
