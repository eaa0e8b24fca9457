package entity

import "context"

// StaffRole is the shelter area an operator works in.
// Roles are selected by the operator and trusted as given.
type StaffRole string

const (
	StaffRoleReception  StaffRole = "reception"
	StaffRoleSocialWork StaffRole = "social_work"
	StaffRoleNursing    StaffRole = "nursing"
	StaffRoleAdmin      StaffRole = "admin"
)

// ParseStaffRole returns the role named by s, or false if s names no role
func ParseStaffRole(s string) (StaffRole, bool) {
	switch r := StaffRole(s); r {
	case StaffRoleReception, StaffRoleSocialWork, StaffRoleNursing, StaffRoleAdmin:
		return r, true
	default:
		return "", false
	}
}

type staffRoleKey struct{}

// ContextWithStaffRole attaches the operator's role to ctx
func ContextWithStaffRole(ctx context.Context, role StaffRole) context.Context {
	return context.WithValue(ctx, staffRoleKey{}, role)
}

// StaffRoleFromContext returns the role attached by ContextWithStaffRole
func StaffRoleFromContext(ctx context.Context) (StaffRole, bool) {
	role, ok := ctx.Value(staffRoleKey{}).(StaffRole)
	return role, ok
}
