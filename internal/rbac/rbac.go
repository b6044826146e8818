package rbac

import "strings"

// Role is an admin privilege tier within an organization.
type Role string

// Status tracks the lifecycle of an admin account.
type Status string

const (
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"

	StatusInvited  Status = "INVITED"
	StatusActive   Status = "ACTIVE"
	StatusDisabled Status = "DISABLED"
)

// Permission names an administrative capability that can be granted to a role.
type Permission string

const (
	PermManageAdmins     Permission = "manage_admins"
	PermInviteAdmin      Permission = "invite_admin"
	PermRemoveAdmin      Permission = "remove_admin"
	PermChangeRoles      Permission = "change_roles"
	PermManageOrgSetting Permission = "manage_org_settings"
	PermManageVehicles   Permission = "manage_vehicles"
	PermManageDrivers    Permission = "manage_drivers"
	PermManageRoutes     Permission = "manage_routes"
	PermManageMembers    Permission = "manage_members"
	PermViewAnalytics    Permission = "view_analytics"
	PermViewAuditLogs    Permission = "view_audit_logs"
	PermFullDashboard    Permission = "full_dashboard"
)

// Permissions maps each role to its granted capabilities. The super admin set
// is a strict superset of the admin set, adding the admin-management actions.
var Permissions = map[Role][]Permission{
	RoleSuperAdmin: {
		PermManageAdmins,
		PermInviteAdmin,
		PermRemoveAdmin,
		PermChangeRoles,
		PermManageOrgSetting,
		PermManageVehicles,
		PermManageDrivers,
		PermManageRoutes,
		PermManageMembers,
		PermViewAnalytics,
		PermViewAuditLogs,
		PermFullDashboard,
	},
	RoleAdmin: {
		PermManageVehicles,
		PermManageDrivers,
		PermManageRoutes,
		PermManageMembers,
		PermViewAnalytics,
	},
}

// ParseRole normalizes a raw role string into a Role, reporting whether it is
// one of the two known tiers.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleSuperAdmin:
		return RoleSuperAdmin, true
	default:
		return "", false
	}
}

// HasPermission reports whether the role is granted the given capability.
func HasPermission(role Role, perm Permission) bool {
	for _, granted := range Permissions[role] {
		if granted == perm {
			return true
		}
	}
	return false
}

// CanManageAdmins reports whether the role may invite, remove or re-role
// other admins.
func CanManageAdmins(role Role) bool {
	return role == RoleSuperAdmin
}
