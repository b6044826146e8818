package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasPermissionMatrix(t *testing.T) {
	require.False(t, HasPermission(RoleAdmin, PermInviteAdmin))
	require.False(t, HasPermission(RoleAdmin, PermRemoveAdmin))
	require.False(t, HasPermission(RoleAdmin, PermChangeRoles))
	require.False(t, HasPermission(RoleAdmin, PermViewAuditLogs))

	require.True(t, HasPermission(RoleSuperAdmin, PermInviteAdmin))
	require.True(t, HasPermission(RoleSuperAdmin, PermRemoveAdmin))
	require.True(t, HasPermission(RoleSuperAdmin, PermViewAuditLogs))

	require.True(t, HasPermission(RoleAdmin, PermManageVehicles))
	require.True(t, HasPermission(RoleAdmin, PermViewAnalytics))
}

func TestSuperAdminIsStrictSuperset(t *testing.T) {
	for _, perm := range Permissions[RoleAdmin] {
		require.True(t, HasPermission(RoleSuperAdmin, perm), "super admin missing %s", perm)
	}
	require.Greater(t, len(Permissions[RoleSuperAdmin]), len(Permissions[RoleAdmin]))
}

func TestCanManageAdmins(t *testing.T) {
	require.True(t, CanManageAdmins(RoleSuperAdmin))
	require.False(t, CanManageAdmins(RoleAdmin))
	require.False(t, CanManageAdmins(Role("driver")))
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole(" super_admin ")
	require.True(t, ok)
	require.Equal(t, RoleSuperAdmin, role)

	role, ok = ParseRole("ADMIN")
	require.True(t, ok)
	require.Equal(t, RoleAdmin, role)

	_, ok = ParseRole("guardian")
	require.False(t, ok)
}
