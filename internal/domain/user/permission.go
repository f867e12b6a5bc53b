package user

type Permission string

const (
	// Time clock
	PermissionClockOwn Permission = "clock.own"

	// Shifts
	PermissionShiftViewOwn    Permission = "shift.view_own"
	PermissionShiftViewAll    Permission = "shift.view_all"
	PermissionShiftMarkMissed Permission = "shift.mark_missed"

	// Coverage
	PermissionCoverageRequest Permission = "coverage.request"
	PermissionCoverageViewAll Permission = "coverage.view_all"
	PermissionCoverageApprove Permission = "coverage.approve"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionClockOwn,
		PermissionShiftViewOwn,
		PermissionShiftViewAll,
		PermissionShiftMarkMissed,
		PermissionCoverageRequest,
		PermissionCoverageViewAll,
		PermissionCoverageApprove,
	},
	RoleManager: {
		PermissionClockOwn,
		PermissionShiftViewOwn,
		PermissionShiftViewAll,
		PermissionShiftMarkMissed,
		PermissionCoverageRequest,
		PermissionCoverageViewAll,
		PermissionCoverageApprove,
	},
	RoleEmployee: {
		// Employees may only read their own shifts; the missed
		// transition is computed for them at read time.
		PermissionClockOwn,
		PermissionShiftViewOwn,
		PermissionCoverageRequest,
	},
	RoleSystem: {
		PermissionShiftViewAll,
		PermissionShiftMarkMissed,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
