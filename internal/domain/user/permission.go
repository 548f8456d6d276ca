package user

type Permission string

const (
	PermissionIssuesView   Permission = "issues.view"
	PermissionIssuesHandle Permission = "issues.handle"

	PermissionAttendanceView   Permission = "attendance.view"
	PermissionAttendanceImport Permission = "attendance.import"

	PermissionReportsGenerate Permission = "reports.generate"

	PermissionSettingsView   Permission = "settings.view"
	PermissionSettingsManage Permission = "settings.manage"

	PermissionStoresManage Permission = "stores.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionIssuesView,
		PermissionIssuesHandle,
		PermissionAttendanceView,
		PermissionAttendanceImport,
		PermissionReportsGenerate,
		PermissionSettingsView,
		PermissionSettingsManage,
		PermissionStoresManage,
	},
	RoleStoreManager: {
		PermissionIssuesView,
		PermissionIssuesHandle,
		PermissionAttendanceView,
		PermissionAttendanceImport,
		PermissionReportsGenerate,
		PermissionSettingsView,
	},
	RoleViewer: {
		PermissionIssuesView,
		PermissionAttendanceView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
