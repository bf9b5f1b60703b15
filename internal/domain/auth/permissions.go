package auth

const (
	RoleEmployee    = "Employee"
	RoleManager     = "Manager"
	RoleHR          = "HR"
	RoleSystemAdmin = "SystemAdmin"
)

const (
	PermAnalyticsRead    = "analytics.read"
	PermAnalyticsRun     = "analytics.run"
	PermSkillsRead       = "skills.read"
	PermReportsRead      = "reports.read"
	PermAuditRead        = "audit.read"
	PermNotificationsUse = "notifications.use"
	PermSystemAdmin      = "admin.system"
)

var DefaultPermissions = []string{
	PermAnalyticsRead,
	PermAnalyticsRun,
	PermSkillsRead,
	PermReportsRead,
	PermAuditRead,
	PermNotificationsUse,
	PermSystemAdmin,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermSkillsRead,
		PermNotificationsUse,
	},
	RoleManager: {
		PermSkillsRead,
		PermAnalyticsRead,
		PermNotificationsUse,
	},
	RoleHR: {
		PermAnalyticsRead,
		PermAnalyticsRun,
		PermSkillsRead,
		PermReportsRead,
		PermAuditRead,
		PermNotificationsUse,
	},
	RoleSystemAdmin: {
		PermAnalyticsRead,
		PermAnalyticsRun,
		PermReportsRead,
		PermAuditRead,
		PermSystemAdmin,
	},
}
