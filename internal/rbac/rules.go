package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"result:view-own",
	},
	"teacher": {
		"result:view-own",
		"result:view-all",
		"attempt:record",
		"values:record",
		"students:edit",
		"students:list",
		"exams:view",
		"fields:view",
		"settings:view",
		"users:list",
	},
	"admin": {
		"*", // everything
	},
}
