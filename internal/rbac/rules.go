package rbac

// RolePermissions is the default policy. Students act on their own scores
// and submit events; teachers additionally see any learner's score and get
// the whole admin surface via the prefix grant; admins can do anything.
var RolePermissions = map[string][]string{
	"student": {
		"score:view",
		"completion:set",
		"events:submit",
	},
	"teacher": {
		"score:view",
		"score:view-any",
		"completion:set",
		"events:submit",
		"admin:*",
	},
	"admin": {
		"*",
	},
}
