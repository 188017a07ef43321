// Package authz provides the global and the organization authorization gates.
//
// Both gates compose after the authentication middleware and compare the action a role
// holds on a permission key against a required minimum. A gate built for a key of the
// other scope is a programming error and panics at route registration.
//
//	app.Get("/admin/users", authz.Authorize(rbac.PermUserManagement, rbac.ActionRead), list)
//
//	gate := authz.NewOrgGate(directory)
//	app.Get("/org/members", gate.Authorize(rbac.PermMemberManagement, rbac.ActionRead), members)
package authz
