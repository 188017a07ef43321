// Package auth resolves who a request belongs to and what it may do.
//
// # Credentials
//
// TokenService issues and verifies HS256 JWTs carrying the user id and the id of the
// database session they were issued for. A token is only honoured while that session
// exists and has not expired.
//
// # Resolution
//
// RoleResolver turns a role id into an rbac.RoleWithPermissions whose map only holds
// permissions of the scope the role was resolved for. SessionValidator looks up sessions
// and UserDirectory looks up users together with their global role. All three read
// through the tagged cache:
//
//	role:global:{id}, role:org:{id}   tag role:{id}
//	session:{uid}:{sid}               tags sessions, sessions:user:{uid}, session:{sid}
//	user:{id}                         tags users, user:{id}
//
// # Wiring
//
// Backend and OrgDirectory adapt these services to the interfaces the authentication
// middleware and the organization gate consume. Backend deletes sessions through a
// SessionDeleter so that processes which do not own sessions can plug in NoopDeleter.
//
// Example usage:
//
//	roles := auth.NewRoleResolver(role.New(db), c, time.Hour)
//	backend := &auth.Backend{
//	    Sessions: auth.NewSessionValidator(sessions, c, 5*time.Minute),
//	    Users:    auth.NewUserDirectory(user.New(db), roles, c, 5*time.Minute),
//	    Deleter:  auth.NewStoreDeleter(sessions, c),
//	}
package auth
