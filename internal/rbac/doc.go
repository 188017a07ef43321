// Package rbac holds the static permission model of the platform.
//
// The model is two-tiered. Every permission key belongs to exactly one scope:
//   - global permissions are granted by a user's platform role
//   - organization permissions are granted by the role a user holds inside one organization
//
// Actions are totally ordered (none < read < write < delete). A role grants a key at one action
// level, and any check for a lower or equal level is satisfied by it.
//
// The package is pure data and lookups. Persistence of the manifests lives in internal/db/seed.
package rbac
