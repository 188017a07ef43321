package rbac

// Key identifies a protected resource family.
type Key string

// Scope tells whether a key or role applies platform wide or inside one organization.
type Scope string

const (
	// ScopeGlobal applies platform wide.
	ScopeGlobal Scope = "global"
	// ScopeOrganization applies inside a single organization.
	ScopeOrganization Scope = "organization"
)

// Global permission keys.
const (
	// PermUserManagement covers platform user accounts.
	PermUserManagement Key = "USER_MANAGEMENT"
	// PermRoleManagement covers global roles and their permission assignments.
	PermRoleManagement Key = "ROLE_MANAGEMENT"
	// PermSettingsManagement covers platform settings.
	PermSettingsManagement Key = "SETTINGS_MANAGEMENT"
)

// Organization permission keys.
const (
	// PermOrgManagement covers the organization itself (profile, deletion).
	PermOrgManagement Key = "ORG_MANAGEMENT"
	// PermMemberManagement covers organization memberships.
	PermMemberManagement Key = "MEMBER_MANAGEMENT"
	// PermInvitationManagement covers invitations into the organization.
	PermInvitationManagement Key = "INVITATION_MANAGEMENT"
	// PermOrgRoleManagement covers organization scoped roles.
	PermOrgRoleManagement Key = "ORG_ROLE_MANAGEMENT"
)

// PermissionScopeMap maps every key to its scope. It never changes at runtime.
var PermissionScopeMap = map[Key]Scope{ //nolint:gochecknoglobals
	PermUserManagement:     ScopeGlobal,
	PermRoleManagement:     ScopeGlobal,
	PermSettingsManagement: ScopeGlobal,

	PermOrgManagement:        ScopeOrganization,
	PermMemberManagement:     ScopeOrganization,
	PermInvitationManagement: ScopeOrganization,
	PermOrgRoleManagement:    ScopeOrganization,
}

// ScopeOf returns the scope of k. ok is false for keys outside the model.
func ScopeOf(k Key) (Scope, bool) {
	s, ok := PermissionScopeMap[k]
	return s, ok
}

// InScope reports whether k is a known key of scope s.
func InScope(k Key, s Scope) bool {
	scope, ok := PermissionScopeMap[k]
	return ok && scope == s
}

// Valid reports whether s is one of the two scopes.
func (s Scope) Valid() bool {
	return s == ScopeGlobal || s == ScopeOrganization
}
