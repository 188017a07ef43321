package rbac

// Global system role names.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleUser       = "user"
)

// Default organization role names, created for every new organization.
const (
	OrgRoleOwner  = "owner"
	OrgRoleAdmin  = "admin"
	OrgRoleMember = "member"
)

// PermissionDef describes one permission row of the manifest.
type PermissionDef struct {
	Key         Key
	Description string
}

// RoleDef describes a code defined role and the actions it should hold.
// Keys missing from Actions are held at ActionNone.
type RoleDef struct {
	Name        string
	Description string
	Actions     map[Key]Action
}

// Action returns the manifest action for k.
func (d RoleDef) Action(k Key) Action {
	if a, ok := d.Actions[k]; ok {
		return a
	}

	return ActionNone
}

// Manifest is the code defined desired RBAC configuration.
type Manifest struct {
	Permissions []PermissionDef
	// SystemRoles are global roles reconciled on every boot.
	SystemRoles []RoleDef
	// DefaultRole names the system role given to newly registered users.
	DefaultRole string
	// OrgRoles are created once per organization at creation time.
	OrgRoles []RoleDef
}

// SystemRole returns the global system role definition called name.
func (m *Manifest) SystemRole(name string) (RoleDef, bool) {
	return findRole(m.SystemRoles, name)
}

// OrgRole returns the organization role definition called name.
func (m *Manifest) OrgRole(name string) (RoleDef, bool) {
	return findRole(m.OrgRoles, name)
}

func findRole(defs []RoleDef, name string) (RoleDef, bool) {
	for _, d := range defs {
		if d.Name == name {
			return d, true
		}
	}

	return RoleDef{}, false
}

// DefaultManifest returns the manifest shipped with the platform.
func DefaultManifest() Manifest {
	return Manifest{
		Permissions: []PermissionDef{
			{Key: PermUserManagement, Description: "Manage platform user accounts"},
			{Key: PermRoleManagement, Description: "Manage global roles and their permissions"},
			{Key: PermSettingsManagement, Description: "Manage platform settings"},
			{Key: PermOrgManagement, Description: "Manage the organization profile and lifecycle"},
			{Key: PermMemberManagement, Description: "Manage organization members"},
			{Key: PermInvitationManagement, Description: "Manage organization invitations"},
			{Key: PermOrgRoleManagement, Description: "Manage organization roles"},
		},
		SystemRoles: []RoleDef{
			{
				Name:        RoleSuperAdmin,
				Description: "Full platform access",
				Actions: map[Key]Action{
					PermUserManagement:     ActionDelete,
					PermRoleManagement:     ActionDelete,
					PermSettingsManagement: ActionDelete,
				},
			},
			{
				Name:        RoleAdmin,
				Description: "Platform administration without role management",
				Actions: map[Key]Action{
					PermUserManagement:     ActionWrite,
					PermRoleManagement:     ActionRead,
					PermSettingsManagement: ActionRead,
				},
			},
			{
				Name:        RoleUser,
				Description: "Regular platform user",
				Actions:     map[Key]Action{},
			},
		},
		DefaultRole: RoleUser,
		OrgRoles: []RoleDef{
			{
				Name:        OrgRoleOwner,
				Description: "Organization owner",
				Actions: map[Key]Action{
					PermOrgManagement:        ActionDelete,
					PermMemberManagement:     ActionDelete,
					PermInvitationManagement: ActionDelete,
					PermOrgRoleManagement:    ActionDelete,
				},
			},
			{
				Name:        OrgRoleAdmin,
				Description: "Organization administrator",
				Actions: map[Key]Action{
					PermOrgManagement:        ActionWrite,
					PermMemberManagement:     ActionWrite,
					PermInvitationManagement: ActionWrite,
					PermOrgRoleManagement:    ActionRead,
				},
			},
			{
				Name:        OrgRoleMember,
				Description: "Organization member",
				Actions: map[Key]Action{
					PermOrgManagement:    ActionRead,
					PermMemberManagement: ActionRead,
				},
			},
		},
	}
}
