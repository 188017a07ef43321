package rbac

// RoleWithPermissions is a role plus its resolved permission map. The map only ever holds
// keys of the scope the role was resolved for.
type RoleWithPermissions struct {
	ID             uint           `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	IsSystem       bool           `json:"isSystem"`
	Scope          Scope          `json:"scope"`
	OrganizationID *uint          `json:"organizationId"`
	Permissions    map[Key]Action `json:"permissions"`
}

// Action returns the action granted on k, ActionNone when the role has no entry.
func (r *RoleWithPermissions) Action(k Key) Action {
	if r == nil || r.Permissions == nil {
		return ActionNone
	}

	if a, ok := r.Permissions[k]; ok {
		return a
	}

	return ActionNone
}

// Allows reports whether the role grants k at min or above.
func (r *RoleWithPermissions) Allows(k Key, minAction Action) bool {
	return Satisfies(r.Action(k), minAction)
}
