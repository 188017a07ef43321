package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/orbitdesk/orbitdesk/internal/cache"
	"github.com/orbitdesk/orbitdesk/internal/db/models"
	"github.com/orbitdesk/orbitdesk/internal/rbac"
)

// RoleFinder loads a role with its permission rows joined to their permission.
// It returns nil and no error for unknown ids.
type RoleFinder interface {
	FindByID(ctx context.Context, id uint) (*models.Role, error)
}

// RoleTag is the cache tag under which every resolution of role id is stored.
func RoleTag(id uint) string {
	return "role:" + strconv.FormatUint(uint64(id), 10)
}

// RoleResolver resolves role ids to scope filtered permission maps.
type RoleResolver struct {
	cache  *cache.Cache
	global cache.Loader[uint, *rbac.RoleWithPermissions]
	org    cache.Loader[uint, *rbac.RoleWithPermissions]
}

// NewRoleResolver creates a resolver reading roles from store and caching them for ttl.
func NewRoleResolver(store RoleFinder, c *cache.Cache, ttl time.Duration) *RoleResolver {
	loader := func(scope rbac.Scope) cache.Loader[uint, *rbac.RoleWithPermissions] {
		return func(ctx context.Context, id uint) (*rbac.RoleWithPermissions, bool, error) {
			role, err := store.FindByID(ctx, id)
			if err != nil || role == nil {
				return nil, false, err
			}

			return FilterRole(role, scope), true, nil
		}
	}

	options := func(scope rbac.Scope) cache.Options[uint] {
		return cache.Options[uint]{
			Key: func(id uint) string {
				return "role:" + string(scope) + ":" + strconv.FormatUint(uint64(id), 10)
			},
			Tags: func(id uint) []string { return []string{RoleTag(id)} },
			TTL:  ttl,
		}
	}

	return &RoleResolver{
		cache:  c,
		global: cache.Cacheable(c, options(rbac.ScopeGlobal), loader(rbac.ScopeGlobal)),
		org:    cache.Cacheable(c, options(rbac.ScopeOrganization), loader(rbac.ScopeOrganization)),
	}
}

// ResolveGlobalRole returns role id with global permissions only, or nil when it does not exist.
func (r *RoleResolver) ResolveGlobalRole(ctx context.Context, id uint) (*rbac.RoleWithPermissions, error) {
	role, _, err := r.global(ctx, id)
	return role, err
}

// ResolveOrgRole returns role id with organization permissions only, or nil when it does not exist.
func (r *RoleResolver) ResolveOrgRole(ctx context.Context, id uint) (*rbac.RoleWithPermissions, error) {
	role, _, err := r.org(ctx, id)
	return role, err
}

// InvalidateRole drops every cached resolution of role id.
func (r *RoleResolver) InvalidateRole(ctx context.Context, id uint) {
	r.cache.InvalidateByTag(ctx, RoleTag(id))
}

// FilterRole converts role into its resolved form, keeping only permission rows of scope.
func FilterRole(role *models.Role, scope rbac.Scope) *rbac.RoleWithPermissions {
	out := &rbac.RoleWithPermissions{
		ID:             role.ID,
		Name:           role.Name,
		Description:    role.Description,
		IsSystem:       role.IsSystem,
		Scope:          role.Scope,
		OrganizationID: role.OrganizationID,
		Permissions:    make(map[rbac.Key]rbac.Action, len(role.Permissions)),
	}

	for _, rp := range role.Permissions {
		if rp.Permission.Scope != scope {
			continue
		}

		out.Permissions[rp.Permission.Key] = rp.Action
	}

	return out
}
