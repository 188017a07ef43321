// Package role provides the role endpoints of the admin area.
package role

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/orbitdesk/orbitdesk/internal/auth"
	"github.com/orbitdesk/orbitdesk/internal/db/controller/role"
	"github.com/orbitdesk/orbitdesk/internal/rbac"
	"github.com/orbitdesk/orbitdesk/internal/web/handler"
	"github.com/orbitdesk/orbitdesk/internal/web/middleware/authn"
	"github.com/orbitdesk/orbitdesk/internal/web/middleware/authz"
)

// Path is the base path for role management.
const Path = handler.RootPath + "admin/roles"

// Service shows global roles and edits their permissions.
type Service struct {
	handler.Service
	deps  *handler.Deps
	roles *role.Store
}

type permissionChange struct {
	Key    rbac.Key    `json:"key"    validate:"required"`
	Action rbac.Action `json:"action" validate:"required"`
}

type permissionsChange struct {
	Permissions []permissionChange `json:"permissions" validate:"required,min=1,dive"`
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil || deps.DB == nil || deps.Authn == nil || deps.Roles == nil {
		return handler.ErrMissingDependency
	}

	s.deps = deps
	s.roles = role.New(deps.DB)

	app.Get(Path+"/:id",
		deps.Authn,
		authz.Authorize(rbac.PermRoleManagement, rbac.ActionRead),
		s.Get,
	)
	app.Put(Path+"/:id/permissions",
		deps.Authn,
		authz.Authorize(rbac.PermRoleManagement, rbac.ActionWrite),
		s.UpdatePermissions,
	)

	return nil
}

// Get returns a global role with its global permissions.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	r, err := s.deps.Roles.ResolveGlobalRole(c.UserContext(), uint(id))
	if err != nil {
		return err
	}

	if r == nil || r.Scope != rbac.ScopeGlobal {
		return handler.NotFound("role not found")
	}

	return c.JSON(r)
}

// UpdatePermissions sets the actions of a global role. The cached role is dropped even when
// an update fails halfway.
func (s *Service) UpdatePermissions(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	var in permissionsChange
	if err = handler.Bind(c, &in); err != nil {
		return err
	}

	ctx := c.UserContext()
	roleID := uint(id)

	existing, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return err
	}

	if existing == nil || existing.Scope != rbac.ScopeGlobal {
		return handler.NotFound("role not found")
	}

	for _, p := range in.Permissions {
		if err = s.roles.SetPermission(ctx, roleID, p.Key, p.Action); err != nil {
			s.deps.Roles.InvalidateRole(ctx, roleID)
			return permissionError(err)
		}
	}

	s.deps.Roles.InvalidateRole(ctx, roleID)

	log.Info().
		Uint("role_id", roleID).
		Uint64("by_user_id", authn.User(c).ID).
		Int("changes", len(in.Permissions)).
		Msg("role permissions changed")

	r, err := s.deps.Roles.ResolveGlobalRole(ctx, roleID)
	if err != nil {
		return err
	}

	return c.JSON(r)
}

func permissionError(err error) error {
	switch {
	case errors.Is(err, role.ErrRoleNotFound):
		return handler.NotFound("role not found")
	case errors.Is(err, role.ErrPermissionNotFound), errors.Is(err, role.ErrScopeMismatch),
		errors.Is(err, role.ErrInvalidAction):
		return auth.Wrap(auth.KindBadRequest, err.Error(), err)
	default:
		return err
	}
}
