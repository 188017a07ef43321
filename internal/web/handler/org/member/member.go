// Package member provides the membership endpoints of the organization of a request.
package member

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/orbitdesk/orbitdesk/internal/db/controller/organization"
	"github.com/orbitdesk/orbitdesk/internal/db/controller/user"
	"github.com/orbitdesk/orbitdesk/internal/rbac"
	"github.com/orbitdesk/orbitdesk/internal/web/handler"
	"github.com/orbitdesk/orbitdesk/internal/web/handler/org"
	"github.com/orbitdesk/orbitdesk/internal/web/middleware/authn"
	"github.com/orbitdesk/orbitdesk/internal/web/middleware/authz"
)

// Path is the base path for memberships.
const Path = org.Path + "/members"

// Service lists and adds organization members.
type Service struct {
	handler.Service
	orgs  *organization.Store
	users *user.Store
}

// View is one member as listed.
type View struct {
	UserID   uint64 `json:"userId"`
	Username string `json:"username"`
	RoleID   uint   `json:"roleId"`
	RoleName string `json:"roleName"`
}

type addition struct {
	UserID uint64 `json:"userId" validate:"required"`
	RoleID uint   `json:"roleId" validate:"required"`
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil || deps.DB == nil || deps.Manifest == nil ||
		deps.Authn == nil || deps.OrgGate == nil {
		return handler.ErrMissingDependency
	}

	s.orgs = organization.New(deps.DB, deps.Manifest)
	s.users = user.New(deps.DB)

	app.Get(Path,
		deps.Authn,
		deps.OrgGate.Authorize(rbac.PermMemberManagement, rbac.ActionRead),
		s.List,
	)
	app.Post(Path,
		deps.Authn,
		deps.OrgGate.Authorize(rbac.PermMemberManagement, rbac.ActionWrite),
		s.Add,
	)

	return nil
}

// List returns the members of the organization.
func (s *Service) List(c *fiber.Ctx) error {
	members, err := s.orgs.Members(c.UserContext(), authz.Org(c).Organization.ID)
	if err != nil {
		return err
	}

	out := make([]View, 0, len(members))
	for _, m := range members {
		out = append(out, View{
			UserID:   m.UserID,
			Username: m.User.Username,
			RoleID:   m.RoleID,
			RoleName: m.Role.Name,
		})
	}

	return c.JSON(out)
}

// Add makes an existing user a member with one of the organization's roles.
func (s *Service) Add(c *fiber.Ctx) error {
	var in addition
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	ctx := c.UserContext()
	oc := authz.Org(c)

	u, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return err
	}

	if u == nil {
		return handler.NotFound("user not found")
	}

	m, err := s.orgs.AddMember(ctx, oc.Organization.ID, in.UserID, in.RoleID)
	switch {
	case errors.Is(err, organization.ErrForeignRole):
		return handler.BadRequest("role does not belong to the organization")
	case errors.Is(err, organization.ErrAlreadyMember):
		return handler.Conflict("user is already a member")
	case err != nil:
		return err
	}

	log.Info().
		Uint("organization_id", oc.Organization.ID).
		Uint64("user_id", in.UserID).
		Uint("role_id", in.RoleID).
		Uint64("by_user_id", authn.User(c).ID).
		Msg("member added")

	return c.Status(fiber.StatusCreated).JSON(m)
}
