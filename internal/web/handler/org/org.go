// Package org provides the organization endpoints of the org process. The organization of
// a request is named by the X-Organization-Slug header.
package org

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/orbitdesk/orbitdesk/internal/db/controller/organization"
	"github.com/orbitdesk/orbitdesk/internal/rbac"
	"github.com/orbitdesk/orbitdesk/internal/web/handler"
	"github.com/orbitdesk/orbitdesk/internal/web/middleware/authn"
	"github.com/orbitdesk/orbitdesk/internal/web/middleware/authz"
)

const (
	// CreatePath creates organizations.
	CreatePath = handler.RootPath + "orgs"
	// Path addresses the organization of the request.
	Path = handler.RootPath + "org"
)

// Service creates, shows and deletes organizations.
type Service struct {
	handler.Service
	orgs *organization.Store
}

type creation struct {
	Name string `json:"name" validate:"required,min=2,max=150"`
	Slug string `json:"slug" validate:"required,min=2,max=100,hostname_rfc1123,lowercase"`
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil || deps.DB == nil || deps.Manifest == nil ||
		deps.Authn == nil || deps.OrgGate == nil {
		return handler.ErrMissingDependency
	}

	s.orgs = organization.New(deps.DB, deps.Manifest)

	app.Post(CreatePath, deps.Authn, s.Create)
	app.Get(Path,
		deps.Authn,
		deps.OrgGate.Authorize(rbac.PermOrgManagement, rbac.ActionRead),
		s.Get,
	)
	app.Delete(Path,
		deps.Authn,
		deps.OrgGate.Authorize(rbac.PermOrgManagement, rbac.ActionDelete),
		s.Delete,
	)

	return nil
}

// Create creates an organization owned by the caller, together with its default roles.
func (s *Service) Create(c *fiber.Ctx) error {
	var in creation
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	caller := authn.User(c)

	created, err := s.orgs.Create(c.UserContext(), in.Name, in.Slug, caller.ID)
	if err != nil {
		if errors.Is(err, organization.ErrSlugTaken) {
			return handler.Conflict("organization slug already taken")
		}

		return err
	}

	log.Info().
		Uint("organization_id", created.Organization.ID).
		Str("slug", created.Organization.Slug).
		Uint64("owner_id", caller.ID).
		Msg("organization created")

	return c.Status(fiber.StatusCreated).JSON(created)
}

// Get returns the organization of the request and the caller's role in it.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.JSON(authz.Org(c))
}

// Delete soft deletes the organization of the request.
func (s *Service) Delete(c *fiber.Ctx) error {
	oc := authz.Org(c)

	if err := s.orgs.SoftDelete(c.UserContext(), oc.Organization.ID); err != nil {
		if errors.Is(err, organization.ErrOrganizationNotFound) {
			return handler.NotFound("organization not found")
		}

		return err
	}

	log.Info().
		Uint("organization_id", oc.Organization.ID).
		Uint64("by_user_id", authn.User(c).ID).
		Msg("organization deleted")

	return c.SendStatus(fiber.StatusNoContent)
}
