// Package profile returns the authenticated account.
package profile

import (
	"github.com/gofiber/fiber/v2"

	"github.com/orbitdesk/orbitdesk/internal/web/handler"
	"github.com/orbitdesk/orbitdesk/internal/web/handler/login"
	"github.com/orbitdesk/orbitdesk/internal/web/middleware/authn"
)

// Path is the profile endpoint.
const Path = login.Path + "/me"

// Service is the profile handler service.
type Service struct {
	handler.Service
}

// Init initializes the profile handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil || deps.Authn == nil {
		return handler.ErrMissingDependency
	}

	app.Get(Path, deps.Authn, s.Get)

	return nil
}

// Get returns the caller with the global permissions of their role.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.JSON(authn.User(c))
}
