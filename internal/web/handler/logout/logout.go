// Package logout ends the session of the caller.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/orbitdesk/orbitdesk/internal/web/handler"
	"github.com/orbitdesk/orbitdesk/internal/web/handler/login"
	"github.com/orbitdesk/orbitdesk/internal/web/middleware/authn"
)

// Path is the logout endpoint.
const Path = login.Path + "/logout"

// Service is the logout handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil || deps.Authn == nil || deps.Deleter == nil {
		return handler.ErrMissingDependency
	}

	s.deps = deps

	app.Post(Path, deps.Authn, s.Logout)

	return nil
}

// Logout deletes the session of the request and clears the access cookie.
func (s *Service) Logout(c *fiber.Ctx) error {
	sessionID := authn.SessionID(c)

	if err := s.deps.Deleter.DeleteSession(c.UserContext(), sessionID); err != nil {
		return err
	}

	c.ClearCookie(handler.CookieName(s.deps.Cfg))

	log.Info().Uint64("user_id", authn.User(c).ID).Str("session_id", sessionID).Msg("user logged out")

	return c.SendStatus(fiber.StatusNoContent)
}
