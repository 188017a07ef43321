// Package settings provides the platform settings endpoints of the admin area.
package settings

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/orbitdesk/orbitdesk/internal/db/controller/setting"
	"github.com/orbitdesk/orbitdesk/internal/rbac"
	"github.com/orbitdesk/orbitdesk/internal/web/handler"
	"github.com/orbitdesk/orbitdesk/internal/web/middleware/authn"
	"github.com/orbitdesk/orbitdesk/internal/web/middleware/authz"
)

// Path is the base path for settings.
const Path = handler.RootPath + "admin/settings"

// Service reads and writes platform settings.
type Service struct {
	handler.Service
	settings *setting.Store
}

type value struct {
	Value string `json:"value" validate:"max=65535"`
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil || deps.DB == nil || deps.Authn == nil {
		return handler.ErrMissingDependency
	}

	s.settings = setting.New(deps.DB)

	app.Route(Path, func(router fiber.Router) {
		router.Use(deps.Authn)
		router.Get(handler.RouterRootPath, authz.Authorize(rbac.PermSettingsManagement, rbac.ActionRead), s.List)
		router.Get("/:name", authz.Authorize(rbac.PermSettingsManagement, rbac.ActionRead), s.Get)
		router.Put("/:name", authz.Authorize(rbac.PermSettingsManagement, rbac.ActionWrite), s.Put)
		router.Delete("/:name", authz.Authorize(rbac.PermSettingsManagement, rbac.ActionDelete), s.Delete)
	})

	return nil
}

// List returns every setting.
func (s *Service) List(c *fiber.Ctx) error {
	all, err := s.settings.All(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(all)
}

// Get returns one setting.
func (s *Service) Get(c *fiber.Ctx) error {
	st, err := s.settings.Get(c.UserContext(), c.Params("name"))
	if err != nil {
		return settingError(err)
	}

	return c.JSON(st)
}

// Put creates or replaces a setting.
func (s *Service) Put(c *fiber.Ctx) error {
	var in value
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	name := c.Params("name")

	st, err := s.settings.Set(c.UserContext(), name, in.Value)
	if err != nil {
		return settingError(err)
	}

	log.Info().Str("setting", name).Uint64("by_user_id", authn.User(c).ID).Msg("setting changed")

	return c.JSON(st)
}

// Delete removes a setting.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := s.settings.Delete(c.UserContext(), c.Params("name")); err != nil {
		return settingError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func settingError(err error) error {
	switch {
	case errors.Is(err, setting.ErrSettingNotFound):
		return handler.NotFound("setting not found")
	case errors.Is(err, setting.ErrSettingNameEmpty):
		return handler.BadRequest("setting name cannot be empty")
	default:
		return err
	}
}
