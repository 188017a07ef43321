package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/orbitdesk/orbitdesk/internal/auth"
	"github.com/orbitdesk/orbitdesk/internal/config"
	"github.com/orbitdesk/orbitdesk/internal/rbac"
	"github.com/orbitdesk/orbitdesk/internal/web/middleware/authz"
)

// Deps are the shared services a handler is built from. Which fields are set depends on
// the process kind; every handler checks the ones it needs in Init.
type Deps struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Manifest *rbac.Manifest

	Tokens   *auth.TokenService
	Roles    *auth.RoleResolver
	Sessions *auth.SessionValidator
	Users    *auth.UserDirectory

	// Deleter is only set in the process owning sessions.
	Deleter *auth.StoreDeleter

	// Authn is the authentication middleware of the process.
	Authn   fiber.Handler
	OrgGate *authz.OrgGate

	// DefaultRoleID is the global role of newly registered users.
	DefaultRoleID uint
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}
