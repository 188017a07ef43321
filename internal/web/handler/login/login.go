// Package login provides the register and login endpoints of the auth process.
package login

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/orbitdesk/orbitdesk/internal/auth"
	"github.com/orbitdesk/orbitdesk/internal/db/controller/session"
	"github.com/orbitdesk/orbitdesk/internal/db/controller/user"
	"github.com/orbitdesk/orbitdesk/internal/db/models"
	"github.com/orbitdesk/orbitdesk/internal/web/handler"
)

const (
	// Path is the route group of the account endpoints.
	Path = handler.RootPath + "auth"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	deps     *handler.Deps
	local    *auth.LocalProvider
	sessions *session.Store
}

type credentials struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=8,max=256"`
}

type registration struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=256"`
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil || deps.Cfg == nil || deps.DB == nil || deps.Tokens == nil {
		return handler.ErrMissingDependency
	}

	s.deps = deps
	s.local = auth.NewLocalProvider(user.New(deps.DB), deps.DefaultRoleID)
	s.sessions = session.New(deps.DB)

	app.Route(Path, func(router fiber.Router) {
		router.Post("/register", s.Register)
		router.Post("/login", s.Login)
	})

	return nil
}

// Register creates an active account holding the default global role.
func (s *Service) Register(c *fiber.Ctx) error {
	var in registration
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	u, err := s.local.Register(c.UserContext(), in.Username, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, user.ErrUserExists) {
			return handler.Conflict("username already taken")
		}

		return err
	}

	log.Info().Uint64("user_id", u.ID).Str("username", u.Username).Msg("user registered")

	return c.Status(fiber.StatusCreated).JSON(u)
}

// Login checks the credentials, opens a session and returns its access token.
// The token is also set as cookie.
func (s *Service) Login(c *fiber.Ctx) error {
	var in credentials
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	ctx := c.UserContext()

	u, err := s.local.Authenticate(ctx, in.Username, in.Password)
	switch {
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
		return auth.NewError(auth.KindUnauthorized, "invalid username or password")
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return auth.NewError(auth.KindForbidden, "account disabled")
	case err != nil:
		return err
	}

	sess, err := s.sessions.Create(ctx, u.ID, s.deps.Cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	token, err := s.deps.Tokens.Issue(u.ID, sess.ID, sess.ExpiresAt)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     s.cookieName(),
		Value:    token,
		Expires:  sess.ExpiresAt,
		Secure:   s.deps.Cfg.Auth.SecureCookies,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	log.Info().Uint64("user_id", u.ID).Str("session_id", sess.ID).Msg("user logged in")

	return c.JSON(TokenResponse{Token: token, ExpiresAt: sess.ExpiresAt, User: u})
}

func (s *Service) cookieName() string {
	return handler.CookieName(s.deps.Cfg)
}
