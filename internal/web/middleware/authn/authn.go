package authn

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/orbitdesk/orbitdesk/internal/auth"
	"github.com/orbitdesk/orbitdesk/internal/db/models"
)

const (
	// DefaultCookieName is the cookie carrying the access token.
	DefaultCookieName = "access_token"

	// LocalsUser is the fiber.Locals key of the authenticated *auth.User.
	LocalsUser = "user"
	// LocalsSessionID is the fiber.Locals key of the session id.
	LocalsSessionID = "sessionId"

	bearerPrefix = "Bearer "
)

// Backend resolves sessions and users and deletes sessions of logged out accounts.
// Lookups return nil and no error when nothing matches.
type Backend interface {
	FindSession(ctx context.Context, userID uint64, sessionID string) (*auth.SessionRecord, error)
	FindUser(ctx context.Context, userID uint64) (*auth.User, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// Verifier checks access tokens.
type Verifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Config configures the middleware.
type Config struct {
	Backend Backend
	Tokens  Verifier
	// CookieName is the access cookie. Defaults to DefaultCookieName.
	CookieName string
	// ClearCookies are removed from the client of suspended or inactive accounts.
	// Defaults to CookieName.
	ClearCookies []string
	// Now defaults to time.Now.
	Now func() time.Time
}

// New creates the authentication middleware.
func New(cfg Config) fiber.Handler {
	if cfg.Backend == nil || cfg.Tokens == nil {
		panic("authn: backend and token verifier are required")
	}

	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}

	if len(cfg.ClearCookies) == 0 {
		cfg.ClearCookies = []string{cfg.CookieName}
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return func(c *fiber.Ctx) error {
		user, sessionID, err := authenticate(c, &cfg)
		if err != nil {
			return err
		}

		c.Locals(LocalsUser, user)
		c.Locals(LocalsSessionID, sessionID)

		return c.Next()
	}
}

func authenticate(c *fiber.Ctx, cfg *Config) (*auth.User, string, error) {
	ctx := c.UserContext()

	token := credential(c, cfg.CookieName)
	if token == "" {
		return nil, "", auth.NewError(auth.KindUnauthorized, "missing credentials")
	}

	claims, err := cfg.Tokens.Verify(token)
	if err != nil {
		if auth.KindOf(err) == auth.KindInternal {
			return nil, "", auth.Wrap(auth.KindUnauthorized, "unauthorized", err)
		}

		return nil, "", err
	}

	sess, err := cfg.Backend.FindSession(ctx, claims.UserID, claims.SessionID)
	if err != nil {
		return nil, "", auth.Wrap(auth.KindInternal, "failed to load session", err)
	}

	if sess == nil || sess.Expired(cfg.Now()) {
		return nil, "", auth.NewError(auth.KindSessionExpired, "session expired")
	}

	user, err := cfg.Backend.FindUser(ctx, claims.UserID)
	if err != nil {
		return nil, "", auth.Wrap(auth.KindInternal, "failed to load user", err)
	}

	if user == nil {
		return nil, "", auth.NewError(auth.KindUnauthorized, "user not found")
	}

	switch user.Status {
	case models.UserStatusSuspended:
		logout(c, cfg, user, claims.SessionID)
		return nil, "", auth.NewError(auth.KindForbidden, "account suspended")
	case models.UserStatusInactive:
		logout(c, cfg, user, claims.SessionID)
		return nil, "", auth.NewError(auth.KindForbidden, "account inactive")
	}

	return user, claims.SessionID, nil
}

// logout clears the client credentials and deletes the session. Deletion failures are
// logged only since the request is rejected either way.
func logout(c *fiber.Ctx, cfg *Config, user *auth.User, sessionID string) {
	c.ClearCookie(cfg.ClearCookies...)

	if err := cfg.Backend.DeleteSession(c.UserContext(), sessionID); err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to delete session of disabled account")
	}

	log.Warn().Uint64("user_id", user.ID).Str("status", string(user.Status)).Msg("disabled account logged out")
}

// credential returns the bearer token of the Authorization header, else the access cookie.
func credential(c *fiber.Ctx, cookieName string) string {
	if h := c.Get(fiber.HeaderAuthorization); len(h) > len(bearerPrefix) &&
		strings.EqualFold(h[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(h[len(bearerPrefix):])
	}

	return c.Cookies(cookieName)
}

// User returns the authenticated user, or nil on routes without the middleware.
func User(c *fiber.Ctx) *auth.User {
	u, _ := c.Locals(LocalsUser).(*auth.User)
	return u
}

// SessionID returns the session id of the authenticated request.
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalsSessionID).(string)
	return id
}
