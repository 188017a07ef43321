package authz

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/orbitdesk/orbitdesk/internal/auth"
	"github.com/orbitdesk/orbitdesk/internal/rbac"
	"github.com/orbitdesk/orbitdesk/internal/web/middleware/authn"
)

var (
	// ErrScopeMismatch is returned when a gate is built for a key of the other scope.
	ErrScopeMismatch = errors.New("permission key used with a gate of the other scope")
	// ErrInvalidAction is returned when a gate is built with an unknown minimum action.
	ErrInvalidAction = errors.New("invalid minimum action")
)

func checkScope(key rbac.Key, minAction rbac.Action, scope rbac.Scope) error {
	if !rbac.InScope(key, scope) {
		return auth.Wrap(auth.KindBadRequest, "invalid gate",
			fmt.Errorf("%w: %s is not a %s permission", ErrScopeMismatch, key, scope))
	}

	if !minAction.Valid() {
		return auth.Wrap(auth.KindBadRequest, "invalid gate", fmt.Errorf("%w: %q", ErrInvalidAction, minAction))
	}

	return nil
}

// NewAuthorize returns a handler that lets the request through when the global role of the
// authenticated user holds key at minAction or above.
func NewAuthorize(key rbac.Key, minAction rbac.Action) (fiber.Handler, error) {
	if err := checkScope(key, minAction, rbac.ScopeGlobal); err != nil {
		return nil, err
	}

	return func(c *fiber.Ctx) error {
		user := authn.User(c)
		if user == nil {
			return auth.NewError(auth.KindUnauthorized, "unauthorized")
		}

		if !user.Role.Allows(key, minAction) {
			log.Warn().Uint64("user_id", user.ID).Str("permission", string(key)).
				Str("required", string(minAction)).Str("granted", string(user.Role.Action(key))).
				Msg("global permission denied")

			return auth.NewError(auth.KindForbidden, "insufficient permission")
		}

		return c.Next()
	}, nil
}

// Authorize is NewAuthorize for route registration. It panics on a scope mismatch.
func Authorize(key rbac.Key, minAction rbac.Action) fiber.Handler {
	h, err := NewAuthorize(key, minAction)
	if err != nil {
		panic(err)
	}

	return h
}
