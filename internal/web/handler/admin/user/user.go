// Package user provides the user management endpoints of the admin area.
package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/orbitdesk/orbitdesk/internal/db/controller/user"
	"github.com/orbitdesk/orbitdesk/internal/db/models"
	"github.com/orbitdesk/orbitdesk/internal/rbac"
	"github.com/orbitdesk/orbitdesk/internal/web/handler"
	"github.com/orbitdesk/orbitdesk/internal/web/middleware/authn"
	"github.com/orbitdesk/orbitdesk/internal/web/middleware/authz"
)

const (
	// Path is the base path for user management.
	Path = handler.RootPath + "admin/users"
)

// Service lists users and changes their account state.
type Service struct {
	handler.Service
	deps  *handler.Deps
	users *user.Store
}

// ListResponse is one page of users.
type ListResponse struct {
	Users      []models.User `json:"users"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalItems int64         `json:"totalItems"`
}

type statusChange struct {
	Status models.UserStatus `json:"status" validate:"required,oneof=active inactive suspended"`
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil || deps.DB == nil || deps.Authn == nil ||
		deps.Users == nil || deps.Sessions == nil {
		return handler.ErrMissingDependency
	}

	s.deps = deps
	s.users = user.New(deps.DB)

	app.Get(Path,
		deps.Authn,
		authz.Authorize(rbac.PermUserManagement, rbac.ActionRead),
		s.List,
	)
	app.Patch(Path+"/:id/status",
		deps.Authn,
		authz.Authorize(rbac.PermUserManagement, rbac.ActionWrite),
		s.UpdateStatus,
	)

	return nil
}

// List returns users ordered by id.
func (s *Service) List(c *fiber.Ctx) error {
	page, limit, offset := handler.Page(c)

	users, total, err := s.users.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(ListResponse{Users: users, Page: page, PageSize: limit, TotalItems: total})
}

// UpdateStatus activates, deactivates or suspends an account. Cached entries of the user
// and of all their sessions are dropped, so the next request of the user sees the new state
// in every process.
func (s *Service) UpdateStatus(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	var in statusChange
	if err = handler.Bind(c, &in); err != nil {
		return err
	}

	caller := authn.User(c)
	if caller.ID == id && in.Status != models.UserStatusActive {
		return handler.BadRequest("cannot disable own account")
	}

	ctx := c.UserContext()

	if err = s.users.SetStatus(ctx, id, in.Status); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return handler.NotFound("user not found")
		}

		return err
	}

	s.deps.Users.InvalidateUser(ctx, id)
	s.deps.Sessions.ForgetUser(ctx, id)

	if in.Status != models.UserStatusActive && s.deps.Deleter != nil {
		if err = s.deps.Deleter.DeleteUserSessions(ctx, id); err != nil {
			log.Error().Err(err).Uint64("user_id", id).Msg("failed to delete sessions of disabled user")
		}
	}

	log.Info().
		Uint64("user_id", id).
		Uint64("by_user_id", caller.ID).
		Str("status", string(in.Status)).
		Msg("user status changed")

	return c.SendStatus(fiber.StatusNoContent)
}
