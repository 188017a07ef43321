package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog/log"

	"github.com/orbitdesk/orbitdesk/internal/auth"
)

// ErrMissingDependency is returned by Init when a required dependency is nil.
var ErrMissingDependency = errors.New(ErrNilDepsFatalLogMsg)

// Problem is the body of every error response.
type Problem struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorHandler renders errors returned by handlers and middleware as Problem JSON.
// *auth.Error keeps its kind and message; *fiber.Error gets a kind derived from its status.
// Everything else is a 500 with a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		status  = fiber.StatusInternalServerError
		kind    = string(auth.KindInternal)
		message = "internal error"

		authErr  *auth.Error
		fiberErr *fiber.Error
	)

	switch {
	case errors.As(err, &authErr):
		status, kind, message = authErr.Status(), string(authErr.Kind), authErr.Message
	case errors.As(err, &fiberErr):
		status, message = fiberErr.Code, fiberErr.Message
		kind = statusKind(status)
	}

	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	}

	return c.Status(status).JSON(Problem{Error: kind, Message: message})
}

func statusKind(status int) string {
	if status >= fiber.StatusInternalServerError {
		return string(auth.KindInternal)
	}

	return strings.ToUpper(strings.ReplaceAll(utils.StatusMessage(status), " ", "_"))
}

// BadRequest returns a BAD_REQUEST error with message.
func BadRequest(message string) error {
	return auth.NewError(auth.KindBadRequest, message)
}

// NotFound returns a NOT_FOUND error with message.
func NotFound(message string) error {
	return auth.NewError(auth.KindNotFound, message)
}

// Conflict returns a 409 error with message.
func Conflict(message string) error {
	return fiber.NewError(fiber.StatusConflict, message)
}
