package handler

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/orbitdesk/orbitdesk/internal/config"
	"github.com/orbitdesk/orbitdesk/internal/web/middleware/authn"
)

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals

// Bind parses the request body into dst and validates it.
func Bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return BadRequest("invalid request body")
	}

	if err := validate.Struct(dst); err != nil {
		return BadRequest(err.Error())
	}

	return nil
}

// ParamID parses the positive integer route parameter name.
func ParamID(c *fiber.Ctx, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, BadRequest("invalid " + name)
	}

	return id, nil
}

// Page returns limit and offset from the page and pageSize query parameters.
func Page(c *fiber.Ctx) (page, limit, offset int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	limit = c.QueryInt("pageSize", DefaultPageSize)
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}

	return page, limit, (page - 1) * limit
}

// CookieName returns the configured access cookie name.
func CookieName(cfg *config.Config) string {
	if cfg != nil && cfg.Auth.CookieName != "" {
		return cfg.Auth.CookieName
	}

	return authn.DefaultCookieName
}
