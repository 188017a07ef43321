package authz

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/orbitdesk/orbitdesk/internal/auth"
	"github.com/orbitdesk/orbitdesk/internal/db/models"
	"github.com/orbitdesk/orbitdesk/internal/rbac"
	"github.com/orbitdesk/orbitdesk/internal/web/middleware/authn"
)

const (
	// HeaderOrganizationSlug names the organization of an organization scoped request.
	HeaderOrganizationSlug = "X-Organization-Slug"

	// LocalsOrganizationMember is the fiber.Locals key of the *OrgContext.
	LocalsOrganizationMember = "organizationMember"
)

// OrgBackend resolves the organization context of a request. Lookups return nil and no
// error when nothing matches. FindOrgBySlug must not return soft deleted organizations and
// FindOrgRole must return organization scoped permissions only.
type OrgBackend interface {
	FindOrgBySlug(ctx context.Context, slug string) (*models.Organization, error)
	FindMember(ctx context.Context, organizationID uint, userID uint64) (*models.OrganizationMember, error)
	FindOrgRole(ctx context.Context, roleID uint) (*rbac.RoleWithPermissions, error)
}

// OrgContext is what the organization gate attaches to an authorized request.
type OrgContext struct {
	Organization *models.Organization       `json:"organization"`
	Member       *models.OrganizationMember `json:"member"`
	Role         *rbac.RoleWithPermissions  `json:"role"`
}

// OrgGate authorizes requests against the caller's role in the organization they address.
type OrgGate struct {
	backend OrgBackend
}

// NewOrgGate creates an organization gate on backend.
func NewOrgGate(backend OrgBackend) *OrgGate {
	return &OrgGate{backend: backend}
}

// NewAuthorize returns a handler that lets the request through when the caller's role in the
// organization named by the X-Organization-Slug header holds key at minAction or above.
func (g *OrgGate) NewAuthorize(key rbac.Key, minAction rbac.Action) (fiber.Handler, error) {
	if err := checkScope(key, minAction, rbac.ScopeOrganization); err != nil {
		return nil, err
	}

	return func(c *fiber.Ctx) error {
		oc, err := g.resolve(c, key, minAction)
		if err != nil {
			return err
		}

		c.Locals(LocalsOrganizationMember, oc)

		return c.Next()
	}, nil
}

// Authorize is NewAuthorize for route registration. It panics on a scope mismatch.
func (g *OrgGate) Authorize(key rbac.Key, minAction rbac.Action) fiber.Handler {
	h, err := g.NewAuthorize(key, minAction)
	if err != nil {
		panic(err)
	}

	return h
}

func (g *OrgGate) resolve(c *fiber.Ctx, key rbac.Key, minAction rbac.Action) (*OrgContext, error) {
	ctx := c.UserContext()

	slug := c.Get(HeaderOrganizationSlug)
	if slug == "" {
		return nil, auth.NewError(auth.KindBadRequest, "missing "+HeaderOrganizationSlug+" header")
	}

	org, err := g.backend.FindOrgBySlug(ctx, slug)
	if err != nil {
		return nil, auth.Wrap(auth.KindInternal, "failed to load organization", err)
	}

	if org == nil {
		return nil, auth.NewError(auth.KindNotFound, "organization not found")
	}

	user := authn.User(c)
	if user == nil {
		return nil, auth.NewError(auth.KindUnauthorized, "unauthorized")
	}

	member, err := g.backend.FindMember(ctx, org.ID, user.ID)
	if err != nil {
		return nil, auth.Wrap(auth.KindInternal, "failed to load membership", err)
	}

	if member == nil {
		log.Warn().Uint64("user_id", user.ID).Str("organization", slug).Msg("not a member of organization")
		return nil, auth.NewError(auth.KindForbidden, "not a member of this organization")
	}

	role, err := g.backend.FindOrgRole(ctx, member.RoleID)
	if err != nil {
		return nil, auth.Wrap(auth.KindInternal, "failed to load organization role", err)
	}

	if role == nil {
		log.Error().Uint64("user_id", user.ID).Uint("member_id", member.ID).Uint("role_id", member.RoleID).
			Str("organization", slug).Msg("membership references a missing role")

		return nil, auth.NewError(auth.KindInternal, "organization role not found")
	}

	if !role.Allows(key, minAction) {
		log.Warn().Uint64("user_id", user.ID).Str("organization", slug).Str("permission", string(key)).
			Str("required", string(minAction)).Str("granted", string(role.Action(key))).
			Msg("organization permission denied")

		return nil, auth.NewError(auth.KindForbidden, "insufficient permission")
	}

	return &OrgContext{Organization: org, Member: member, Role: role}, nil
}

// Org returns the organization context attached by the gate, or nil.
func Org(c *fiber.Ctx) *OrgContext {
	oc, _ := c.Locals(LocalsOrganizationMember).(*OrgContext)
	return oc
}
