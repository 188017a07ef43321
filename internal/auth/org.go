package auth

import (
	"context"

	"github.com/orbitdesk/orbitdesk/internal/db/models"
	"github.com/orbitdesk/orbitdesk/internal/rbac"
)

// OrgFinder is the organization lookup OrgDirectory builds on.
type OrgFinder interface {
	FindBySlug(ctx context.Context, slug string) (*models.Organization, error)
	FindMember(ctx context.Context, organizationID uint, userID uint64) (*models.OrganizationMember, error)
}

// OrgDirectory is everything the organization gate needs.
type OrgDirectory struct {
	Orgs  OrgFinder
	Roles *RoleResolver
}

// FindOrgBySlug returns the live organization with slug, or nil.
func (d *OrgDirectory) FindOrgBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	return d.Orgs.FindBySlug(ctx, slug)
}

// FindMember returns the membership of userID in organizationID, or nil.
func (d *OrgDirectory) FindMember(ctx context.Context, organizationID uint, userID uint64) (*models.OrganizationMember, error) {
	return d.Orgs.FindMember(ctx, organizationID, userID)
}

// FindOrgRole returns role id with organization permissions only, or nil.
func (d *OrgDirectory) FindOrgRole(ctx context.Context, id uint) (*rbac.RoleWithPermissions, error) {
	return d.Roles.ResolveOrgRole(ctx, id)
}
