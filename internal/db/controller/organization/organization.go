// Package organization provides persistence operations for organizations and their members.
package organization

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orbitdesk/orbitdesk/internal/db/models"
	"github.com/orbitdesk/orbitdesk/internal/db/seed"
	"github.com/orbitdesk/orbitdesk/internal/rbac"
)

var (
	// ErrOrganizationNotFound is returned when an organization does not exist or was deleted.
	ErrOrganizationNotFound = errors.New("organization not found")
	// ErrSlugTaken is returned when another organization, deleted or not, uses the slug.
	ErrSlugTaken = errors.New("organization slug already taken")
	// ErrAlreadyMember is returned when the user already belongs to the organization.
	ErrAlreadyMember = errors.New("user is already a member of the organization")
	// ErrForeignRole is returned when a role does not belong to the organization.
	ErrForeignRole = errors.New("role does not belong to the organization")
)

// Created is the result of Create.
type Created struct {
	Organization models.Organization       `json:"organization"`
	Owner        models.OrganizationMember `json:"owner"`
	Roles        seed.OrgRoleIDs           `json:"roles"`
}

// Store reads and writes organizations.
type Store struct {
	db       *gorm.DB
	manifest *rbac.Manifest
}

// New creates an organization store. m supplies the default roles of new organizations.
func New(db *gorm.DB, m *rbac.Manifest) *Store {
	return &Store{db: db, manifest: m}
}

// FindBySlug returns the live organization with slug, or nil when none exists.
func (s *Store) FindBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	var org models.Organization

	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil //nolint:nilnil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find organization %q: %w", slug, err)
	}

	return &org, nil
}

// FindMember returns the membership of userID in organizationID, or nil.
func (s *Store) FindMember(ctx context.Context, organizationID uint, userID uint64) (*models.OrganizationMember, error) {
	var m models.OrganizationMember

	err := s.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", organizationID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil //nolint:nilnil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	return &m, nil
}

// Members lists the members of organizationID with their user and role.
func (s *Store) Members(ctx context.Context, organizationID uint) ([]models.OrganizationMember, error) {
	var members []models.OrganizationMember

	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Role").
		Where("organization_id = ?", organizationID).
		Order("id").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return members, nil
}

// Create inserts an organization, its default roles and the owner membership of ownerID.
// Either all of it is committed or nothing is.
func (s *Store) Create(ctx context.Context, name, slug string, ownerID uint64) (*Created, error) {
	var out Created

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Unscoped().Model(&models.Organization{}).Where("slug = ?", slug).Count(&taken).Error; err != nil {
			return fmt.Errorf("failed to check slug: %w", err)
		}

		if taken > 0 {
			return ErrSlugTaken
		}

		out.Organization = models.Organization{Name: name, Slug: slug}
		if err := tx.Create(&out.Organization).Error; err != nil {
			return fmt.Errorf("failed to create organization: %w", err)
		}

		ids, err := seed.OrgRoles(tx, out.Organization.ID, s.manifest)
		if err != nil {
			return err
		}

		out.Roles = ids
		out.Owner = models.OrganizationMember{
			OrganizationID: out.Organization.ID,
			UserID:         ownerID,
			RoleID:         ids.Owner,
		}

		if err = tx.Omit(clause.Associations).Create(&out.Owner).Error; err != nil {
			return fmt.Errorf("failed to add owner: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// AddMember adds userID to organizationID with roleID, which must be a role of that organization.
func (s *Store) AddMember(ctx context.Context, organizationID uint, userID uint64, roleID uint) (*models.OrganizationMember, error) {
	member := models.OrganizationMember{OrganizationID: organizationID, UserID: userID, RoleID: roleID}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r models.Role
		if err := tx.First(&r, roleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrForeignRole
			}

			return fmt.Errorf("failed to load role %d: %w", roleID, err)
		}

		if r.Scope != rbac.ScopeOrganization || r.OrganizationID == nil || *r.OrganizationID != organizationID {
			return ErrForeignRole
		}

		var count int64
		if err := tx.Model(&models.OrganizationMember{}).
			Where("organization_id = ? AND user_id = ?", organizationID, userID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}

		if count > 0 {
			return ErrAlreadyMember
		}

		if err := tx.Omit(clause.Associations).Create(&member).Error; err != nil {
			return fmt.Errorf("failed to add member: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &member, nil
}

// SoftDelete marks the organization with id deleted. Its roles and members stay in place.
func (s *Store) SoftDelete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Organization{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete organization %d: %w", id, result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrOrganizationNotFound
	}

	return nil
}
