// Package role provides persistence operations for roles and their permission rows.
package role

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orbitdesk/orbitdesk/internal/db/models"
	"github.com/orbitdesk/orbitdesk/internal/rbac"
)

var (
	// ErrRoleNotFound is returned when a role does not exist.
	ErrRoleNotFound = errors.New("role not found")
	// ErrPermissionNotFound is returned when a permission key has no row.
	ErrPermissionNotFound = errors.New("permission not found")
	// ErrScopeMismatch is returned when a key of one scope is assigned to a role of the other.
	ErrScopeMismatch = errors.New("permission scope does not match role scope")
	// ErrInvalidAction is returned for actions outside none/read/write/delete.
	ErrInvalidAction = errors.New("invalid permission action")
)

// Store reads and writes roles.
type Store struct {
	db *gorm.DB
}

// New creates a role store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindByID loads a role with all of its permission rows joined to their permission.
// It returns nil and no error when the role does not exist.
func (s *Store) FindByID(ctx context.Context, id uint) (*models.Role, error) {
	var r models.Role

	err := s.db.WithContext(ctx).
		Preload("Permissions.Permission").
		First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil //nolint:nilnil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load role %d: %w", id, err)
	}

	return &r, nil
}

// FindByName finds a role by name inside an organization, or among global roles when
// organizationID is nil. It returns nil and no error when nothing matches.
func (s *Store) FindByName(ctx context.Context, name string, organizationID *uint) (*models.Role, error) {
	var r models.Role

	err := s.db.WithContext(ctx).
		Where("owner_key = ? AND name = ?", models.RoleOwnerKey(organizationID), name).
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil //nolint:nilnil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find role %q: %w", name, err)
	}

	return &r, nil
}

// SetPermission sets the action a role holds on key, creating the row if needed.
func (s *Store) SetPermission(ctx context.Context, roleID uint, key rbac.Key, action rbac.Action) error {
	if !action.Valid() {
		return ErrInvalidAction
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r models.Role
		if err := tx.First(&r, roleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleNotFound
			}

			return fmt.Errorf("failed to load role %d: %w", roleID, err)
		}

		if !rbac.InScope(key, r.Scope) {
			return ErrScopeMismatch
		}

		var p models.Permission
		if err := tx.Where("perm_key = ?", key).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPermissionNotFound
			}

			return fmt.Errorf("failed to load permission %s: %w", key, err)
		}

		return tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "role_id"}, {Name: "permission_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"action"}),
			}).
			Create(&models.RolePermission{RoleID: r.ID, PermissionID: p.ID, Action: action}).Error
	})
}
