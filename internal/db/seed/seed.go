// Package seed reconciles the code defined RBAC manifest into the database.
package seed

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orbitdesk/orbitdesk/internal/db/models"
	"github.com/orbitdesk/orbitdesk/internal/rbac"
)

const batchSize = 200

var (
	// ErrUnknownPermission is returned when the manifest names a key without scope.
	ErrUnknownPermission = errors.New("manifest permission has no scope")
	// ErrDefaultRoleMissing is returned when the default role is not a seeded global role.
	ErrDefaultRoleMissing = errors.New("default role not found after seeding")
	// ErrOrgRoleMissing is returned when the manifest lacks one of owner, admin or member.
	ErrOrgRoleMissing = errors.New("organization role manifest incomplete")
)

// Result carries values resolved while seeding that the process needs later.
type Result struct {
	// DefaultRoleID is the global role assigned to newly registered users.
	DefaultRoleID uint
	// SystemRoleIDs lists the roles whose rows were overwritten from the manifest.
	// Cached resolutions of these roles are stale once the seed commits.
	SystemRoleIDs []uint
}

// RBAC reconciles m into the database inside one transaction. It is idempotent and uses
// insert-or-ignore / upsert statements only, so several instances may run it at boot together.
//
//   - permissions and system roles are inserted once and never updated
//   - system roles get their rows overwritten with the manifest actions
//   - every other role only gets missing rows, set to none
func RBAC(ctx context.Context, db *gorm.DB, m *rbac.Manifest) (*Result, error) {
	var res Result

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insertPermissions(tx, m); err != nil {
			return err
		}

		if err := insertSystemRoles(tx, m); err != nil {
			return err
		}

		ids, err := reconcileRolePermissions(tx, m)
		if err != nil {
			return err
		}

		res.SystemRoleIDs = ids

		var def models.Role
		if err := tx.Where("owner_key = ? AND name = ?", models.OwnerKeyGlobal, m.DefaultRole).
			First(&def).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrDefaultRoleMissing, m.DefaultRole)
			}

			return fmt.Errorf("failed to load default role: %w", err)
		}

		res.DefaultRoleID = def.ID

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &res, nil
}

func insertPermissions(tx *gorm.DB, m *rbac.Manifest) error {
	if len(m.Permissions) == 0 {
		return nil
	}

	perms := make([]models.Permission, 0, len(m.Permissions))

	for _, p := range m.Permissions {
		scope, ok := rbac.ScopeOf(p.Key)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPermission, p.Key)
		}

		perms = append(perms, models.Permission{Key: p.Key, Scope: scope, Description: p.Description})
	}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "perm_key"}},
		DoNothing: true,
	}).CreateInBatches(&perms, batchSize).Error
	if err != nil {
		return fmt.Errorf("failed to insert permissions: %w", err)
	}

	return nil
}

func insertSystemRoles(tx *gorm.DB, m *rbac.Manifest) error {
	if len(m.SystemRoles) == 0 {
		return nil
	}

	roles := make([]models.Role, 0, len(m.SystemRoles))
	for _, r := range m.SystemRoles {
		roles = append(roles, models.Role{
			Name:        r.Name,
			Description: r.Description,
			IsSystem:    true,
			Scope:       rbac.ScopeGlobal,
		})
	}

	err := tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_key"}, {Name: "name"}},
			DoNothing: true,
		}).CreateInBatches(&roles, batchSize).Error
	if err != nil {
		return fmt.Errorf("failed to insert system roles: %w", err)
	}

	return nil
}

// manifestRole returns the definition a system role is reconciled against.
func manifestRole(m *rbac.Manifest, r *models.Role) (rbac.RoleDef, bool) {
	if !r.IsSystem {
		return rbac.RoleDef{}, false
	}

	if r.Scope == rbac.ScopeOrganization {
		return m.OrgRole(r.Name)
	}

	return m.SystemRole(r.Name)
}

func reconcileRolePermissions(tx *gorm.DB, m *rbac.Manifest) ([]uint, error) {
	var (
		perms []models.Permission
		roles []models.Role
	)

	if err := tx.Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("failed to load permissions: %w", err)
	}

	if err := tx.Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}

	var (
		reconciled, defaulted []models.RolePermission
		systemIDs             []uint
	)

	for i := range roles {
		def, system := manifestRole(m, &roles[i])
		if system {
			systemIDs = append(systemIDs, roles[i].ID)
		}

		for _, p := range perms {
			row := models.RolePermission{RoleID: roles[i].ID, PermissionID: p.ID, Action: rbac.ActionNone}

			if system {
				row.Action = def.Action(p.Key)
				reconciled = append(reconciled, row)

				continue
			}

			defaulted = append(defaulted, row)
		}
	}

	conflict := []clause.Column{{Name: "role_id"}, {Name: "permission_id"}}

	if len(reconciled) > 0 {
		err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{Columns: conflict, DoUpdates: clause.AssignmentColumns([]string{"action"})}).
			CreateInBatches(&reconciled, batchSize).Error
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile system role permissions: %w", err)
		}
	}

	if len(defaulted) > 0 {
		err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{Columns: conflict, DoNothing: true}).
			CreateInBatches(&defaulted, batchSize).Error
		if err != nil {
			return nil, fmt.Errorf("failed to default custom role permissions: %w", err)
		}
	}

	return systemIDs, nil
}
