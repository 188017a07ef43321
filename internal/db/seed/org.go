package seed

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orbitdesk/orbitdesk/internal/db/models"
	"github.com/orbitdesk/orbitdesk/internal/rbac"
)

// OrgRoleIDs are the ids of the default roles of a new organization.
type OrgRoleIDs struct {
	Owner  uint `json:"owner"`
	Admin  uint `json:"admin"`
	Member uint `json:"member"`
}

// OrgRoles creates the owner, admin and member roles of organization orgID and assigns every
// organization scoped permission its manifest action. It must run on the transaction that
// created the organization and is not meant to be run twice.
func OrgRoles(tx *gorm.DB, orgID uint, m *rbac.Manifest) (OrgRoleIDs, error) {
	var ids OrgRoleIDs

	targets := map[string]*uint{
		rbac.OrgRoleOwner:  &ids.Owner,
		rbac.OrgRoleAdmin:  &ids.Admin,
		rbac.OrgRoleMember: &ids.Member,
	}

	var perms []models.Permission
	if err := tx.Where("scope = ?", rbac.ScopeOrganization).Find(&perms).Error; err != nil {
		return ids, fmt.Errorf("failed to load organization permissions: %w", err)
	}

	for name, target := range targets {
		def, ok := m.OrgRole(name)
		if !ok {
			return ids, fmt.Errorf("%w: %s", ErrOrgRoleMissing, name)
		}

		role := models.Role{
			Name:           def.Name,
			Description:    def.Description,
			IsSystem:       true,
			Scope:          rbac.ScopeOrganization,
			OrganizationID: &orgID,
		}

		if err := tx.Omit(clause.Associations).Create(&role).Error; err != nil {
			return ids, fmt.Errorf("failed to create organization role %s: %w", name, err)
		}

		*target = role.ID

		if len(perms) == 0 {
			continue
		}

		rows := make([]models.RolePermission, 0, len(perms))
		for _, p := range perms {
			rows = append(rows, models.RolePermission{RoleID: role.ID, PermissionID: p.ID, Action: def.Action(p.Key)})
		}

		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			return ids, fmt.Errorf("failed to assign permissions to organization role %s: %w", name, err)
		}
	}

	return ids, nil
}
