package models

import "github.com/orbitdesk/orbitdesk/internal/rbac"

// RolePermission assigns an action on one permission to one role.
// There is at most one row per (role, permission).
type RolePermission struct {
	// RoleID is the ID of the role in this mapping.
	RoleID uint `gorm:"primaryKey;column:role_id"`
	// PermissionID is the ID of the permission in this mapping.
	PermissionID uint `gorm:"primaryKey;column:permission_id"`
	// Action is the granted action level.
	Action rbac.Action `gorm:"type:varchar(10);not null;default:'none'"`
	// Role is the associated role.
	// When a role is deleted, its permission assignments are automatically removed (CASCADE).
	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	// Permission is the associated permission.
	Permission Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the RolePermission model.
func (RolePermission) TableName() string {
	return "role_permissions"
}
