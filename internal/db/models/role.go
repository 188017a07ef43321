package models

import (
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/orbitdesk/orbitdesk/internal/rbac"
)

// OwnerKeyGlobal is the owner key of every global role.
const OwnerKeyGlobal = "global"

// Role represents a role in the role-based access control (RBAC) system.
// Global roles have no organization. Organization roles belong to exactly one organization.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey"`
	// Name of the role, unique among global roles and per organization.
	Name string `gorm:"size:100;not null;uniqueIndex:idx_roles_owner_name,priority:2"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255"`
	// IsSystem marks roles created by code. Their permissions are reconciled on every boot.
	IsSystem bool `gorm:"default:false"`
	// Scope is global or organization.
	Scope rbac.Scope `gorm:"type:varchar(20);not null"`
	// OrganizationID is set iff Scope is organization.
	OrganizationID *uint `gorm:"index"`
	// OwnerKey is "global" or "org:<id>". Together with Name it enforces name uniqueness,
	// which a nullable organization_id column cannot do on its own.
	OwnerKey string `gorm:"size:64;not null;uniqueIndex:idx_roles_owner_name,priority:1"`
	// Permissions are the permission rows of this role.
	Permissions []RolePermission `gorm:"foreignKey:RoleID"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

// RoleOwnerKey returns the owner key for a role of the given organization (nil for global).
func RoleOwnerKey(organizationID *uint) string {
	if organizationID == nil {
		return OwnerKeyGlobal
	}

	return "org:" + strconv.FormatUint(uint64(*organizationID), 10)
}

// BeforeSave keeps OwnerKey in sync with OrganizationID.
func (r *Role) BeforeSave(_ *gorm.DB) error {
	r.OwnerKey = RoleOwnerKey(r.OrganizationID)
	return nil
}
