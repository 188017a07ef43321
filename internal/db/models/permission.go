package models

import (
	"time"

	"github.com/orbitdesk/orbitdesk/internal/rbac"
)

// Permission is the persisted form of a manifest permission key.
// Rows are inserted by the boot seed and never updated afterwards.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey"`
	// Key is the permission key (e.g. "USER_MANAGEMENT").
	Key rbac.Key `gorm:"column:perm_key;unique;size:100;not null"`
	// Scope is the scope of the key, global or organization.
	Scope rbac.Scope `gorm:"type:varchar(20);not null"`
	// Description provides a human-readable explanation of what this permission grants.
	Description string `gorm:"size:255"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}
