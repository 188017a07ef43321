// Package models contains database model definitions.
package models

import "time"

// Setting is a named platform setting stored as an opaque value.
type Setting struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"unique;size:100" json:"name"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// All returns every model managed by the platform, in migration order.
func All() []any {
	return []any{
		&Permission{},
		&Role{},
		&RolePermission{},
		&User{},
		&Session{},
		&Organization{},
		&OrganizationMember{},
		&Setting{},
	}
}
