package models

import (
	"time"

	"gorm.io/gorm"
)

// Organization is a tenant. Soft deleted organizations are invisible to every lookup.
type Organization struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:150;not null" json:"name"`
	Slug      string         `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the database table name for the Organization model.
func (Organization) TableName() string {
	return "organizations"
}

// OrganizationMember links a user to an organization with an organization scoped role.
// The role must be an organization role of the same organization; application code enforces it.
type OrganizationMember struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	OrganizationID uint         `gorm:"not null;uniqueIndex:idx_org_members_org_user" json:"organizationId"`
	UserID         uint64       `gorm:"not null;uniqueIndex:idx_org_members_org_user" json:"userId"`
	RoleID         uint         `gorm:"not null" json:"roleId"`
	Organization   Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
	User           User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Role           Role         `gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT" json:"-"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// TableName specifies the database table name for the OrganizationMember model.
func (OrganizationMember) TableName() string {
	return "organization_members"
}
