package models

import "time"

// Session is a login session. Tokens carry its id and are only valid while the row exists
// and has not expired.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"userId"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the database table name for the Session model.
func (Session) TableName() string {
	return "sessions"
}
