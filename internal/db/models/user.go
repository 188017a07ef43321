package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// UserStatus is the lifecycle state of an account.
type UserStatus string

const (
	// UserStatusActive accounts can use the platform.
	UserStatusActive UserStatus = "active"
	// UserStatusInactive accounts were deactivated and are logged out on every access.
	UserStatusInactive UserStatus = "inactive"
	// UserStatusSuspended accounts were suspended by an administrator.
	UserStatusSuspended UserStatus = "suspended"
)

// User represents a platform account.
// Every user holds exactly one global role. Organization roles come from memberships.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Username is the unique username for login.
	Username string `gorm:"unique;size:100;not null" json:"username"`
	// Email is the user's email address.
	Email string `gorm:"size:255;not null" json:"email"`
	// Password is the Argon2id hashed password. It never leaves the process.
	Password string `gorm:"size:255" json:"-"`
	// Status is the account state (active, inactive or suspended).
	Status UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	// RoleID is the global role of this user.
	RoleID uint `gorm:"column:role_id;not null" json:"roleId"`
	// Role is the associated global role.
	Role Role `gorm:"foreignKey:RoleID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE" json:"-"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
func (u *User) VerifyPassword(password string) bool {
	if u.Password == "" {
		return false
	}

	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}
