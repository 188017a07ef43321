// Package user provides persistence operations for platform accounts.
package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orbitdesk/orbitdesk/internal/db/models"
)

var (
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when the username is already taken.
	ErrUserExists = errors.New("user with username already exists")
	// ErrInvalidStatus is returned for unknown account states.
	ErrInvalidStatus = errors.New("invalid user status")
)

// Store reads and writes users.
type Store struct {
	db *gorm.DB
}

// New creates a user store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindByID returns the user with id, or nil when it does not exist.
func (s *Store) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var u models.User

	err := s.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil //nolint:nilnil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}

	return &u, nil
}

// FindByUsername returns the user called username, or nil when it does not exist.
func (s *Store) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User

	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil //nolint:nilnil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find user %q: %w", username, err)
	}

	return &u, nil
}

// Create inserts u.
func (s *Store) Create(ctx context.Context, u *models.User) error {
	existing, err := s.FindByUsername(ctx, u.Username)
	if err != nil {
		return err
	}

	if existing != nil {
		return ErrUserExists
	}

	if u.Status == "" {
		u.Status = models.UserStatusActive
	}

	if err = s.db.WithContext(ctx).Omit("Role").Create(u).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// List returns one page of users ordered by id and the total count.
func (s *Store) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	var (
		users []models.User
		total int64
	)

	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	if err := s.db.WithContext(ctx).Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// SetStatus changes the account state of a user.
func (s *Store) SetStatus(ctx context.Context, id uint64, status models.UserStatus) error {
	switch status {
	case models.UserStatusActive, models.UserStatusInactive, models.UserStatusSuspended:
	default:
		return ErrInvalidStatus
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update user %d: %w", id, result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
