package auth

import (
	"context"
	"fmt"

	"github.com/orbitdesk/orbitdesk/internal/db/models"
)

// AccountStore is the user persistence LocalProvider needs.
type AccountStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
}

// LocalProvider handles local database authentication.
type LocalProvider struct {
	users         AccountStore
	defaultRoleID uint
}

// NewLocalProvider creates a new local authentication provider. Registered users get
// defaultRoleID as their global role.
func NewLocalProvider(users AccountStore, defaultRoleID uint) *LocalProvider {
	return &LocalProvider{users: users, defaultRoleID: defaultRoleID}
}

// Authenticate checks username and password. Accounts that are not active cannot log in.
func (p *LocalProvider) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := p.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if user == nil {
		return nil, ErrUserNotFound
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	if user.Status != models.UserStatusActive {
		return nil, ErrUserAccountDisabled
	}

	return user, nil
}

// Register creates an active local user holding the default role.
func (p *LocalProvider) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	hashed, err := models.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashed,
		Status:   models.UserStatusActive,
		RoleID:   p.defaultRoleID,
	}

	if err = p.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
