package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/orbitdesk/orbitdesk/internal/cache"
	"github.com/orbitdesk/orbitdesk/internal/db/models"
	"github.com/orbitdesk/orbitdesk/internal/rbac"
)

// UserTagAll tags every cached user.
const UserTagAll = "users"

// UserFinder loads a user by id. It returns nil and no error when absent.
type UserFinder interface {
	FindByID(ctx context.Context, id uint64) (*models.User, error)
}

// User is an authenticated account with its global role resolved.
type User struct {
	ID       uint64                    `json:"id"`
	Username string                    `json:"username"`
	Email    string                    `json:"email"`
	Status   models.UserStatus         `json:"status"`
	Role     *rbac.RoleWithPermissions `json:"role"`
}

// UserKey is the cache key of the record of user id.
func UserKey(id uint64) string {
	return "user:" + strconv.FormatUint(id, 10)
}

// UserDirectory resolves user ids to users with their global role.
type UserDirectory struct {
	cache *cache.Cache
	roles *RoleResolver
	find  cache.Loader[uint64, *models.User]
}

// NewUserDirectory creates a directory reading users from store and caching them for ttl.
// Roles are resolved through roles and cached independently of the user record.
func NewUserDirectory(store UserFinder, roles *RoleResolver, c *cache.Cache, ttl time.Duration) *UserDirectory {
	load := func(ctx context.Context, id uint64) (*models.User, bool, error) {
		u, err := store.FindByID(ctx, id)
		if err != nil || u == nil {
			return nil, false, err
		}

		return u, true, nil
	}

	return &UserDirectory{
		cache: c,
		roles: roles,
		find: cache.Cacheable(c, cache.Options[uint64]{
			Key:  UserKey,
			Tags: func(id uint64) []string { return []string{UserTagAll, UserKey(id)} },
			TTL:  ttl,
		}, load),
	}
}

// FindUser returns user id with its global role, or nil when the user does not exist.
func (d *UserDirectory) FindUser(ctx context.Context, id uint64) (*User, error) {
	u, _, err := d.find(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}

	role, err := d.roles.ResolveGlobalRole(ctx, u.RoleID)
	if err != nil {
		return nil, err
	}

	if role == nil {
		return nil, fmt.Errorf("%w: user %d role %d", ErrRoleMissing, u.ID, u.RoleID)
	}

	return &User{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Status:   u.Status,
		Role:     role,
	}, nil
}

// InvalidateUser drops the cached record of user id.
func (d *UserDirectory) InvalidateUser(ctx context.Context, id uint64) {
	d.cache.Invalidate(ctx, UserKey(id))
}
