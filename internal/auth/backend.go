package auth

import (
	"context"

	"github.com/orbitdesk/orbitdesk/internal/cache"
)

// SessionDeleter ends sessions on behalf of the authentication middleware.
type SessionDeleter interface {
	DeleteSession(ctx context.Context, sessionID string) error
}

// SessionRemover is the persistent side of session deletion.
type SessionRemover interface {
	Delete(ctx context.Context, sessionID string) error
	DeleteByUser(ctx context.Context, userID uint64) error
}

// StoreDeleter deletes sessions from the database and drops their cache entries.
// Only the process that owns sessions should use it.
type StoreDeleter struct {
	deleteOne  func(context.Context, string) error
	deleteUser func(context.Context, uint64) error
}

// NewStoreDeleter creates a deleter on store that invalidates the session entries of c.
func NewStoreDeleter(store SessionRemover, c *cache.Cache) *StoreDeleter {
	return &StoreDeleter{
		deleteOne: cache.Invalidating(c, cache.InvalidateOptions[string]{
			Tags: func(id string) []string { return []string{SessionTag(id)} },
		}, store.Delete),
		deleteUser: cache.Invalidating(c, cache.InvalidateOptions[uint64]{
			Tags: func(userID uint64) []string { return []string{UserSessionsTag(userID)} },
		}, store.DeleteByUser),
	}
}

// DeleteSession deletes one session.
func (d *StoreDeleter) DeleteSession(ctx context.Context, sessionID string) error {
	return d.deleteOne(ctx, sessionID)
}

// DeleteUserSessions deletes every session of userID.
func (d *StoreDeleter) DeleteUserSessions(ctx context.Context, userID uint64) error {
	return d.deleteUser(ctx, userID)
}

// NoopDeleter leaves sessions alone. Processes validating sessions owned by another
// service use it.
type NoopDeleter struct{}

// DeleteSession does nothing.
func (NoopDeleter) DeleteSession(context.Context, string) error {
	return nil
}

// Backend is everything the authentication middleware needs.
type Backend struct {
	Sessions *SessionValidator
	Users    *UserDirectory
	Deleter  SessionDeleter
}

// FindSession implements the session lookup of the authentication middleware.
func (b *Backend) FindSession(ctx context.Context, userID uint64, sessionID string) (*SessionRecord, error) {
	return b.Sessions.FindSession(ctx, userID, sessionID)
}

// FindUser implements the user lookup of the authentication middleware.
func (b *Backend) FindUser(ctx context.Context, userID uint64) (*User, error) {
	return b.Users.FindUser(ctx, userID)
}

// DeleteSession implements session deletion of the authentication middleware.
func (b *Backend) DeleteSession(ctx context.Context, sessionID string) error {
	if b.Deleter == nil {
		return nil
	}

	return b.Deleter.DeleteSession(ctx, sessionID)
}
