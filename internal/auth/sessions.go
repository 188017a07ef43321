package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/orbitdesk/orbitdesk/internal/cache"
	"github.com/orbitdesk/orbitdesk/internal/db/models"
)

// SessionTagAll tags every cached session.
const SessionTagAll = "sessions"

// SessionFinder looks up the session of a user. It returns nil and no error when absent.
type SessionFinder interface {
	Find(ctx context.Context, userID uint64, sessionID string) (*models.Session, error)
}

// SessionRecord is what a session lookup yields. Expiry is left to the caller.
type SessionRecord struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is expired at now.
func (s *SessionRecord) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type sessionRef struct {
	userID    uint64
	sessionID string
}

// UserSessionsTag tags every cached session of userID.
func UserSessionsTag(userID uint64) string {
	return "sessions:user:" + strconv.FormatUint(userID, 10)
}

// SessionTag tags the cache entry of one session.
func SessionTag(sessionID string) string {
	return "session:" + sessionID
}

// SessionValidator resolves session ids to their record.
type SessionValidator struct {
	cache *cache.Cache
	find  cache.Loader[sessionRef, *SessionRecord]
}

// NewSessionValidator creates a validator reading from store and caching records for ttl.
func NewSessionValidator(store SessionFinder, c *cache.Cache, ttl time.Duration) *SessionValidator {
	load := func(ctx context.Context, ref sessionRef) (*SessionRecord, bool, error) {
		sess, err := store.Find(ctx, ref.userID, ref.sessionID)
		if err != nil || sess == nil {
			return nil, false, err
		}

		return &SessionRecord{ID: sess.ID, ExpiresAt: sess.ExpiresAt}, true, nil
	}

	return &SessionValidator{
		cache: c,
		find: cache.Cacheable(c, cache.Options[sessionRef]{
			Key: func(ref sessionRef) string {
				return "session:" + strconv.FormatUint(ref.userID, 10) + ":" + ref.sessionID
			},
			Tags: func(ref sessionRef) []string {
				return []string{SessionTagAll, UserSessionsTag(ref.userID), SessionTag(ref.sessionID)}
			},
			TTL: ttl,
		}, load),
	}
}

// FindSession returns session sessionID of userID, or nil when it does not exist.
func (v *SessionValidator) FindSession(ctx context.Context, userID uint64, sessionID string) (*SessionRecord, error) {
	rec, _, err := v.find(ctx, sessionRef{userID: userID, sessionID: sessionID})
	return rec, err
}

// Forget drops the cached record of one session.
func (v *SessionValidator) Forget(ctx context.Context, sessionID string) {
	v.cache.InvalidateByTag(ctx, SessionTag(sessionID))
}

// ForgetUser drops the cached records of every session of userID.
func (v *SessionValidator) ForgetUser(ctx context.Context, userID uint64) {
	v.cache.InvalidateByTag(ctx, UserSessionsTag(userID))
}

// ForgetAll drops every cached session record.
func (v *SessionValidator) ForgetAll(ctx context.Context) {
	v.cache.InvalidateByTag(ctx, SessionTagAll)
}
