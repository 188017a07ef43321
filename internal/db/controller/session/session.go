// Package session provides persistence operations for login sessions.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orbitdesk/orbitdesk/internal/db/models"
)

// Store reads and writes sessions.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// New creates a session store.
func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Find returns the session id of user userID, or nil when it does not exist.
// Expiry is not interpreted here.
func (s *Store) Find(ctx context.Context, userID uint64, sessionID string) (*models.Session, error) {
	var sess models.Session

	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil //nolint:nilnil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	return &sess, nil
}

// Create opens a new session for userID valid for ttl.
func (s *Store) Create(ctx context.Context, userID uint64, ttl time.Duration) (*models.Session, error) {
	sess := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: s.now().Add(ttl).UTC(),
	}

	if err := s.db.WithContext(ctx).Omit("User").Create(sess).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sess, nil
}

// Delete removes one session. Deleting a missing session is not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", sessionID).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// DeleteByUser removes every session of userID.
func (s *Store) DeleteByUser(ctx context.Context, userID uint64) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("failed to delete sessions of user %d: %w", userID, err)
	}

	return nil
}

// PurgeExpired removes sessions that expired before now and returns how many were removed.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at < ?", s.now().UTC()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", result.Error)
	}

	return result.RowsAffected, nil
}
