// Package setting provides persistence operations for platform settings.
package setting

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orbitdesk/orbitdesk/internal/db/models"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingNameEmpty is returned when a setting is addressed with an empty name.
	ErrSettingNameEmpty = errors.New("setting name cannot be empty")
)

// Store reads and writes settings.
type Store struct {
	db *gorm.DB
}

// New creates a setting store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get retrieves a setting by its name.
func (s *Store) Get(ctx context.Context, name string) (*models.Setting, error) {
	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	var setting models.Setting

	err := s.db.WithContext(ctx).Where("name = ?", name).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSettingNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load setting %q: %w", name, err)
	}

	return &setting, nil
}

// All returns every setting ordered by name.
func (s *Store) All(ctx context.Context) ([]models.Setting, error) {
	settings := []models.Setting{}

	if err := s.db.WithContext(ctx).Order("name").Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	return settings, nil
}

// Set creates or replaces the value of a setting.
func (s *Store) Set(ctx context.Context, name, value string) (*models.Setting, error) {
	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	setting := models.Setting{Name: name, Value: value}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return nil, fmt.Errorf("failed to store setting %q: %w", name, err)
	}

	return s.Get(ctx, name)
}

// Delete removes a setting by name.
func (s *Store) Delete(ctx context.Context, name string) error {
	if name == "" {
		return ErrSettingNameEmpty
	}

	result := s.db.WithContext(ctx).Where("name = ?", name).Delete(&models.Setting{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete setting %q: %w", name, result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}
