// Package settings provides database operations for local settings slots.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	slot := repo.Slot(entities.SettingKeyReadingList)
//	data, err := slot.Read(ctx)
package settings

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Repository handles all settings database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetSetting retrieves a setting by key.
func (r *Repository) GetSetting(ctx context.Context, key string) (*entities.Setting, error) {
	var setting entities.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// SetSetting creates or replaces a setting in a single statement.
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	setting := entities.Setting{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

// DeleteSetting removes a setting by key.
func (r *Repository) DeleteSetting(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&entities.Setting{}).Error
}

// Slot exposes one setting row as a storage.Slot.
func (r *Repository) Slot(key string) *Slot {
	return &Slot{repo: r, key: key}
}

// Slot is a storage.Slot stored in the settings table.
type Slot struct {
	repo *Repository
	key  string
}

func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	setting, err := s.repo.GetSetting(ctx, s.key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(setting.Value), nil
}

func (s *Slot) Write(ctx context.Context, data []byte) error {
	return s.repo.SetSetting(ctx, s.key, string(data))
}
