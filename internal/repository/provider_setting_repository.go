package repository

import (
	"errors"

	"github.com/rychidesign/geo-analyser/internal/model"
	"gorm.io/gorm"
)

type ProviderSettingRepository struct {
	db *gorm.DB
}

func NewProviderSettingRepository(db *gorm.DB) *ProviderSettingRepository {
	return &ProviderSettingRepository{db}
}

func (r *ProviderSettingRepository) GetSettings() ([]model.ProviderSetting, error) {
	var settings []model.ProviderSetting
	err := r.db.Order("provider ASC").Find(&settings).Error
	return settings, err
}

func (r *ProviderSettingRepository) GetActiveSettings() ([]model.ProviderSetting, error) {
	var settings []model.ProviderSetting
	err := r.db.Where("active = ?", true).Order("provider ASC").Find(&settings).Error
	return settings, err
}

// UpsertSetting keeps one row per provider id.
func (r *ProviderSettingRepository) UpsertSetting(setting *model.ProviderSetting) error {
	var existing model.ProviderSetting
	err := r.db.First(&existing, "provider = ?", setting.Provider).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(setting).Error
	}
	if err != nil {
		return err
	}
	existing.Model = setting.Model
	existing.Active = setting.Active
	if setting.APIKey != "" {
		existing.APIKey = setting.APIKey
	}
	if err := r.db.Save(&existing).Error; err != nil {
		return err
	}
	*setting = existing
	return nil
}
