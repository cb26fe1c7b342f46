package model

import (
	"time"

	"github.com/google/uuid"
)

type ProviderSetting struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Provider  string    `gorm:"type:varchar(50);uniqueIndex" json:"provider"`
	Model     string    `gorm:"type:varchar(100)" json:"model"`
	APIKey    string    `gorm:"type:text" json:"-"`
	Active    bool      `gorm:"default:false" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *ProviderSetting) TableName() string {
	return "provider_settings"
}
