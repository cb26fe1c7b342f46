package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(255)" json:"name"`
	BrandName     string    `gorm:"type:varchar(255)" json:"brand_name"`
	BrandVariants string    `gorm:"type:text" json:"brand_variants"` // comma-separated alternative spellings
	Domain        string    `gorm:"type:varchar(255)" json:"domain"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *Project) TableName() string {
	return "projects"
}

// Variants returns the brand name plus every non-empty variant, trimmed.
func (p *Project) Variants() []string {
	variants := []string{}
	if strings.TrimSpace(p.BrandName) != "" {
		variants = append(variants, strings.TrimSpace(p.BrandName))
	}
	for _, v := range strings.Split(p.BrandVariants, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			variants = append(variants, trimmed)
		}
	}
	return variants
}
