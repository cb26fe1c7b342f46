package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	QueryTypeInformational = "informational"
	QueryTypeTransactional = "transactional"
	QueryTypeComparison    = "comparison"
)

type Query struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;index" json:"project_id"`
	Text      string    `gorm:"type:text" json:"text"`
	Type      string    `gorm:"type:varchar(50);default:informational" json:"type"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Query) TableName() string {
	return "queries"
}
