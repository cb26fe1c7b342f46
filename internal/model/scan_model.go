package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ScanStatusRunning   = "running"
	ScanStatusCompleted = "completed"
	ScanStatusFailed    = "failed"
)

type Scan struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID    uuid.UUID  `gorm:"type:uuid;index" json:"project_id"`
	Status       string     `gorm:"type:varchar(50);default:running" json:"status"`
	OverallScore *int       `json:"overall_score"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}

func (s *Scan) TableName() string {
	return "scans"
}

// Metrics is what the judge extracts from one raw provider answer. Field names
// mirror the JSON keys the judge prompt demands.
type Metrics struct {
	IsVisible              bool    `json:"is_visible"`
	SentimentScore         float64 `json:"sentiment_score"`
	CitationFound          bool    `json:"citation_found"`
	RankingPosition        *int    `json:"ranking_position"`
	RecommendationStrength float64 `json:"recommendation_strength"`
}

type ScanResult struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ScanID       uuid.UUID `gorm:"type:uuid;index" json:"scan_id"`
	Provider     string    `gorm:"type:varchar(50)" json:"provider"`
	QueryText    string    `gorm:"type:text" json:"query_text"`
	ResponseText string    `gorm:"type:text" json:"response_text"`
	Metrics      *Metrics  `gorm:"type:jsonb;serializer:json" json:"metrics"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (r *ScanResult) TableName() string {
	return "scan_results"
}
