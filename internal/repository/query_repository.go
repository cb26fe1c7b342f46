package repository

import (
	"github.com/rychidesign/geo-analyser/internal/model"
	"gorm.io/gorm"
)

type QueryRepository struct {
	db *gorm.DB
}

func NewQueryRepository(db *gorm.DB) *QueryRepository {
	return &QueryRepository{db}
}

func (r *QueryRepository) CreateQuery(query *model.Query) error {
	return r.db.Create(query).Error
}

func (r *QueryRepository) GetQueriesByProject(projectID string) ([]model.Query, error) {
	var queries []model.Query
	err := r.db.Where("project_id = ?", projectID).Order("created_at ASC").Find(&queries).Error
	return queries, err
}

func (r *QueryRepository) FindActiveByProject(projectID string) ([]model.Query, error) {
	var queries []model.Query
	err := r.db.Where("project_id = ? AND active = ?", projectID, true).
		Order("created_at ASC").Find(&queries).Error
	return queries, err
}
