package repository

import (
	"github.com/rychidesign/geo-analyser/internal/model"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db}
}

func (r *ProjectRepository) CreateProject(project *model.Project) error {
	return r.db.Create(project).Error
}

func (r *ProjectRepository) FindProjectByID(id string) (*model.Project, error) {
	var project model.Project
	err := r.db.First(&project, "id = ?", id).Error
	return &project, err
}

func (r *ProjectRepository) GetProjects() ([]model.Project, error) {
	var projects []model.Project
	err := r.db.Order("created_at DESC").Find(&projects).Error
	return projects, err
}
