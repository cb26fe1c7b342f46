package repository

import (
	"github.com/rychidesign/geo-analyser/internal/model"
	"gorm.io/gorm"
)

type ScanRepository struct {
	db *gorm.DB
}

func NewScanRepository(db *gorm.DB) *ScanRepository {
	return &ScanRepository{db}
}

func (r *ScanRepository) CreateScan(scan *model.Scan) error {
	return r.db.Create(scan).Error
}

func (r *ScanRepository) UpdateScan(scan *model.Scan) error {
	return r.db.Save(scan).Error
}

func (r *ScanRepository) FindScanByID(id string) (*model.Scan, error) {
	var scan model.Scan
	err := r.db.First(&scan, "id = ?", id).Error
	return &scan, err
}

func (r *ScanRepository) GetScansByProject(projectID string) ([]model.Scan, error) {
	var scans []model.Scan
	err := r.db.Where("project_id = ?", projectID).Order("created_at DESC").Find(&scans).Error
	return scans, err
}

func (r *ScanRepository) CreateResult(result *model.ScanResult) error {
	return r.db.Create(result).Error
}

func (r *ScanRepository) UpdateResult(result *model.ScanResult) error {
	return r.db.Save(result).Error
}

func (r *ScanRepository) FindResultsByScan(scanID string) ([]model.ScanResult, error) {
	var results []model.ScanResult
	err := r.db.Where("scan_id = ?", scanID).Order("created_at ASC").Find(&results).Error
	return results, err
}

func (r *ScanRepository) FindUnscoredResults(scanID string) ([]model.ScanResult, error) {
	var results []model.ScanResult
	err := r.db.Where("scan_id = ? AND metrics IS NULL", scanID).
		Order("created_at ASC").Find(&results).Error
	return results, err
}
