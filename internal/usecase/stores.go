package usecase

import "github.com/rychidesign/geo-analyser/internal/model"

// Store interfaces cover exactly the persistence calls the core makes; the
// gorm repositories satisfy them and tests swap in fakes.

type ProjectStore interface {
	FindProjectByID(id string) (*model.Project, error)
}

type QueryStore interface {
	FindActiveByProject(projectID string) ([]model.Query, error)
}

type ProviderSettingStore interface {
	GetActiveSettings() ([]model.ProviderSetting, error)
}

type ScanStore interface {
	CreateScan(scan *model.Scan) error
	UpdateScan(scan *model.Scan) error
	FindScanByID(id string) (*model.Scan, error)
	CreateResult(result *model.ScanResult) error
	UpdateResult(result *model.ScanResult) error
	FindUnscoredResults(scanID string) ([]model.ScanResult, error)
}
