package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rychidesign/geo-analyser/internal/model"
	"github.com/rychidesign/geo-analyser/internal/service"
)

var (
	ErrNoActiveQueries   = errors.New("project has no active queries")
	ErrNoActiveProviders = errors.New("no active provider settings")
	ErrScanCancelled     = errors.New("scan cancelled")
)

type Progress struct {
	Total     int
	Completed int
	Current   string
}

type ProgressFunc func(Progress)

// ScanUsecase executes one scan run: the full query×provider matrix with
// per-cell fault isolation, followed by evaluation.
type ScanUsecase struct {
	scans     ScanStore
	queries   QueryStore
	settings  ProviderSettingStore
	provider  service.ProviderGateway
	evaluator *EvaluationUsecase
}

func NewScanUsecase(scans ScanStore, queries QueryStore, settings ProviderSettingStore, provider service.ProviderGateway, evaluator *EvaluationUsecase) *ScanUsecase {
	return &ScanUsecase{
		scans:     scans,
		queries:   queries,
		settings:  settings,
		provider:  provider,
		evaluator: evaluator,
	}
}

// Run drives a single scan to completion or failure and returns the scan id.
// Single-cell provider errors are logged and skipped; only configuration,
// scan-level persistence, or evaluation errors fail the run. A cancelled run
// returns ErrScanCancelled and leaves the scan row untouched.
func (uc *ScanUsecase) Run(ctx context.Context, projectID string, report ProgressFunc, token *RunToken) (string, error) {
	pid, err := uuid.Parse(projectID)
	if err != nil {
		return "", fmt.Errorf("invalid project id %q: %w", projectID, err)
	}
	if report == nil {
		report = func(Progress) {}
	}
	if token == nil {
		token = NewRunToken()
	}

	scan := &model.Scan{
		ID:        uuid.New(),
		ProjectID: pid,
		Status:    model.ScanStatusRunning,
		CreatedAt: time.Now(),
	}
	if err := uc.scans.CreateScan(scan); err != nil {
		return "", fmt.Errorf("create scan: %w", err)
	}
	scanID := scan.ID.String()

	queries, err := uc.queries.FindActiveByProject(projectID)
	if err != nil {
		return scanID, uc.fail(scan, fmt.Errorf("load active queries: %w", err))
	}
	if len(queries) == 0 {
		return scanID, uc.fail(scan, ErrNoActiveQueries)
	}
	providers, err := uc.settings.GetActiveSettings()
	if err != nil {
		return scanID, uc.fail(scan, fmt.Errorf("load provider settings: %w", err))
	}
	if len(providers) == 0 {
		return scanID, uc.fail(scan, ErrNoActiveProviders)
	}

	total := len(queries) * len(providers)
	completed := 0

	for _, query := range queries {
		for _, setting := range providers {
			if !token.Checkpoint() {
				return scanID, ErrScanCancelled
			}
			report(Progress{Total: total, Completed: completed, Current: cellLabel(setting.Provider, query.Text)})

			if strings.TrimSpace(setting.APIKey) == "" {
				log.Printf("Skipping %s for scan %s: no credential configured", setting.Provider, scanID)
				continue
			}

			text, err := uc.provider.Call(ctx, setting.Provider, setting.APIKey, setting.Model, query.Text)
			if err != nil {
				log.Printf("Provider %s failed for scan %s: %v", setting.Provider, scanID, err)
				continue
			}

			result := &model.ScanResult{
				ID:           uuid.New(),
				ScanID:       scan.ID,
				Provider:     setting.Provider,
				QueryText:    query.Text,
				ResponseText: text,
			}
			if err := uc.scans.CreateResult(result); err != nil {
				log.Printf("Failed to persist result for scan %s: %v", scanID, err)
				continue
			}
			completed++
		}
	}

	if !token.Checkpoint() {
		return scanID, ErrScanCancelled
	}
	report(Progress{Total: total, Completed: completed, Current: "Evaluating responses..."})

	overall, err := uc.evaluator.Evaluate(ctx, scanID)
	if err != nil {
		return scanID, uc.fail(scan, fmt.Errorf("evaluate scan: %w", err))
	}

	now := time.Now()
	scan.Status = model.ScanStatusCompleted
	scan.OverallScore = &overall
	scan.CompletedAt = &now
	if err := uc.scans.UpdateScan(scan); err != nil {
		return scanID, fmt.Errorf("finalize scan: %w", err)
	}

	report(Progress{Total: total, Completed: total, Current: "Completed"})
	return scanID, nil
}

func (uc *ScanUsecase) fail(scan *model.Scan, cause error) error {
	scan.Status = model.ScanStatusFailed
	if err := uc.scans.UpdateScan(scan); err != nil {
		log.Printf("Failed to mark scan %s as failed: %v", scan.ID, err)
	}
	return cause
}

func cellLabel(provider, queryText string) string {
	if runes := []rune(queryText); len(runes) > 50 {
		queryText = string(runes[:50])
	}
	return fmt.Sprintf("%s: %s...", provider, queryText)
}
