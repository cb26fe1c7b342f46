package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rychidesign/geo-analyser/internal/model"
)

type fakeGateway struct {
	mu      sync.Mutex
	calls   []string
	replyFn func(provider, prompt string) (string, error)
}

func (g *fakeGateway) Call(ctx context.Context, provider, apiKey, model, prompt string) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, provider)
	g.mu.Unlock()
	if g.replyFn == nil {
		return "", errors.New("no reply configured")
	}
	return g.replyFn(provider, prompt)
}

type fakeProjectStore struct {
	project *model.Project
	err     error
}

func (s *fakeProjectStore) FindProjectByID(id string) (*model.Project, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.project, nil
}

type fakeQueryStore struct {
	queries []model.Query
	err     error
}

func (s *fakeQueryStore) FindActiveByProject(projectID string) ([]model.Query, error) {
	return s.queries, s.err
}

type fakeSettingStore struct {
	settings []model.ProviderSetting
	err      error
}

func (s *fakeSettingStore) GetActiveSettings() ([]model.ProviderSetting, error) {
	return s.settings, s.err
}

type fakeScanStore struct {
	mu              sync.Mutex
	scans           map[string]*model.Scan
	results         []*model.ScanResult
	createScanErr   error
	createResultErr error
	updateResultErr func(result *model.ScanResult) error
}

func newFakeScanStore() *fakeScanStore {
	return &fakeScanStore{scans: map[string]*model.Scan{}}
}

func (s *fakeScanStore) CreateScan(scan *model.Scan) error {
	if s.createScanErr != nil {
		return s.createScanErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *scan
	s.scans[scan.ID.String()] = &copied
	return nil
}

func (s *fakeScanStore) UpdateScan(scan *model.Scan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *scan
	s.scans[scan.ID.String()] = &copied
	return nil
}

func (s *fakeScanStore) FindScanByID(id string) (*model.Scan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scan, ok := s.scans[id]
	if !ok {
		return nil, fmt.Errorf("scan %s not found", id)
	}
	copied := *scan
	return &copied, nil
}

func (s *fakeScanStore) CreateResult(result *model.ScanResult) error {
	if s.createResultErr != nil {
		return s.createResultErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *result
	s.results = append(s.results, &copied)
	return nil
}

func (s *fakeScanStore) UpdateResult(result *model.ScanResult) error {
	if s.updateResultErr != nil {
		if err := s.updateResultErr(result); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.results {
		if existing.ID == result.ID {
			copied := *result
			s.results[i] = &copied
			return nil
		}
	}
	return fmt.Errorf("result %s not found", result.ID)
}

func (s *fakeScanStore) FindUnscoredResults(scanID string) ([]model.ScanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	unscored := []model.ScanResult{}
	for _, result := range s.results {
		if result.ScanID.String() == scanID && result.Metrics == nil {
			unscored = append(unscored, *result)
		}
	}
	return unscored, nil
}

func (s *fakeScanStore) resultsForScan(scanID string) []*model.ScanResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := []*model.ScanResult{}
	for _, result := range s.results {
		if result.ScanID.String() == scanID {
			results = append(results, result)
		}
	}
	return results
}
