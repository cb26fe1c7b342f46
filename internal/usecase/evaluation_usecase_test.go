package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rychidesign/geo-analyser/internal/config"
	"github.com/rychidesign/geo-analyser/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProject() *model.Project {
	return &model.Project{
		ID:            uuid.New(),
		Name:          "Acme Tracking",
		BrandName:     "Acme",
		BrandVariants: "Acme Corp, acme.io",
		Domain:        "acme.io",
	}
}

func testJudgeConfig() *config.JudgeConfig {
	return &config.JudgeConfig{Provider: "openai", Model: "gpt-4o-mini", APIKey: "judge-key"}
}

func seedScanWithResults(t *testing.T, store *fakeScanStore, project *model.Project, responses ...string) *model.Scan {
	t.Helper()
	scan := &model.Scan{
		ID:        uuid.New(),
		ProjectID: project.ID,
		Status:    model.ScanStatusRunning,
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.CreateScan(scan))
	for _, text := range responses {
		require.NoError(t, store.CreateResult(&model.ScanResult{
			ID:           uuid.New(),
			ScanID:       scan.ID,
			Provider:     "openai",
			QueryText:    "best tracking tools",
			ResponseText: text,
		}))
	}
	return scan
}

func TestEvaluateClampsJudgeValues(t *testing.T) {
	project := testProject()
	store := newFakeScanStore()
	scan := seedScanWithResults(t, store, project, "Acme is great")

	judge := &fakeGateway{replyFn: func(provider, prompt string) (string, error) {
		return `{"is_visible": true, "sentiment_score": 1.7, "citation_found": false, "ranking_position": null, "recommendation_strength": 120}`, nil
	}}
	uc := NewEvaluationUsecase(store, &fakeProjectStore{project: project}, judge, testJudgeConfig())

	_, err := uc.Evaluate(context.Background(), scan.ID.String())
	require.NoError(t, err)

	results := store.resultsForScan(scan.ID.String())
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Metrics)
	assert.True(t, results[0].Metrics.IsVisible)
	assert.Equal(t, 1.0, results[0].Metrics.SentimentScore)
	assert.Equal(t, 100.0, results[0].Metrics.RecommendationStrength)
	assert.Nil(t, results[0].Metrics.RankingPosition)
}

func TestEvaluateFallsBackToHeuristic(t *testing.T) {
	project := testProject()
	store := newFakeScanStore()
	responseText := "You should try Acme, see acme.io for details."
	scan := seedScanWithResults(t, store, project, responseText)

	judge := &fakeGateway{replyFn: func(provider, prompt string) (string, error) {
		return "Sorry, I cannot produce structured output today.", nil
	}}
	uc := NewEvaluationUsecase(store, &fakeProjectStore{project: project}, judge, testJudgeConfig())

	_, err := uc.Evaluate(context.Background(), scan.ID.String())
	require.NoError(t, err)

	results := store.resultsForScan(scan.ID.String())
	require.Len(t, results, 1)
	assert.Equal(t, HeuristicMetrics(project, responseText), results[0].Metrics)
}

func TestEvaluateHeuristicOnJudgeError(t *testing.T) {
	project := testProject()
	store := newFakeScanStore()
	scan := seedScanWithResults(t, store, project, "No brands mentioned here.")

	judge := &fakeGateway{replyFn: func(provider, prompt string) (string, error) {
		return "", errors.New("judge unavailable")
	}}
	uc := NewEvaluationUsecase(store, &fakeProjectStore{project: project}, judge, testJudgeConfig())

	overall, err := uc.Evaluate(context.Background(), scan.ID.String())
	require.NoError(t, err)

	results := store.resultsForScan(scan.ID.String())
	require.Len(t, results, 1)
	assert.False(t, results[0].Metrics.IsVisible)
	assert.Equal(t, 0.0, results[0].Metrics.RecommendationStrength)
	// invisible, neutral sentiment, no citation: 10 points from sentiment alone
	assert.Equal(t, 10, overall)
}

func TestEvaluateNoJudgeCredential(t *testing.T) {
	project := testProject()
	store := newFakeScanStore()
	scan := seedScanWithResults(t, store, project, "Acme is great")

	cfg := &config.JudgeConfig{Provider: "openai", Model: "gpt-4o-mini"}
	uc := NewEvaluationUsecase(store, &fakeProjectStore{project: project}, &fakeGateway{}, cfg)

	_, err := uc.Evaluate(context.Background(), scan.ID.String())
	require.ErrorIs(t, err, ErrNoJudgeCredential)
}

func TestEvaluateAggregatesMean(t *testing.T) {
	project := testProject()
	store := newFakeScanStore()
	scan := seedScanWithResults(t, store, project, "first", "second")

	replies := []string{
		`{"is_visible": true, "sentiment_score": 1, "citation_found": true, "ranking_position": 1, "recommendation_strength": 100}`,  // 100
		`{"is_visible": false, "sentiment_score": -1, "citation_found": false, "ranking_position": null, "recommendation_strength": 0}`, // 0
	}
	i := 0
	judge := &fakeGateway{replyFn: func(provider, prompt string) (string, error) {
		reply := replies[i%len(replies)]
		i++
		return reply, nil
	}}
	uc := NewEvaluationUsecase(store, &fakeProjectStore{project: project}, judge, testJudgeConfig())

	overall, err := uc.Evaluate(context.Background(), scan.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 50, overall)
}

func TestEvaluatePersistFailureSkipsResult(t *testing.T) {
	project := testProject()
	store := newFakeScanStore()
	scan := seedScanWithResults(t, store, project, "first", "second")

	failID := store.resultsForScan(scan.ID.String())[0].ID
	store.updateResultErr = func(result *model.ScanResult) error {
		if result.ID == failID {
			return errors.New("db write failed")
		}
		return nil
	}

	judge := &fakeGateway{replyFn: func(provider, prompt string) (string, error) {
		return `{"is_visible": true, "sentiment_score": 0, "citation_found": false, "ranking_position": null, "recommendation_strength": 0}`, nil
	}}
	uc := NewEvaluationUsecase(store, &fakeProjectStore{project: project}, judge, testJudgeConfig())

	overall, err := uc.Evaluate(context.Background(), scan.ID.String())
	require.NoError(t, err)
	// only the surviving result counts: 40 visible + 10 neutral sentiment
	assert.Equal(t, 50, overall)
}

func TestEvaluateZeroResults(t *testing.T) {
	project := testProject()
	store := newFakeScanStore()
	scan := seedScanWithResults(t, store, project)

	uc := NewEvaluationUsecase(store, &fakeProjectStore{project: project}, &fakeGateway{}, testJudgeConfig())

	overall, err := uc.Evaluate(context.Background(), scan.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, overall)
}

func TestResultScore(t *testing.T) {
	rank := func(n int) *int { return &n }
	tests := []struct {
		name    string
		metrics model.Metrics
		want    float64
	}{
		{
			name:    "all zero except neutral sentiment",
			metrics: model.Metrics{},
			want:    10,
		},
		{
			name: "maximum everything",
			metrics: model.Metrics{
				IsVisible:              true,
				SentimentScore:         1,
				CitationFound:          true,
				RankingPosition:        rank(1),
				RecommendationStrength: 100,
			},
			want: 100,
		},
		{
			name: "ranking contribution capped at 10",
			metrics: model.Metrics{
				RankingPosition: rank(0),
			},
			want: 20, // 10 sentiment + 10 capped ranking
		},
		{
			name: "ranking below window contributes nothing",
			metrics: model.Metrics{
				RankingPosition: rank(15),
			},
			want: 10,
		},
		{
			name: "visible with citation",
			metrics: model.Metrics{
				IsVisible:              true,
				CitationFound:          true,
				RecommendationStrength: 50,
			},
			want: 75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResultScore(&tt.metrics)
			assert.Equal(t, tt.want, got)
			// scoring is a pure function
			assert.Equal(t, got, ResultScore(&tt.metrics))
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}
