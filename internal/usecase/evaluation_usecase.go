package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/rychidesign/geo-analyser/internal/config"
	"github.com/rychidesign/geo-analyser/internal/model"
	"github.com/rychidesign/geo-analyser/internal/service"
	"github.com/rychidesign/geo-analyser/internal/util"
	"github.com/tidwall/gjson"
)

var ErrNoJudgeCredential = errors.New("no judge credential configured")

// EvaluationUsecase turns raw provider answers into structured metrics via a
// judge call and computes the run's aggregate score.
type EvaluationUsecase struct {
	scans    ScanStore
	projects ProjectStore
	judge    service.ProviderGateway
	judgeCfg *config.JudgeConfig
}

func NewEvaluationUsecase(scans ScanStore, projects ProjectStore, judge service.ProviderGateway, judgeCfg *config.JudgeConfig) *EvaluationUsecase {
	return &EvaluationUsecase{scans: scans, projects: projects, judge: judge, judgeCfg: judgeCfg}
}

// Evaluate scores every unscored result of the scan and returns the aggregate
// score: the rounded mean over all results that were scored and persisted, or
// 0 if none were.
func (uc *EvaluationUsecase) Evaluate(ctx context.Context, scanID string) (int, error) {
	scan, err := uc.scans.FindScanByID(scanID)
	if err != nil {
		return 0, fmt.Errorf("load scan %s: %w", scanID, err)
	}
	project, err := uc.projects.FindProjectByID(scan.ProjectID.String())
	if err != nil {
		return 0, fmt.Errorf("load project %s: %w", scan.ProjectID, err)
	}
	if uc.judgeCfg.APIKey == "" {
		return 0, ErrNoJudgeCredential
	}

	results, err := uc.scans.FindUnscoredResults(scanID)
	if err != nil {
		return 0, fmt.Errorf("load unscored results: %w", err)
	}

	var scores []float64
	for i := range results {
		result := &results[i]
		metrics := uc.judgeResult(ctx, project, result)
		result.Metrics = metrics
		if err := uc.scans.UpdateResult(result); err != nil {
			log.Printf("Failed to persist metrics for result %s: %v", result.ID, err)
			continue
		}
		scores = append(scores, ResultScore(metrics))
	}

	if len(scores) == 0 {
		return 0, nil
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return int(math.Round(sum / float64(len(scores)))), nil
}

// judgeResult never fails: any judge or parse error degrades to the heuristic.
func (uc *EvaluationUsecase) judgeResult(ctx context.Context, project *model.Project, result *model.ScanResult) *model.Metrics {
	prompt := judgePrompt(project, result.ResponseText)

	reply, err := uc.judge.Call(ctx, uc.judgeCfg.Provider, uc.judgeCfg.APIKey, uc.judgeCfg.Model, prompt)
	if err != nil {
		log.Printf("Judge call failed for result %s, using heuristic: %v", result.ID, err)
		return HeuristicMetrics(project, result.ResponseText)
	}

	raw, ok := util.ExtractJSONObject(reply)
	if !ok || !gjson.Valid(raw) {
		log.Printf("No parseable JSON in judge reply for result %s, using heuristic", result.ID)
		return HeuristicMetrics(project, result.ResponseText)
	}

	parsed := gjson.Parse(raw)
	metrics := &model.Metrics{
		IsVisible:              parsed.Get("is_visible").Bool(),
		SentimentScore:         clamp(parsed.Get("sentiment_score").Float(), -1, 1),
		CitationFound:          parsed.Get("citation_found").Bool(),
		RecommendationStrength: clamp(parsed.Get("recommendation_strength").Float(), 0, 100),
	}
	if rank := parsed.Get("ranking_position"); rank.Type == gjson.Number {
		position := int(rank.Int())
		metrics.RankingPosition = &position
	}
	return metrics
}

// HeuristicMetrics is the deterministic fallback when the judge is unusable:
// substring matching for visibility and citation, neutral sentiment, no rank.
func HeuristicMetrics(project *model.Project, responseText string) *model.Metrics {
	lower := strings.ToLower(responseText)

	visible := false
	for _, variant := range project.Variants() {
		if strings.Contains(lower, strings.ToLower(variant)) {
			visible = true
			break
		}
	}
	citation := project.Domain != "" && strings.Contains(lower, strings.ToLower(project.Domain))

	strength := 0.0
	if visible {
		strength = 50
	}
	return &model.Metrics{
		IsVisible:              visible,
		SentimentScore:         0,
		CitationFound:          citation,
		RankingPosition:        nil,
		RecommendationStrength: strength,
	}
}

// ResultScore maps metrics onto 0-100 with fixed weights: visibility 40,
// sentiment 20, citation 20, ranking up to 10, recommendation strength 10.
func ResultScore(m *model.Metrics) float64 {
	score := 0.0
	if m.IsVisible {
		score += 40
	}
	score += 10 * (m.SentimentScore + 1)
	if m.CitationFound {
		score += 20
	}
	if m.RankingPosition != nil {
		contribution := 11 - float64(*m.RankingPosition)
		if contribution < 0 {
			contribution = 0
		}
		if contribution > 10 {
			contribution = 10
		}
		score += contribution
	}
	score += 0.1 * m.RecommendationStrength
	return clamp(score, 0, 100)
}

func judgePrompt(project *model.Project, responseText string) string {
	return fmt.Sprintf(`You are a brand visibility analyst. Analyze the following AI assistant answer for mentions of the brand "%s" (also accept these variants: %s) and its website domain "%s".

Return your answer STRICTLY as a single JSON object with this schema:
{
	"is_visible": <true if the brand or any variant is mentioned>,
	"sentiment_score": <float -1.0 to 1.0, sentiment of the mention; 0.0 if not mentioned>,
	"citation_found": <true if the domain is cited or linked>,
	"ranking_position": <integer 1-10 if the brand appears in a ranked list, otherwise null>,
	"recommendation_strength": <float 0-100, how strongly the answer recommends the brand>
}

Answer to analyze:
%s`, project.BrandName, strings.Join(project.Variants(), ", "), project.Domain, responseText)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
