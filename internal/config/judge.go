package config

import (
	"os"
	"sync"
)

// JudgeConfig selects the provider call used to extract metrics from raw
// answers. The judge key is independent from the per-provider scan keys.
type JudgeConfig struct {
	Provider string
	Model    string
	APIKey   string
}

var (
	judgeConfig *JudgeConfig
	judgeOnce   sync.Once
)

func LoadJudgeConfig() *JudgeConfig {
	judgeOnce.Do(func() {
		provider := os.Getenv("JUDGE_PROVIDER")
		if provider == "" {
			provider = "openai"
		}
		model := os.Getenv("JUDGE_MODEL")
		if model == "" {
			model = "gpt-4o-mini"
		}
		judgeConfig = &JudgeConfig{
			Provider: provider,
			Model:    model,
			APIKey:   os.Getenv("JUDGE_API_KEY"),
		}
	})
	return judgeConfig
}
