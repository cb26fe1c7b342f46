package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"google.golang.org/genai"
)

// ProviderGateway is the single contract the scan engine and evaluator use to
// talk to an LLM: send one prompt, get the answer text back. No retries here
// beyond what a backend call itself needs; a failed cell is the caller's
// problem to isolate.
type ProviderGateway interface {
	Call(ctx context.Context, provider, apiKey, model, prompt string) (string, error)
}

const (
	openAIEndpoint     = "https://api.openai.com/v1/chat/completions"
	openRouterEndpoint = "https://openrouter.ai/api/v1/chat/completions"
	anthropicEndpoint  = "https://api.anthropic.com/v1/messages"

	anthropicVersion = "2023-06-01"
)

type ProviderService struct {
	http *resty.Client
}

func NewProviderService() *ProviderService {
	return &ProviderService{
		http: resty.New().SetTimeout(90 * time.Second),
	}
}

func (s *ProviderService) Call(ctx context.Context, provider, apiKey, model, prompt string) (string, error) {
	if apiKey == "" {
		return "", fmt.Errorf("%s: missing api key", provider)
	}
	if model == "" {
		return "", fmt.Errorf("%s: missing model", provider)
	}

	switch provider {
	case "gemini":
		return s.callGemini(ctx, apiKey, model, prompt)
	case "anthropic":
		return s.callAnthropic(ctx, apiKey, model, prompt)
	case "openai":
		return s.callChatCompletions(ctx, provider, openAIEndpoint, apiKey, model, prompt)
	case "openrouter":
		return s.callChatCompletions(ctx, provider, openRouterEndpoint, apiKey, model, prompt)
	default:
		return "", fmt.Errorf("unknown provider %q", provider)
	}
}

// callChatCompletions covers every OpenAI-compatible backend.
func (s *ProviderService) callChatCompletions(ctx context.Context, provider, endpoint, apiKey, model, prompt string) (string, error) {
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"model": model,
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
		}).
		Post(endpoint)
	if err != nil {
		return "", fmt.Errorf("%s: request failed: %w", provider, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%s: status %d: %s", provider, resp.StatusCode(), snippet(resp.String()))
	}

	text := gjson.Get(resp.String(), "choices.0.message.content").String()
	if text == "" {
		return "", fmt.Errorf("%s: empty completion in response", provider)
	}
	return text, nil
}

func (s *ProviderService) callAnthropic(ctx context.Context, apiKey, model, prompt string) (string, error) {
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", anthropicVersion).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"model":      model,
			"max_tokens": 1024,
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
		}).
		Post(anthropicEndpoint)
	if err != nil {
		return "", fmt.Errorf("anthropic: request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("anthropic: status %d: %s", resp.StatusCode(), snippet(resp.String()))
	}

	text := gjson.Get(resp.String(), "content.0.text").String()
	if text == "" {
		return "", fmt.Errorf("anthropic: empty completion in response")
	}
	return text, nil
}

func (s *ProviderService) callGemini(ctx context.Context, apiKey, model, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("gemini: client init failed: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.1)),
	})
	if err != nil {
		return "", fmt.Errorf("gemini: generate content failed: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("gemini: no candidates in response")
	}
	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: empty completion in response")
	}
	return text, nil
}

func snippet(body string) string {
	if len(body) > 200 {
		return body[:200] + "..."
	}
	return body
}
