package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"taskpilot/config"
)

// OpenAI-compatible endpoints for the supported providers.
const (
	anthropicBaseURL = "https://api.anthropic.com/v1"
	geminiBaseURL    = "https://generativelanguage.googleapis.com/v1beta/openai"
)

// ModelFactory creates a fresh chat model. Each pipeline step gets its own
// instance so per-step tool bindings do not leak between steps.
type ModelFactory func(ctx context.Context) (model.ChatModel, error)

// NewModelFactory builds a factory from the configured provider. Anthropic
// and Gemini are reached through their OpenAI-compatible endpoints; any
// other provider uses cfg.APIKey and cfg.BaseURL as-is.
func NewModelFactory(cfg config.Config) ModelFactory {
	return func(ctx context.Context) (model.ChatModel, error) {
		apiKey := cfg.APIKey
		baseURL := cfg.BaseURL

		switch strings.ToLower(cfg.LLMProvider) {
		case "anthropic", "":
			if apiKey == "" {
				apiKey = cfg.AnthropicAPIKey
			}
			if baseURL == "" {
				baseURL = anthropicBaseURL
			}
		case "google", "google_genai", "gemini":
			if apiKey == "" {
				apiKey = cfg.GoogleAPIKey
			}
			if baseURL == "" {
				baseURL = geminiBaseURL
			}
		}

		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  apiKey,
			BaseURL: baseURL,
			Model:   cfg.ModelName,
			Timeout: 0,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		return chatModel, nil
	}
}
