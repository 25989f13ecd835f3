// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm routes prompts to one of a closed set of text-generation
// backends. The backend is selected once, when the client is constructed,
// from the configured model identifier; every backend is normalized to
// "plain text out". See docs/ARCHITECTURE.md § Model Dispatch.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/meshintel/deepresearch/internal/httputil"
	"github.com/meshintel/deepresearch/pkg/types"
)

// Client completes a prompt with the configured model. Implementations are
// safe for concurrent use by multiple in-flight research runs.
type Client interface {
	// Complete sends the prompt and returns the model's text response.
	Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)

	// Model returns the model identifier the client was built for.
	Model() string
}

// azurePrefixes identifies models served through an Azure OpenAI
// deployment when Azure credentials are present.
var azurePrefixes = []string{"gpt-5", "o3", "gpt-4o", "o1"}

// openaiModelAliases maps requested model names onto identifiers the
// OpenAI API actually serves.
var openaiModelAliases = map[string]string{
	"gpt-5": "gpt-4o",
	"o3":    "o3-mini",
}

// New selects and constructs the backend for cfg.Model. It returns an
// error only when no backend is configured for the requested identifier,
// the single unrecoverable dispatch condition.
func New(cfg types.LLMConfig, logger *zap.Logger) (Client, error) {
	model := strings.ToLower(cfg.Model)
	client := httputil.NewClient(httpTimeout(cfg), cfg.UserAgent)

	switch {
	case isAzureModel(cfg.Model) && cfg.AzureAPIKey != "" && cfg.AzureEndpoint != "":
		logger.Info("model dispatch: azure openai", zap.String("model", cfg.Model))
		return &AzureClient{
			Endpoint:   cfg.AzureEndpoint,
			APIKey:     cfg.AzureAPIKey,
			Deployment: cfg.Model,
			Client:     client,
			MaxRetries: cfg.MaxRetries,
			Logger:     logger,
		}, nil

	case (strings.Contains(model, "gpt") || strings.Contains(model, "o3")) && cfg.OpenAIAPIKey != "":
		actual := cfg.Model
		if alias, ok := openaiModelAliases[model]; ok {
			actual = alias
		}
		logger.Info("model dispatch: openai", zap.String("model", actual))
		return &OpenAIClient{
			BaseURL:    "https://api.openai.com/v1",
			APIKey:     cfg.OpenAIAPIKey,
			ModelID:    actual,
			Client:     client,
			MaxRetries: cfg.MaxRetries,
			Logger:     logger,
		}, nil

	case strings.Contains(model, "typhoon") && cfg.TyphoonAPIKey != "":
		actual := typhoonModel(model)
		logger.Info("model dispatch: typhoon", zap.String("model", actual))
		return &OpenAIClient{
			BaseURL:    "https://api.opentyphoon.ai/v1",
			APIKey:     cfg.TyphoonAPIKey,
			ModelID:    actual,
			Client:     client,
			MaxRetries: cfg.MaxRetries,
			Logger:     logger,
		}, nil

	case strings.Contains(model, "gemini") && cfg.GeminiAPIKey != "":
		actual := geminiModel(cfg.Model)
		logger.Info("model dispatch: gemini", zap.String("model", actual))
		return &GeminiClient{
			APIKey:     cfg.GeminiAPIKey,
			ModelID:    actual,
			Client:     client,
			MaxRetries: cfg.MaxRetries,
			Logger:     logger,
		}, nil
	}

	return nil, fmt.Errorf("no model backend configured for %q", cfg.Model)
}

// isAzureModel reports whether the identifier names a model served through
// Azure OpenAI deployments.
func isAzureModel(model string) bool {
	lower := strings.ToLower(model)
	for _, prefix := range azurePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// typhoonModel normalizes Typhoon model identifiers to the names the
// Typhoon API serves.
func typhoonModel(model string) string {
	switch {
	case strings.Contains(model, "2.1"), strings.Contains(model, "12b"):
		return "typhoon-v2.1-12b-instruct"
	default:
		return "typhoon-v2.5-30b-a3b-instruct"
	}
}

func httpTimeout(cfg types.LLMConfig) time.Duration {
	if cfg.Timeout > 0 {
		return cfg.Timeout
	}
	return 120 * time.Second
}
