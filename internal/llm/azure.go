// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/meshintel/deepresearch/internal/httputil"
)

// azureAPIVersion is the Azure OpenAI API version sent with every request.
const azureAPIVersion = "2024-06-01"

// AzureClient calls an Azure OpenAI deployment. The deployment name doubles
// as the model identifier.
type AzureClient struct {
	Endpoint   string
	APIKey     string
	Deployment string
	Client     *http.Client
	MaxRetries int
	Logger     *zap.Logger
}

// Model returns the deployment identifier the client was built for.
func (c *AzureClient) Model() string { return c.Deployment }

// Complete sends the prompt to the deployment's chat completions endpoint
// and returns the first choice's text.
func (c *AzureClient) Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	reqBody := chatRequest{
		Model:       c.Deployment,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimSuffix(c.Endpoint, "/"), c.Deployment, azureAPIVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.APIKey)

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, c.MaxRetries)
	if err != nil {
		c.Logger.Error("azure completion request failed", zap.String("deployment", c.Deployment), zap.Error(err))
		return "", fmt.Errorf("Azure OpenAI request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.Logger.Error("azure completion API error",
			zap.String("deployment", c.Deployment),
			zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("Azure OpenAI returned %d: %s", resp.StatusCode, string(body))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("decoding Azure OpenAI response: %w", err)
	}

	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("Azure OpenAI returned no choices")
	}
	return cr.Choices[0].Message.Content, nil
}
