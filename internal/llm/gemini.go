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

// geminiAPIBase is the Gemini generateContent endpoint root. Declared as a
// var so tests can substitute an httptest server.
var geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

// geminiModelAliases maps marketing names onto the model identifiers the
// Gemini API serves.
var geminiModelAliases = map[string]string{
	"gemini-flash-latest":        "gemini-2.0-flash-exp",
	"gemini-2.5-flash":           "gemini-2.0-flash-exp",
	"gemini-2.5-pro":             "gemini-2.0-pro-exp",
	"models/gemini-flash-latest": "gemini-2.0-flash-exp",
}

// geminiModel resolves a requested Gemini model name to a served identifier.
func geminiModel(model string) string {
	if actual, ok := geminiModelAliases[model]; ok {
		return actual
	}
	return strings.TrimPrefix(model, "models/")
}

// GeminiClient calls the Gemini generateContent API.
type GeminiClient struct {
	APIKey     string
	ModelID    string
	Client     *http.Client
	MaxRetries int
	Logger     *zap.Logger
}

// geminiRequest is the request body for generateContent.
type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// geminiResponse is the response body from generateContent.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Model returns the model identifier the client was built for.
func (c *GeminiClient) Model() string { return c.ModelID }

// Complete sends the prompt as a single content part and concatenates the
// first candidate's text parts.
func (c *GeminiClient) Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", geminiAPIBase, c.ModelID, c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, c.MaxRetries)
	if err != nil {
		c.Logger.Error("gemini request failed", zap.String("model", c.ModelID), zap.Error(err))
		return "", fmt.Errorf("Gemini API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.Logger.Error("gemini API error",
			zap.String("model", c.ModelID),
			zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, string(body))
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("decoding Gemini response: %w", err)
	}

	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("Gemini returned no candidates")
	}

	var b strings.Builder
	for _, part := range gr.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}
