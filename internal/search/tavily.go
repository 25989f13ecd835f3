// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/meshintel/deepresearch/internal/httputil"
	"github.com/meshintel/deepresearch/pkg/types"
)

// tavilyAPIBase is the Tavily search endpoint. Declared as a var so tests
// can substitute an httptest server.
var tavilyAPIBase = "https://api.tavily.com/search"

// TavilyAdapter queries the Tavily AI search API.
type TavilyAdapter struct {
	APIKey     string
	Client     *http.Client
	MaxRetries int
}

// Name returns the adapter identifier.
func (a *TavilyAdapter) Name() string { return "tavily" }

// tavilyRequest is the request body for the Tavily search API.
type tavilyRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	MaxResults        int    `json:"max_results"`
	SearchDepth       string `json:"search_depth"`
	IncludeRawContent bool   `json:"include_raw_content"`
	Days              int    `json:"days,omitempty"`
}

// tavilyResponse is the response body from the Tavily search API.
type tavilyResponse struct {
	Results []struct {
		Title         string  `json:"title"`
		URL           string  `json:"url"`
		Content       string  `json:"content"`
		RawContent    string  `json:"raw_content"`
		PublishedDate string  `json:"published_date"`
		Score         float64 `json:"score"`
	} `json:"results"`
}

// Search queries Tavily with advanced depth and raw content included.
func (a *TavilyAdapter) Search(ctx context.Context, query string, opts Options) ([]types.SearchResult, error) {
	reqBody := tavilyRequest{
		APIKey:            a.APIKey,
		Query:             query,
		MaxResults:        opts.NumResults,
		SearchDepth:       "advanced",
		IncludeRawContent: true,
		Days:              opts.RecencyDays,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyAPIBase, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, a.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("Tavily API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Tavily API returned HTTP %d", resp.StatusCode)
	}

	var tr tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("parsing Tavily response: %w", err)
	}

	var results []types.SearchResult
	for _, r := range tr.Results {
		content := r.RawContent
		if content == "" {
			content = r.Content
		}
		results = append(results, types.SearchResult{
			Title:            r.Title,
			URL:              r.URL,
			Snippet:          r.Content,
			Content:          content,
			Source:           "tavily",
			PublishedDate:    r.PublishedDate,
			CredibilityScore: 0.5,
			RelevanceScore:   r.Score,
		})
	}
	return results, nil
}
