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

// serperAPIBase is the Serper (Google search) endpoint. Declared as a var
// so tests can substitute an httptest server.
var serperAPIBase = "https://google.serper.dev/search"

// SerperAdapter queries the Serper API for Google web results.
type SerperAdapter struct {
	APIKey     string
	Client     *http.Client
	MaxRetries int
}

// Name returns the adapter identifier.
func (a *SerperAdapter) Name() string { return "serper" }

// serperRequest is the request body for the Serper search API.
type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
	TBS string `json:"tbs,omitempty"`
}

// serperResponse is the response body from the Serper search API.
type serperResponse struct {
	Organic []struct {
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
		Date     string `json:"date"`
		Position int    `json:"position"`
	} `json:"organic"`
}

// Search queries Serper, applying a qdr time filter derived from the
// recency window.
func (a *SerperAdapter) Search(ctx context.Context, query string, opts Options) ([]types.SearchResult, error) {
	reqBody := serperRequest{
		Q:   query,
		Num: opts.NumResults,
		TBS: recencyFilter(opts.RecencyDays),
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serperAPIBase, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-API-KEY", a.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, a.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("Serper API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Serper API returned HTTP %d", resp.StatusCode)
	}

	var sr serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Serper response: %w", err)
	}

	organic := sr.Organic
	if opts.NumResults > 0 && len(organic) > opts.NumResults {
		organic = organic[:opts.NumResults]
	}

	var results []types.SearchResult
	for _, r := range organic {
		results = append(results, types.SearchResult{
			Title:            r.Title,
			URL:              r.Link,
			Snippet:          r.Snippet,
			Content:          r.Snippet,
			Source:           "serper",
			PublishedDate:    r.Date,
			CredibilityScore: 0.5,
			RelevanceScore:   0.5,
		})
	}
	return results, nil
}

// recencyFilter maps a day window onto Google's qdr time-based search
// parameter. Zero or negative means no filter.
func recencyFilter(days int) string {
	switch {
	case days <= 0:
		return ""
	case days <= 1:
		return "qdr:d"
	case days <= 7:
		return "qdr:w"
	case days <= 31:
		return "qdr:m"
	default:
		return "qdr:y"
	}
}
