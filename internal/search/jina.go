// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/meshintel/deepresearch/internal/httputil"
	"github.com/meshintel/deepresearch/pkg/types"
)

// jinaSearchBase is the Jina search endpoint; the query is appended as a
// path segment. Declared as a var so tests can substitute an httptest server.
var jinaSearchBase = "https://s.jina.ai"

// jinaSnippetLimit caps the snippet length taken from Jina page content.
const jinaSnippetLimit = 300

// JinaAdapter queries the Jina search API, which returns extracted page
// content rather than plain result listings.
type JinaAdapter struct {
	APIKey     string
	Client     *http.Client
	MaxRetries int
}

// Name returns the adapter identifier.
func (a *JinaAdapter) Name() string { return "jina" }

// jinaSearchResponse is the response body from the Jina search API.
type jinaSearchResponse struct {
	Data []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Content     string `json:"content"`
		Description string `json:"description"`
	} `json:"data"`
}

// Search queries Jina and maps the extracted documents onto results.
func (a *JinaAdapter) Search(ctx context.Context, query string, opts Options) ([]types.SearchResult, error) {
	reqURL := jinaSearchBase + "/" + url.PathEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Retain-Images", "none")

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, a.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("Jina API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Jina API returned HTTP %d", resp.StatusCode)
	}

	var jr jinaSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&jr); err != nil {
		return nil, fmt.Errorf("parsing Jina response: %w", err)
	}

	data := jr.Data
	if opts.NumResults > 0 && len(data) > opts.NumResults {
		data = data[:opts.NumResults]
	}

	var results []types.SearchResult
	for _, d := range data {
		results = append(results, types.SearchResult{
			Title:            d.Title,
			URL:              d.URL,
			Snippet:          truncate(d.Content, jinaSnippetLimit),
			Content:          d.Content,
			Source:           "jina",
			CredibilityScore: 0.5,
			RelevanceScore:   0.5,
		})
	}
	return results, nil
}
