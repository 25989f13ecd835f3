// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/meshintel/deepresearch/internal/httputil"
	"github.com/meshintel/deepresearch/pkg/types"
)

// jinaReaderBase is the Jina Reader endpoint; the target URL is appended
// as a path segment. Declared as a var so tests can substitute an httptest
// server.
var jinaReaderBase = "https://r.jina.ai"

// readerContentLimit caps the extracted content kept per enriched result.
const readerContentLimit = 500

// enrichConcurrency bounds parallel Reader calls per search.
const enrichConcurrency = 4

// ContentExtractor fetches clean page text for a URL. Extraction failures
// are per-URL: the hybrid adapter keeps the unenriched result.
type ContentExtractor interface {
	Extract(ctx context.Context, pageURL string) (string, error)
}

// JinaReader extracts page content through the Jina Reader API.
type JinaReader struct {
	APIKey     string
	Client     *http.Client
	MaxRetries int
}

// jinaReaderResponse is the response body from the Jina Reader API.
type jinaReaderResponse struct {
	Data struct {
		Content string `json:"content"`
	} `json:"data"`
}

// Extract fetches the page and returns its extracted text, truncated to
// the reader content limit.
func (r *JinaReader) Extract(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jinaReaderBase+"/"+pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, r.Client, req, r.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("Jina Reader request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Jina Reader returned HTTP %d", resp.StatusCode)
	}

	var jr jinaReaderResponse
	if err := json.NewDecoder(resp.Body).Decode(&jr); err != nil {
		return "", fmt.Errorf("parsing Jina Reader response: %w", err)
	}

	return truncate(jr.Data.Content, readerContentLimit), nil
}

// HybridAdapter composes a discovery adapter with a content extractor:
// discovery supplies titles, snippets, and links; the extractor fills in
// fuller page text. Enrichment is opt-in and individually fault-tolerant:
// one extraction failure never drops the underlying result.
type HybridAdapter struct {
	Discovery Adapter
	Extractor ContentExtractor
	Enrich    bool
	Logger    *zap.Logger
}

// Name returns the adapter identifier.
func (a *HybridAdapter) Name() string { return "hybrid" }

// Search runs discovery, then optionally enriches each result's content
// in parallel, preserving discovery order.
func (a *HybridAdapter) Search(ctx context.Context, query string, opts Options) ([]types.SearchResult, error) {
	results, err := a.Discovery.Search(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	for i := range results {
		results[i].Source = "hybrid"
	}

	if !a.Enrich || a.Extractor == nil {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)

	for i := range results {
		i := i
		g.Go(func() error {
			content, err := a.Extractor.Extract(gctx, results[i].URL)
			if err != nil {
				a.Logger.Warn("content enrichment failed",
					zap.String("url", results[i].URL),
					zap.Error(err))
				return nil
			}
			if content != "" {
				results[i].Content = content
			}
			return nil
		})
	}

	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
