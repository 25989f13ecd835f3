// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries web search providers and returns unified,
// URL-deduplicated results. Each provider implements the Adapter interface;
// MultiSearch fans expanded queries out across every configured adapter.
// See docs/ARCHITECTURE.md § Search.
package search

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/meshintel/deepresearch/internal/httputil"
	"github.com/meshintel/deepresearch/pkg/types"
)

// Adapter searches a single external provider. Implementations map the
// vendor response onto types.SearchResult and set Source to their own
// identifier. A provider failure is returned as an error; MultiSearch
// treats it as zero results from that adapter, never as a pipeline failure.
type Adapter interface {
	Name() string
	Search(ctx context.Context, query string, opts Options) ([]types.SearchResult, error)
}

// Options holds per-call search parameters.
type Options struct {
	// NumResults is the number of results requested from the provider.
	NumResults int

	// RecencyDays restricts results to roughly this freshness window when
	// the provider supports date filtering. Zero means no restriction.
	RecencyDays int
}

// Output holds the merged results and per-adapter failure notes.
type Output struct {
	Results       []types.SearchResult
	DupsRemoved   int
	AdapterErrors []string
}

// ErrNoResults is returned when every adapter returned nothing for every
// query. It is the only fatal outcome of the search stage.
var ErrNoResults = fmt.Errorf("no search results from any provider")

// MultiSearch runs every query against every adapter in order and merges
// the results, keeping the first occurrence of each URL. Adapter failures
// are collected, not propagated; the call fails only when the final
// deduplicated list is empty.
func MultiSearch(ctx context.Context, queries []string, adapters []Adapter, opts Options, logger *zap.Logger) (Output, error) {
	if len(adapters) == 0 {
		return Output{}, fmt.Errorf("no search adapters configured")
	}

	var out Output
	seen := make(map[string]bool)

	for _, query := range queries {
		for _, a := range adapters {
			if err := ctx.Err(); err != nil {
				return Output{}, err
			}

			results, err := a.Search(ctx, query, opts)
			if err != nil {
				msg := fmt.Sprintf("%s: %v", a.Name(), err)
				out.AdapterErrors = append(out.AdapterErrors, msg)
				logger.Warn("search adapter failed",
					zap.String("adapter", a.Name()),
					zap.String("query", query),
					zap.Error(err))
				continue
			}

			for _, r := range results {
				if r.URL == "" || seen[r.URL] {
					if seen[r.URL] {
						out.DupsRemoved++
					}
					continue
				}
				seen[r.URL] = true
				out.Results = append(out.Results, r)
			}
		}
	}

	if len(out.Results) == 0 {
		return out, ErrNoResults
	}

	logger.Info("multi-source search complete",
		zap.Int("queries", len(queries)),
		zap.Int("unique_results", len(out.Results)),
		zap.Int("duplicates_removed", out.DupsRemoved),
		zap.Int("adapter_errors", len(out.AdapterErrors)))

	return out, nil
}

// NewAdapters builds the adapter set for the given configuration. Only
// providers with credentials are constructed; a Serper key plus a Jina key
// yields the hybrid adapter in place of plain Serper so that discovery
// results can be enriched with extracted page content.
func NewAdapters(cfg types.SearchConfig, logger *zap.Logger) []Adapter {
	client := httputil.NewClient(cfg.Timeout, cfg.UserAgent)
	retries := cfg.MaxRetries

	var adapters []Adapter
	if cfg.TavilyAPIKey != "" {
		adapters = append(adapters, &TavilyAdapter{APIKey: cfg.TavilyAPIKey, Client: client, MaxRetries: retries})
	}

	switch {
	case cfg.SerperAPIKey != "" && cfg.JinaAPIKey != "":
		adapters = append(adapters, &HybridAdapter{
			Discovery: &SerperAdapter{APIKey: cfg.SerperAPIKey, Client: client, MaxRetries: retries},
			Extractor: &JinaReader{APIKey: cfg.JinaAPIKey, Client: client, MaxRetries: retries},
			Enrich:    cfg.EnrichContent,
			Logger:    logger,
		})
	case cfg.SerperAPIKey != "":
		adapters = append(adapters, &SerperAdapter{APIKey: cfg.SerperAPIKey, Client: client, MaxRetries: retries})
	}

	if cfg.JinaAPIKey != "" {
		adapters = append(adapters, &JinaAdapter{APIKey: cfg.JinaAPIKey, Client: client, MaxRetries: retries})
	}

	return adapters
}

// truncate cuts s to at most limit bytes without splitting a UTF-8 rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
