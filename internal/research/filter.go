// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/meshintel/deepresearch/internal/jsonx"
	"github.com/meshintel/deepresearch/pkg/types"
)

// snippetPreviewLimit caps the snippet text shown to the filter model.
const snippetPreviewLimit = 200

// filterNoise asks the model which of the first results are topically
// relevant and substantive, and keeps only those. The stage fails open:
// any model or parse failure keeps the leading results unfiltered rather
// than dropping everything.
func (e *Engine) filterNoise(ctx context.Context, results []types.SearchResult, query string) []types.SearchResult {
	if len(results) == 0 {
		return results
	}

	presented := firstN(results, filterPresentLimit)

	var b strings.Builder
	for i, r := range presented {
		fmt.Fprintf(&b, "[%d] %s\n%s\n\n", i+1, r.Title, truncate(r.Snippet, snippetPreviewLimit))
	}

	prompt, err := renderPrompt(filterPromptTmpl, struct {
		Query   string
		Results string
	}{Query: query, Results: strings.TrimSpace(b.String())})
	if err != nil {
		e.logger.Warn("noise filter prompt failed, keeping top results", zap.Error(err))
		return firstN(results, filterFallbackLimit)
	}

	response, err := e.llm.Complete(ctx, prompt, filterTemperature, filterMaxTokens)
	if err != nil {
		e.logger.Warn("noise filtering failed, keeping top results", zap.Error(err))
		return firstN(results, filterFallbackLimit)
	}

	var indices []int
	if err := jsonx.Unmarshal(response, &indices); err != nil {
		e.logger.Warn("noise filter returned unparseable output, keeping top results")
		return firstN(results, filterFallbackLimit)
	}

	var filtered []types.SearchResult
	for _, idx := range indices {
		if idx > 0 && idx <= len(presented) {
			filtered = append(filtered, presented[idx-1])
		}
	}

	// An empty selection is indistinguishable from a filtering failure;
	// fail open rather than starve the pipeline.
	if len(filtered) == 0 {
		e.logger.Warn("noise filter selected nothing, keeping top results")
		return firstN(results, filterFallbackLimit)
	}

	e.logger.Info("noise filtering complete",
		zap.Int("before", len(results)),
		zap.Int("after", len(filtered)))

	return filtered
}
