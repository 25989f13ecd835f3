// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research drives the deep-research pipeline: query expansion,
// multi-source search, noise filtering, credibility scoring, synthesis,
// fact validation, redaction, and report rendering. Each stage consumes the
// previous stage's output; the pipeline is linear with no retries across
// stages. See docs/ARCHITECTURE.md § Research Pipeline.
package research

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/meshintel/deepresearch/internal/credibility"
	"github.com/meshintel/deepresearch/internal/llm"
	"github.com/meshintel/deepresearch/internal/search"
	"github.com/meshintel/deepresearch/pkg/types"
)

// Stage limits. These mirror the sizing of the prompts each stage builds:
// more sources than this stops helping and starts truncating.
const (
	maxExpandedQueries    = 5
	filterPresentLimit    = 20
	filterFallbackLimit   = 15
	synthesisSourceLimit  = 15
	fallbackSourceLimit   = 8
	validationSourceLimit = 5
	reportSourceLimit     = 20
	exportSourceLimit     = 10

	// minSummaryLength rejects placeholder synthesis output.
	minSummaryLength = 100
)

// Per-stage sampling profiles.
const (
	expandTemperature     = 0.7
	expandMaxTokens       = 500
	filterTemperature     = 0.3
	filterMaxTokens       = 200
	synthesisTemperature  = 0.7
	synthesisMaxTokens    = 4000
	validationTemperature = 0.2
	validationMaxTokens   = 1000
)

// Options holds per-run research parameters.
type Options struct {
	// RecencyDays is the freshness window used for provider date filters
	// and the recency score (default 7).
	RecencyDays int

	// Export writes a JSON artifact for downstream slide generation.
	Export bool
}

// Engine orchestrates one research pipeline. It holds only read-only
// configuration and reusable clients, so a single Engine is safe for
// concurrent Research calls.
type Engine struct {
	model    string
	llm      llm.Client
	adapters []search.Adapter
	cfg      types.PipelineConfig
	logger   *zap.Logger

	// now is the clock; tests substitute a fixed time.
	now func() time.Time
}

// New constructs an Engine from configuration. It fails only when no model
// backend is configured for the requested identifier.
func New(cfg types.PipelineConfig, logger *zap.Logger) (*Engine, error) {
	client, err := llm.New(cfg.LLM, logger)
	if err != nil {
		return nil, err
	}
	adapters := search.NewAdapters(cfg.Search, logger)
	return NewWithClients(cfg, client, adapters, logger), nil
}

// NewWithClients constructs an Engine with explicit collaborators. Tests
// use it to inject mock adapters and a mock model client.
func NewWithClients(cfg types.PipelineConfig, client llm.Client, adapters []search.Adapter, logger *zap.Logger) *Engine {
	return &Engine{
		model:    cfg.LLM.Model,
		llm:      client,
		adapters: adapters,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Research executes the full pipeline for one query and returns the
// completed report. It aborts only when no provider returned any result or
// the context was cancelled; every other stage degrades to a deterministic
// fallback.
func (e *Engine) Research(ctx context.Context, query string, opts Options) (*types.ResearchReport, error) {
	start := e.now()
	if opts.RecencyDays <= 0 {
		opts.RecencyDays = 7
	}

	e.logger.Info("starting research", zap.String("query", query), zap.String("model", e.model))

	// Stage 1: query expansion.
	queries := e.expandQuery(ctx, query)

	// Stage 2: multi-source search. The only fatal search outcome is an
	// empty deduplicated result set.
	resultsPerQuery := e.cfg.Search.ResultsPerQuery
	if resultsPerQuery <= 0 {
		resultsPerQuery = 5
	}
	out, err := search.MultiSearch(ctx, queries, e.adapters, search.Options{
		NumResults:  resultsPerQuery,
		RecencyDays: opts.RecencyDays,
	}, e.logger)
	if err != nil {
		return nil, fmt.Errorf("research %q: %w", query, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: noise filtering (fail open).
	filtered := e.filterNoise(ctx, out.Results, query)

	// Stage 4: credibility scoring.
	scored := e.scoreCredibility(filtered, opts.RecencyDays)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 5: synthesis, with deterministic fallback.
	synthesis := e.synthesizeFindings(ctx, scored, query)

	// Stage 6: fact validation (non-fatal).
	validation := e.validateFacts(ctx, synthesis, scored)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 7: redaction.
	synthesis, redacted := redactSynthesis(synthesis)
	if len(redacted) > 0 {
		e.logger.Info("redacted sensitive data", zap.Strings("categories", redacted))
	}

	duration := e.now().Sub(start)
	metadata := types.ReportMetadata{
		Duration:     fmt.Sprintf("%.2fs", duration.Seconds()),
		SourcesCount: len(scored),
		Model:        e.model,
		Timestamp:    e.now().Format(time.RFC3339),
	}

	// Stage 8: markdown rendering. Pure formatting, cannot fail.
	markdown := renderMarkdown(query, e.model, synthesis, scored, validation, redacted, metadata, e.now())

	sources := make([]types.SourceSummary, 0, reportSourceLimit)
	for _, r := range firstN(scored, reportSourceLimit) {
		sources = append(sources, r.Summarize())
	}

	report := &types.ResearchReport{
		Query:            query,
		ExecutiveSummary: synthesis.ExecutiveSummary,
		KeyFindings:      synthesis.KeyFindings,
		DetailedAnalysis: synthesis.DetailedAnalysis,
		Sources:          sources,
		CredibilityAssessment: types.CredibilityAssessment{
			AverageScore:         averageCredibility(scored),
			HighCredibilityCount: highCredibilityCount(scored),
			ValidationResults:    validation,
		},
		Recommendations: synthesis.Recommendations,
		Metadata:        metadata,
		MarkdownReport:  markdown,
	}

	// Stage 9 (optional): export artifact. Failure means no artifact,
	// never a failed run.
	if opts.Export {
		path, err := e.exportArtifact(query, synthesis, scored, markdown)
		if err != nil {
			e.logger.Warn("export failed", zap.Error(err))
		} else {
			report.ExportPath = path
		}
	}

	e.logger.Info("research complete",
		zap.String("query", query),
		zap.Int("sources", len(scored)),
		zap.Duration("duration", duration))

	return report, nil
}

// scoreCredibility assigns an overall credibility score to every result
// and sorts descending by score. Deterministic; malformed dates fall back
// to the neutral recency score inside the scorer.
func (e *Engine) scoreCredibility(results []types.SearchResult, recencyDays int) []types.SearchResult {
	now := e.now()
	scored := make([]types.SearchResult, len(results))
	copy(scored, results)

	for i := range scored {
		scored[i].CredibilityScore = credibility.OverallScore(scored[i], recencyDays, now)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CredibilityScore > scored[j].CredibilityScore
	})

	e.logger.Info("credibility scoring complete",
		zap.Int("results", len(scored)),
		zap.Float64("average", averageCredibility(scored)))

	return scored
}

func averageCredibility(results []types.SearchResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.CredibilityScore
	}
	return sum / float64(len(results))
}

func highCredibilityCount(results []types.SearchResult) int {
	count := 0
	for _, r := range results {
		if r.CredibilityScore >= 0.7 {
			count++
		}
	}
	return count
}

func firstN(results []types.SearchResult, n int) []types.SearchResult {
	if len(results) > n {
		return results[:n]
	}
	return results
}
