// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/meshintel/deepresearch/internal/jsonx"
	"github.com/meshintel/deepresearch/pkg/types"
)

// Truncation limits for fallback synthesis text.
const (
	fallbackFindingLimit  = 150
	fallbackAnalysisLimit = 400
	fallbackTakeawayLimit = 100
)

// synthesizeFindings asks the model for the structured analysis of the
// top-ranked results. Placeholder or unparseable output triggers the
// deterministic fallback, so the stage never yields an empty synthesis for
// a non-empty result set.
func (e *Engine) synthesizeFindings(ctx context.Context, results []types.SearchResult, query string) types.Synthesis {
	top := firstN(results, synthesisSourceLimit)

	var b strings.Builder
	for i, r := range top {
		fmt.Fprintf(&b, "[Source %d] %s\n%s\nURL: %s\nCredibility: %.2f\n\n",
			i+1, r.Title, r.Content, r.URL, r.CredibilityScore)
	}

	prompt, err := renderPrompt(synthesisPromptTmpl, struct {
		Query       string
		SourceCount int
		Context     string
	}{Query: query, SourceCount: len(top), Context: strings.TrimSpace(b.String())})
	if err != nil {
		e.logger.Warn("synthesis prompt failed, using fallback", zap.Error(err))
		return fallbackSynthesis(results, query)
	}

	response, err := e.llm.Complete(ctx, prompt, synthesisTemperature, synthesisMaxTokens)
	if err != nil {
		e.logger.Warn("synthesis failed, using fallback", zap.Error(err))
		return fallbackSynthesis(results, query)
	}

	var synthesis types.Synthesis
	if err := jsonx.Unmarshal(response, &synthesis); err != nil {
		e.logger.Warn("synthesis returned unparseable output, using fallback", zap.Error(err))
		return fallbackSynthesis(results, query)
	}

	if !validSummary(synthesis.ExecutiveSummary) {
		e.logger.Warn("synthesis returned placeholder content, using fallback")
		return fallbackSynthesis(results, query)
	}

	if synthesis.ConfidenceLevel == "" {
		synthesis.ConfidenceLevel = "medium"
	}

	e.logger.Info("synthesis complete",
		zap.Int("summary_chars", len(synthesis.ExecutiveSummary)),
		zap.Int("key_findings", len(synthesis.KeyFindings)))

	return synthesis
}

// validSummary rejects trivially short or placeholder summaries.
func validSummary(summary string) bool {
	if len(summary) < minSummaryLength {
		return false
	}
	lower := strings.ToLower(summary)
	return !strings.Contains(lower, "in progress") && !strings.Contains(lower, "details needed")
}

// fallbackSynthesis builds a synthesis directly from the top results'
// titles and snippets, with no model involvement. It always produces an
// executive summary of at least the minimum length.
func fallbackSynthesis(results []types.SearchResult, query string) types.Synthesis {
	top := firstN(results, fallbackSourceLimit)

	var summaryParts []string
	var findings []string
	var analysisParts []string
	var trends []string
	var takeaways []string

	for i, r := range top {
		n := i + 1
		if n <= 3 {
			summaryParts = append(summaryParts, fmt.Sprintf("%s [%d]", r.Title, n))
			trends = append(trends, "Trend identified in: "+r.Title)
			takeaways = append(takeaways, fmt.Sprintf("Key insight from %s: %s",
				strings.ToUpper(r.Source), truncate(r.Snippet, fallbackTakeawayLimit)))
		}

		findings = append(findings, fmt.Sprintf("%s: %s... [Source %d]",
			r.Title, truncate(r.Snippet, fallbackFindingLimit), n))

		analysisParts = append(analysisParts, fmt.Sprintf("**[%d] %s** (Credibility: %.2f)\n\n%s...",
			n, r.Title, r.CredibilityScore, truncate(r.Content, fallbackAnalysisLimit)))
	}

	summary := fmt.Sprintf("Research on %q analyzed %d sources covering the topic from multiple angles; the most credible results are summarized below. %s",
		query, len(results), strings.Join(summaryParts, " "))

	return types.Synthesis{
		ExecutiveSummary: summary,
		KeyFindings:      findings,
		DetailedAnalysis: strings.Join(analysisParts, "\n\n"),
		ConfidenceLevel:  "medium",
		Recommendations: []string{
			fmt.Sprintf("Review the top %d sources for comprehensive information", len(top)),
			"Verify specific claims with the original sources",
			"Consider additional research for deeper insights",
		},
		MarketIntelligence: types.MarketIntelligence{
			KeyTrends: trends,
		},
		StrategicTakeaways: takeaways,
	}
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
