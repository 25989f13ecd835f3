// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meshintel/deepresearch/internal/search"
	"github.com/meshintel/deepresearch/pkg/types"
)

// mockLLM routes every completion through fn.
type mockLLM struct {
	fn    func(prompt string) (string, error)
	calls int
}

func (m *mockLLM) Complete(_ context.Context, prompt string, _ float64, _ int) (string, error) {
	m.calls++
	return m.fn(prompt)
}

func (m *mockLLM) Model() string { return "mock-model" }

// failingLLM simulates a model backend that is configured but unreachable.
func failingLLM() *mockLLM {
	return &mockLLM{fn: func(string) (string, error) {
		return "", fmt.Errorf("backend unreachable")
	}}
}

// scriptedLLM answers each pipeline stage by recognizing its prompt.
func scriptedLLM(t *testing.T, synthesisJSON string) *mockLLM {
	return &mockLLM{fn: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "Expand this query"):
			return `["alpha developments", "alpha statistics"]`, nil
		case strings.Contains(prompt, "research quality filter"):
			return `[1, 2]`, nil
		case strings.Contains(prompt, "intelligence briefing specialist"):
			return synthesisJSON, nil
		case strings.Contains(prompt, "You are a fact-checker"):
			return `[{"claim": "finding one", "status": "verified", "supporting_sources": [1], "confidence": "high"}]`, nil
		default:
			t.Errorf("unrecognized prompt: %.80s", prompt)
			return "", fmt.Errorf("unrecognized prompt")
		}
	}}
}

// searchStub implements search.Adapter with canned results.
type searchStub struct {
	name    string
	results []types.SearchResult
	err     error
}

func (s *searchStub) Name() string { return s.name }

func (s *searchStub) Search(_ context.Context, _ string, _ search.Options) ([]types.SearchResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func stubResult(n int, url string) types.SearchResult {
	return types.SearchResult{
		Title:   fmt.Sprintf("Result %d", n),
		URL:     url,
		Snippet: fmt.Sprintf("Snippet for result %d with enough words to quote.", n),
		Content: fmt.Sprintf("Content for result %d. According to a study, the findings held up.", n),
		Source:  "stub",
	}
}

func testEngine(client *mockLLM, adapters []search.Adapter, cfg types.PipelineConfig) *Engine {
	cfg.LLM.Model = "mock-model"
	return NewWithClients(cfg, client, adapters, zap.NewNop())
}

const testSynthesisJSON = `{
	"executive_summary": "Alpha shipped three major releases this quarter, each improving throughput by double digits; analysts expect the trend to continue through next year given sustained demand.",
	"key_findings": ["Throughput improved 24% quarter over quarter [1]", "Two competitors exited the market [2]"],
	"detailed_analysis": "The releases landed on schedule and adoption grew steadily across all tracked segments [1][2].",
	"confidence_level": "high",
	"recommendations": ["Track the next release cycle closely"],
	"strategic_takeaways": ["Alpha's cadence is its moat"]
}`

func TestResearchFallbackPipeline(t *testing.T) {
	// One URL overlaps between the adapters: five unique results survive.
	a := &searchStub{name: "a", results: []types.SearchResult{
		stubResult(1, "https://example.com/1"),
		stubResult(2, "https://example.com/2"),
		stubResult(3, "https://example.com/3"),
	}}
	b := &searchStub{name: "b", results: []types.SearchResult{
		stubResult(3, "https://example.com/3"),
		stubResult(4, "https://example.com/4"),
		stubResult(5, "https://example.com/5"),
	}}

	e := testEngine(failingLLM(), []search.Adapter{a, b}, types.PipelineConfig{})
	report, err := e.Research(context.Background(), "alpha quarterly results", Options{})
	require.NoError(t, err)

	assert.Equal(t, "alpha quarterly results", report.Query)
	assert.Len(t, report.Sources, 5)
	assert.Equal(t, 5, report.Metadata.SourcesCount)

	// Every degraded stage still yields substantive output.
	assert.GreaterOrEqual(t, len(report.ExecutiveSummary), minSummaryLength)
	assert.NotEmpty(t, report.KeyFindings)
	assert.NotEmpty(t, report.Recommendations)
	assert.Contains(t, report.CredibilityAssessment.ValidationResults.Warnings, validationWarning)

	// Sources are ranked by credibility, best first.
	for i := 1; i < len(report.Sources); i++ {
		assert.GreaterOrEqual(t, report.Sources[i-1].CredibilityScore, report.Sources[i].CredibilityScore)
	}

	assert.Contains(t, report.MarkdownReport, "alpha quarterly results")
	assert.Empty(t, report.ExportPath)
}

func TestResearchScriptedPipeline(t *testing.T) {
	adapter := &searchStub{name: "a", results: []types.SearchResult{
		stubResult(1, "https://example.com/1"),
		stubResult(2, "https://example.com/2"),
		stubResult(3, "https://example.com/3"),
	}}

	llm := scriptedLLM(t, testSynthesisJSON)
	e := testEngine(llm, []search.Adapter{adapter}, types.PipelineConfig{})

	report, err := e.Research(context.Background(), "alpha", Options{RecencyDays: 30})
	require.NoError(t, err)

	// The filter kept results 1 and 2 of the three discovered.
	assert.Len(t, report.Sources, 2)

	assert.Contains(t, report.ExecutiveSummary, "Alpha shipped three major releases")
	assert.Len(t, report.KeyFindings, 2)

	validated := report.CredibilityAssessment.ValidationResults.ValidatedClaims
	require.Len(t, validated, 1)
	assert.Equal(t, "verified", validated[0].Status)
	assert.Empty(t, report.CredibilityAssessment.ValidationResults.Warnings)

	assert.Contains(t, report.MarkdownReport, "**Confidence:** HIGH")
	assert.Contains(t, report.MarkdownReport, "**VERIFIED**")
}

func TestResearchMarkdownSections(t *testing.T) {
	adapter := &searchStub{name: "a", results: []types.SearchResult{
		stubResult(1, "https://example.com/1"),
	}}

	e := testEngine(failingLLM(), []search.Adapter{adapter}, types.PipelineConfig{})
	report, err := e.Research(context.Background(), "solar adoption", Options{})
	require.NoError(t, err)

	last := -1
	for _, header := range sectionHeaders {
		idx := strings.Index(report.MarkdownReport, "## "+header)
		require.NotEqual(t, -1, idx, "missing section %q", header)
		assert.Greater(t, idx, last, "section %q out of order", header)
		last = idx
	}
}

func TestResearchNoResultsIsFatal(t *testing.T) {
	empty := &searchStub{name: "empty"}
	broken := &searchStub{name: "broken", err: fmt.Errorf("quota exceeded")}

	e := testEngine(failingLLM(), []search.Adapter{empty, broken}, types.PipelineConfig{})
	_, err := e.Research(context.Background(), "anything", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, search.ErrNoResults))
}

func TestResearchContextCancelled(t *testing.T) {
	adapter := &searchStub{name: "a", results: []types.SearchResult{
		stubResult(1, "https://example.com/1"),
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := testEngine(failingLLM(), []search.Adapter{adapter}, types.PipelineConfig{})
	_, err := e.Research(ctx, "anything", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestResearchExportArtifact(t *testing.T) {
	dir := t.TempDir()
	adapter := &searchStub{name: "a", results: []types.SearchResult{
		stubResult(1, "https://example.com/1"),
		stubResult(2, "https://example.com/2"),
	}}

	cfg := types.PipelineConfig{Export: types.ExportConfig{Dir: dir}}
	e := testEngine(failingLLM(), []search.Adapter{adapter}, cfg)

	report, err := e.Research(context.Background(), "alpha", Options{Export: true})
	require.NoError(t, err)
	require.NotEmpty(t, report.ExportPath)

	data, err := os.ReadFile(report.ExportPath)
	require.NoError(t, err)

	var artifact struct {
		Query     string                `json:"query"`
		Synthesis types.Synthesis       `json:"synthesis"`
		Sources   []types.SourceSummary `json:"sources"`
		Markdown  string                `json:"markdown"`
	}
	require.NoError(t, json.Unmarshal(data, &artifact))

	assert.Equal(t, "alpha", artifact.Query)
	assert.Len(t, artifact.Sources, 2)
	assert.LessOrEqual(t, len(artifact.Sources), exportSourceLimit)
	assert.Equal(t, report.MarkdownReport, artifact.Markdown)
}

func TestResearchRedactsSensitiveSynthesis(t *testing.T) {
	leakyJSON := `{
		"executive_summary": "The incident report names the analyst reachable at jane@corp.example.com and documents how the outage unfolded across three regions over a six hour window before mitigation.",
		"key_findings": ["Escalation went through 555-123-4567 before the pager rotation caught up"],
		"detailed_analysis": "Postmortem review is complete and the remediation items are assigned to owning teams.",
		"confidence_level": "medium",
		"recommendations": ["Rotate the on-call schedule"]
	}`

	adapter := &searchStub{name: "a", results: []types.SearchResult{
		stubResult(1, "https://example.com/1"),
		stubResult(2, "https://example.com/2"),
	}}

	e := testEngine(scriptedLLM(t, leakyJSON), []search.Adapter{adapter}, types.PipelineConfig{})
	report, err := e.Research(context.Background(), "outage postmortem", Options{})
	require.NoError(t, err)

	assert.Contains(t, report.ExecutiveSummary, "[REDACTED_EMAIL]")
	assert.NotContains(t, report.ExecutiveSummary, "jane@corp.example.com")
	require.NotEmpty(t, report.KeyFindings)
	assert.Contains(t, report.KeyFindings[0], "[REDACTED_PHONE]")

	assert.Contains(t, report.MarkdownReport, "**Redacted Information:** EMAIL, PHONE")
}

func TestScoreCredibilitySortsDescending(t *testing.T) {
	e := testEngine(failingLLM(), nil, types.PipelineConfig{})

	results := []types.SearchResult{
		{Title: "weak", URL: "http://free-clicks.example.com/win", Snippet: "x"},
		{Title: "strong", URL: "https://www.nature.com/articles/x", Snippet: "According to a study, results held."},
		{Title: "middle", URL: "https://example.com/post", Snippet: "plain text"},
	}

	scored := e.scoreCredibility(results, 7)
	require.Len(t, scored, 3)
	assert.Equal(t, "strong", scored[0].Title)
	assert.Equal(t, "weak", scored[2].Title)

	// The input slice order is untouched.
	assert.Equal(t, "weak", results[0].Title)
}
