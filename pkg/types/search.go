// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the deepresearch pipeline.
// See docs/ARCHITECTURE.md § Data Model.
package types

import "time"

// SearchResult represents a single hit returned by one search provider.
// The URL is the dedup key: within one research run at most one result
// per unique URL survives the multi-search stage.
type SearchResult struct {
	// Title is the page or article title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// URL is the canonical link for this result.
	URL string `json:"url" yaml:"url"`

	// Snippet is a short preview of the page content.
	Snippet string `json:"snippet" yaml:"snippet"`

	// Content is the fuller extracted text. It may equal Snippet when the
	// provider returns no raw content and no enrichment ran.
	Content string `json:"content" yaml:"content"`

	// Source identifies the adapter that produced this result
	// (e.g. "tavily", "serper", "jina", "hybrid").
	Source string `json:"source" yaml:"source"`

	// PublishedDate is the publication date string as reported by the
	// provider, empty when unknown. Kept as a string because providers
	// disagree on formats; the credibility scorer parses it leniently.
	PublishedDate string `json:"published_date,omitempty" yaml:"published_date,omitempty"`

	// CredibilityScore is a value in [0,1] assigned by the scoring stage.
	// Defaults to 0.5 until then.
	CredibilityScore float64 `json:"credibility_score" yaml:"credibility_score"`

	// RelevanceScore is a value in [0,1]. Reserved; adapters may leave it
	// at the neutral default.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`
}

// SourceSummary is the trimmed view of a SearchResult embedded in the final
// report and the export artifact.
type SourceSummary struct {
	Title            string  `json:"title" yaml:"title"`
	URL              string  `json:"url" yaml:"url"`
	Snippet          string  `json:"snippet" yaml:"snippet"`
	Source           string  `json:"source" yaml:"source"`
	CredibilityScore float64 `json:"credibility_score" yaml:"credibility_score"`
	PublishedDate    string  `json:"published_date,omitempty" yaml:"published_date,omitempty"`
}

// Summarize converts a SearchResult into its report-embedded form.
func (r SearchResult) Summarize() SourceSummary {
	return SourceSummary{
		Title:            r.Title,
		URL:              r.URL,
		Snippet:          r.Snippet,
		Source:           r.Source,
		CredibilityScore: r.CredibilityScore,
		PublishedDate:    r.PublishedDate,
	}
}

// ParseDate attempts to parse the result's published date. It accepts the
// formats the providers actually emit; ok is false when the field is empty
// or unparseable.
func (r SearchResult) ParseDate() (time.Time, bool) {
	if r.PublishedDate == "" {
		return time.Time{}, false
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"Jan 2, 2006",
		"2 Jan 2006",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, r.PublishedDate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
