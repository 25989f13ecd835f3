// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meshintel/deepresearch/internal/httputil"
)

func TestTavilySearchRequestBody(t *testing.T) {
	var captured tavilyRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results": []}`)
	}))
	defer ts.Close()

	old := tavilyAPIBase
	tavilyAPIBase = ts.URL
	defer func() { tavilyAPIBase = old }()

	a := &TavilyAdapter{APIKey: "tk", Client: ts.Client()}
	_, err := a.Search(context.Background(), "quantum computing", Options{NumResults: 5, RecencyDays: 7})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if captured.APIKey != "tk" {
		t.Errorf("api_key = %q, want %q", captured.APIKey, "tk")
	}
	if captured.Query != "quantum computing" {
		t.Errorf("query = %q", captured.Query)
	}
	if captured.MaxResults != 5 {
		t.Errorf("max_results = %d, want 5", captured.MaxResults)
	}
	if captured.SearchDepth != "advanced" {
		t.Errorf("search_depth = %q, want advanced", captured.SearchDepth)
	}
	if !captured.IncludeRawContent {
		t.Error("include_raw_content = false, want true")
	}
	if captured.Days != 7 {
		t.Errorf("days = %d, want 7", captured.Days)
	}
}

func TestTavilySearchMapsResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results": [
			{"title": "A", "url": "https://a.example.com", "content": "snippet a", "raw_content": "full a", "published_date": "2026-03-01", "score": 0.92},
			{"title": "B", "url": "https://b.example.com", "content": "snippet b", "score": 0.4}
		]}`)
	}))
	defer ts.Close()

	old := tavilyAPIBase
	tavilyAPIBase = ts.URL
	defer func() { tavilyAPIBase = old }()

	a := &TavilyAdapter{APIKey: "tk", Client: ts.Client()}
	results, err := a.Search(context.Background(), "q", Options{NumResults: 5})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}

	if results[0].Content != "full a" {
		t.Errorf("Content = %q, want raw content preferred", results[0].Content)
	}
	if results[0].Snippet != "snippet a" {
		t.Errorf("Snippet = %q", results[0].Snippet)
	}
	if results[0].Source != "tavily" {
		t.Errorf("Source = %q, want tavily", results[0].Source)
	}
	if results[0].RelevanceScore != 0.92 {
		t.Errorf("RelevanceScore = %v", results[0].RelevanceScore)
	}
	if results[0].CredibilityScore != 0.5 {
		t.Errorf("CredibilityScore = %v, want neutral 0.5 before scoring", results[0].CredibilityScore)
	}

	// No raw content falls back to the snippet text.
	if results[1].Content != "snippet b" {
		t.Errorf("Content = %q, want snippet fallback", results[1].Content)
	}
}

func TestTavilySearchHonorsRetryBudget(t *testing.T) {
	old := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	defer func() { httputil.RetryBaseDelay = old }()

	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	oldBase := tavilyAPIBase
	tavilyAPIBase = ts.URL
	defer func() { tavilyAPIBase = oldBase }()

	a := &TavilyAdapter{APIKey: "tk", Client: ts.Client(), MaxRetries: 1}
	if _, err := a.Search(context.Background(), "q", Options{}); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 1 retry after the initial call", attempts)
	}
}

func TestTavilySearchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	old := tavilyAPIBase
	tavilyAPIBase = ts.URL
	defer func() { tavilyAPIBase = old }()

	a := &TavilyAdapter{APIKey: "bad", Client: ts.Client()}
	if _, err := a.Search(context.Background(), "q", Options{}); err == nil {
		t.Fatal("expected error for HTTP 401")
	}
}
