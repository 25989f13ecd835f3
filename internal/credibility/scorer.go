// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package credibility scores search results on URL trust, content quality,
// and recency. All functions are pure: the same inputs always produce the
// same score. See docs/ARCHITECTURE.md § Credibility Scoring.
package credibility

import (
	"math"
	"strings"
	"time"

	"github.com/meshintel/deepresearch/pkg/types"
)

// trustedDomains marks high-trust institutional and wire-service domains.
// A match adds a fixed bonus to the URL score.
var trustedDomains = []string{
	"gov", "edu", "org", "ac.uk", "ac.th",
	"arxiv.org", "nature.com", "science.org", "ieee.org",
	"who.int", "cdc.gov", "nih.gov",
	"reuters.com", "apnews.com", "bbc.com", "economist.com",
}

// spamMarkers in a URL indicate a low-trust source.
var spamMarkers = []string{"spam", "scam", "fake", "click"}

// evidencePhrases suggest the content cites sources or data.
var evidencePhrases = []string{
	"according to", "research shows", "study found", "data indicates",
}

// suspiciousIndicators flag unverified or promotional content.
var suspiciousIndicators = []string{
	"clickbait", "sponsored", "advertisement", "paid content",
	"unverified", "rumor", "allegedly", "claims without evidence",
}

// sensationalWords in a title penalize the content score.
var sensationalWords = []string{
	"shocking", "unbelievable", "miracle", "secret", "they dont want you to know",
}

// Weights for the overall score. Content quality dominates because it is
// the most query-relevant signal.
const (
	urlWeight     = 0.3
	contentWeight = 0.4
	recencyWeight = 0.3
)

// ScoreURL rates a URL's trustworthiness in [0,1]. Baseline 0.5, bonus for
// trusted domains and encrypted transport, penalty for spam markers.
func ScoreURL(url string) float64 {
	score := 0.5

	domain := url
	if parts := strings.SplitN(url, "/", 4); len(parts) > 2 {
		domain = parts[2]
	}
	domain = strings.ToLower(domain)

	for _, trusted := range trustedDomains {
		if strings.Contains(domain, trusted) {
			score += 0.3
			break
		}
	}

	if strings.HasPrefix(url, "https://") {
		score += 0.1
	}

	lower := strings.ToLower(url)
	for _, marker := range spamMarkers {
		if strings.Contains(lower, marker) {
			score -= 0.3
			break
		}
	}

	return clamp(score)
}

// ScoreContent rates content quality in [0,1] from length, evidence
// phrasing, unverified-claim indicators, and sensational titles.
func ScoreContent(content, title string) float64 {
	score := 0.5

	if len(content) > 100 && len(content) < 5000 {
		score += 0.1
	}

	lowerContent := strings.ToLower(content)
	lowerTitle := strings.ToLower(title)

	for _, phrase := range evidencePhrases {
		if strings.Contains(lowerContent, phrase) {
			score += 0.15
			break
		}
	}

	for _, indicator := range suspiciousIndicators {
		if strings.Contains(lowerContent, indicator) || strings.Contains(lowerTitle, indicator) {
			score -= 0.2
			break
		}
	}

	for _, word := range sensationalWords {
		if strings.Contains(lowerTitle, word) {
			score -= 0.2
			break
		}
	}

	return clamp(score)
}

// ScoreRecency rates freshness in [0,1] relative to now. An unknown or
// unparseable date scores the neutral 0.5. Within maxAgeDays the score
// falls linearly from 1.0 to 0.5; beyond it, from 0.5 toward 0.0 as the
// age approaches twice the window.
func ScoreRecency(published time.Time, known bool, maxAgeDays int, now time.Time) float64 {
	if !known || maxAgeDays <= 0 {
		return 0.5
	}

	ageDays := now.Sub(published).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}

	window := float64(maxAgeDays)
	if ageDays <= window {
		return 1.0 - (ageDays/window)*0.5
	}
	return math.Max(0.0, 0.5-((ageDays-window)/window)*0.5)
}

// OverallScore combines the three component scores for one result,
// weighted 0.3/0.4/0.3 and rounded to three decimals. Content quality is
// scored on the fuller Content text, falling back to the snippet.
func OverallScore(r types.SearchResult, recencyDays int, now time.Time) float64 {
	urlScore := ScoreURL(r.URL)

	body := r.Content
	if body == "" {
		body = r.Snippet
	}
	contentScore := ScoreContent(body, r.Title)

	published, known := r.ParseDate()
	recencyScore := ScoreRecency(published, known, recencyDays, now)

	overall := urlScore*urlWeight + contentScore*contentWeight + recencyScore*recencyWeight
	return math.Round(overall*1000) / 1000
}

func clamp(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}
