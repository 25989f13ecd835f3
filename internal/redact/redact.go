// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package redact scrubs PII-like substrings from generated report text.
// Matches are replaced with category placeholders such as [REDACTED_EMAIL];
// redaction is idempotent because placeholders never match any pattern.
package redact

import "regexp"

// category pairs a name with its pattern. Categories apply in table order.
type category struct {
	name    string
	pattern *regexp.Regexp
}

// categories is the fixed, process-wide pattern table.
var categories = []category{
	{"email", regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},
	{"phone", regexp.MustCompile(`\b(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)},
	{"ssn", regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{"credit_card", regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`)},
	{"api_key", regexp.MustCompile(`\b[A-Za-z0-9]{32,}\b`)},
	{"ip_address", regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)},
}

// placeholders maps each category name to its replacement token.
var placeholders = map[string]string{
	"email":       "[REDACTED_EMAIL]",
	"phone":       "[REDACTED_PHONE]",
	"ssn":         "[REDACTED_SSN]",
	"credit_card": "[REDACTED_CREDIT_CARD]",
	"api_key":     "[REDACTED_API_KEY]",
	"ip_address":  "[REDACTED_IP_ADDRESS]",
}

// Redact replaces sensitive substrings with placeholder tokens and returns
// the cleaned text plus the names of the categories that matched. Each
// category is reported at most once regardless of match count.
func Redact(text string) (string, []string) {
	var matched []string
	cleaned := text

	for _, c := range categories {
		if !c.pattern.MatchString(cleaned) {
			continue
		}
		matched = append(matched, c.name)
		cleaned = c.pattern.ReplaceAllString(cleaned, placeholders[c.name])
	}

	return cleaned, matched
}

// Categories returns the category names in application order.
func Categories() []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.name
	}
	return names
}
