package types

import (
	"testing"
	"time"
)

func TestParseDateFormats(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		want  time.Time
		known bool
	}{
		{"rfc3339", "2026-03-01T12:30:00Z", time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC), true},
		{"iso no zone", "2026-03-01T12:30:00", time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC), true},
		{"space separated", "2026-03-01 12:30:00", time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC), true},
		{"date only", "2026-03-01", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"us long form", "Mar 1, 2026", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"day first", "1 Mar 2026", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "yesterday-ish", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := SearchResult{PublishedDate: tt.date}
			got, known := r.ParseDate()
			if known != tt.known {
				t.Fatalf("ParseDate() known = %v, want %v", known, tt.known)
			}
			if known && !got.Equal(tt.want) {
				t.Errorf("ParseDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	r := SearchResult{
		Title:            "Example",
		URL:              "https://example.com/a",
		Snippet:          "snippet",
		Content:          "full content that must not leak into the summary",
		Source:           "tavily",
		PublishedDate:    "2026-03-01",
		CredibilityScore: 0.83,
		RelevanceScore:   0.6,
	}
	s := r.Summarize()
	if s.Title != r.Title || s.URL != r.URL || s.Snippet != r.Snippet {
		t.Errorf("Summarize() dropped identity fields: %+v", s)
	}
	if s.Source != "tavily" || s.CredibilityScore != 0.83 || s.PublishedDate != "2026-03-01" {
		t.Errorf("Summarize() dropped metadata fields: %+v", s)
	}
}
