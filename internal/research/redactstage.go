// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"sort"

	"github.com/meshintel/deepresearch/internal/redact"
	"github.com/meshintel/deepresearch/pkg/types"
)

// redactSynthesis scrubs the outward-facing synthesis text: executive
// summary, detailed analysis, and every key finding. It returns the
// cleaned synthesis and the sorted union of triggered category names.
// Raw search content is left untouched; only generated report text can
// leak ingested sensitive data outward.
func redactSynthesis(s types.Synthesis) (types.Synthesis, []string) {
	seen := make(map[string]bool)

	record := func(categories []string) {
		for _, c := range categories {
			seen[c] = true
		}
	}

	var categories []string
	s.ExecutiveSummary, categories = redact.Redact(s.ExecutiveSummary)
	record(categories)

	s.DetailedAnalysis, categories = redact.Redact(s.DetailedAnalysis)
	record(categories)

	for i, finding := range s.KeyFindings {
		s.KeyFindings[i], categories = redact.Redact(finding)
		record(categories)
	}

	var union []string
	for c := range seen {
		union = append(union, c)
	}
	sort.Strings(union)

	return s, union
}
