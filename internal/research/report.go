// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"strings"
	"time"

	"github.com/meshintel/deepresearch/pkg/types"
)

// reportSnippetLimit caps the snippet shown per source in the report.
const reportSnippetLimit = 200

// Section headers, in their fixed order. Downstream report viewers parse
// the document by these headers, so the set and ordering must not change.
var sectionHeaders = []string{
	"Executive Summary",
	"Key Findings",
	"Detailed Analysis",
	"Fact Validation",
	"Recommendations",
	"Sources",
	"Data Privacy",
	"Research Metadata",
}

// renderMarkdown builds the full report document. Pure string formatting
// over already-validated data; every section always renders, with an empty
// body where the underlying list is empty.
func renderMarkdown(
	query, model string,
	synthesis types.Synthesis,
	results []types.SearchResult,
	validation types.Validation,
	redactedCategories []string,
	metadata types.ReportMetadata,
	now time.Time,
) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# DeepResearch Report\n\n")
	fmt.Fprintf(&b, "**Query:** %s  \n", query)
	fmt.Fprintf(&b, "**Model:** %s  \n", model)
	fmt.Fprintf(&b, "**Timestamp:** %s  \n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Confidence:** %s  \n", strings.ToUpper(confidenceOrDefault(synthesis.ConfidenceLevel)))

	section(&b, "Executive Summary")
	summary := synthesis.ExecutiveSummary
	if summary == "" {
		summary = "_No summary available._"
	}
	fmt.Fprintf(&b, "%s\n", summary)

	section(&b, "Key Findings")
	for i, finding := range synthesis.KeyFindings {
		fmt.Fprintf(&b, "%d. %s\n", i+1, finding)
	}

	section(&b, "Detailed Analysis")
	analysis := synthesis.DetailedAnalysis
	if analysis == "" {
		analysis = "_No analysis available._"
	}
	fmt.Fprintf(&b, "%s\n", analysis)

	section(&b, "Fact Validation")
	if len(validation.ValidatedClaims) > 0 {
		for _, claim := range validation.ValidatedClaims {
			fmt.Fprintf(&b, "- **%s**: %s\n", strings.ToUpper(claim.Status), claim.Claim)
		}
	} else {
		fmt.Fprintf(&b, "_No validation results._\n")
	}

	section(&b, "Recommendations")
	for i, rec := range synthesis.Recommendations {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
	}

	sources := firstN(results, reportSourceLimit)
	section(&b, fmt.Sprintf("Sources (%d)", len(results)))
	for i, r := range sources {
		fmt.Fprintf(&b, "\n### [%d] %s\n", i+1, r.Title)
		fmt.Fprintf(&b, "- **URL:** %s\n", r.URL)
		fmt.Fprintf(&b, "- **Source:** %s\n", strings.ToUpper(r.Source))
		fmt.Fprintf(&b, "- **Credibility:** %.2f/1.0\n", r.CredibilityScore)
		fmt.Fprintf(&b, "- **Snippet:** %s\n", truncate(r.Snippet, reportSnippetLimit))
	}

	section(&b, "Data Privacy")
	if len(redactedCategories) > 0 {
		fmt.Fprintf(&b, "**Redacted Information:** %s\n",
			strings.ToUpper(strings.Join(redactedCategories, ", ")))
	} else {
		fmt.Fprintf(&b, "No sensitive data detected.\n")
	}

	section(&b, "Research Metadata")
	fmt.Fprintf(&b, "- **Results Analyzed:** %d\n", len(results))
	fmt.Fprintf(&b, "- **Average Credibility:** %.2f/1.0\n", averageCredibility(results))
	fmt.Fprintf(&b, "- **Search Duration:** %s\n", metadata.Duration)
	fmt.Fprintf(&b, "- **Model Used:** %s\n", model)
	for _, warning := range validation.Warnings {
		fmt.Fprintf(&b, "- **Warning:** %s\n", warning)
	}

	fmt.Fprintf(&b, "\n---\n\n*Report generated by DeepResearch*\n")

	return b.String()
}

// section writes a horizontal rule and a level-two header. The Sources
// header carries a count suffix while keeping the fixed "Sources" prefix.
func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "\n---\n\n## %s\n\n", title)
}

func confidenceOrDefault(level string) string {
	if level == "" {
		return "medium"
	}
	return level
}
