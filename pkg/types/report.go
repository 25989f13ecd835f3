// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Synthesis is the structured analysis produced by the synthesis stage,
// either by the model or by the deterministic fallback.
type Synthesis struct {
	ExecutiveSummary string   `json:"executive_summary" yaml:"executive_summary"`
	KeyFindings      []string `json:"key_findings" yaml:"key_findings"`
	DetailedAnalysis string   `json:"detailed_analysis" yaml:"detailed_analysis"`

	// ConfidenceLevel is "high", "medium", or "low".
	ConfidenceLevel string   `json:"confidence_level" yaml:"confidence_level"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`

	MarketIntelligence MarketIntelligence `json:"market_intelligence" yaml:"market_intelligence"`
	KeyMetrics         KeyMetrics         `json:"key_metrics" yaml:"key_metrics"`
	StrategicTakeaways []string           `json:"strategic_takeaways" yaml:"strategic_takeaways"`
}

// MarketIntelligence holds the auxiliary structured sections of a synthesis.
type MarketIntelligence struct {
	KeyTrends            []string `json:"key_trends" yaml:"key_trends"`
	CompetitiveLandscape []string `json:"competitive_landscape" yaml:"competitive_landscape"`
	RiskFactors          []string `json:"risk_factors" yaml:"risk_factors"`
	Opportunities        []string `json:"opportunities" yaml:"opportunities"`
}

// KeyMetrics holds quantitative highlights extracted during synthesis.
type KeyMetrics struct {
	FinancialData         []string `json:"financial_data" yaml:"financial_data"`
	PerformanceIndicators []string `json:"performance_indicators" yaml:"performance_indicators"`
}

// ClaimValidation is the fact-check verdict for one key finding.
type ClaimValidation struct {
	Claim string `json:"claim" yaml:"claim"`

	// Status is "verified", "partially_verified", or "unverified".
	Status string `json:"status" yaml:"status"`

	// SupportingSources are 1-indexed positions into the validation
	// source list.
	SupportingSources []int `json:"supporting_sources" yaml:"supporting_sources"`

	// Confidence is "high", "medium", or "low".
	Confidence string `json:"confidence" yaml:"confidence"`
}

// Validation is the outcome of the fact-validation stage. A failed stage
// produces an empty claim list and a warning entry; it never aborts the run.
type Validation struct {
	ValidatedClaims []ClaimValidation `json:"validated_claims" yaml:"validated_claims"`
	Warnings        []string          `json:"warnings" yaml:"warnings"`
}

// CredibilityAssessment aggregates source trust for the final report.
type CredibilityAssessment struct {
	AverageScore         float64    `json:"average_score" yaml:"average_score"`
	HighCredibilityCount int        `json:"high_credibility_count" yaml:"high_credibility_count"`
	ValidationResults    Validation `json:"validation_results" yaml:"validation_results"`
}

// ReportMetadata records run-level facts for the final report.
type ReportMetadata struct {
	// Duration is the wall-clock research time, e.g. "12.41s".
	Duration string `json:"duration" yaml:"duration"`

	SourcesCount int    `json:"sources_count" yaml:"sources_count"`
	Model        string `json:"model" yaml:"model"`

	// Timestamp is the run completion time in RFC 3339.
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// ResearchReport is the final deliverable of one research run. It is
// constructed once at the end of the pipeline and never mutated afterward.
// MarkdownReport is derived deterministically from the other fields.
type ResearchReport struct {
	Query            string   `json:"query" yaml:"query"`
	ExecutiveSummary string   `json:"executive_summary" yaml:"executive_summary"`
	KeyFindings      []string `json:"key_findings" yaml:"key_findings"`
	DetailedAnalysis string   `json:"detailed_analysis" yaml:"detailed_analysis"`

	// Sources lists the top results by credibility, at most 20.
	Sources []SourceSummary `json:"sources" yaml:"sources"`

	CredibilityAssessment CredibilityAssessment `json:"credibility_assessment" yaml:"credibility_assessment"`
	Recommendations       []string              `json:"recommendations" yaml:"recommendations"`
	Metadata              ReportMetadata        `json:"metadata" yaml:"metadata"`

	// MarkdownReport is the fully rendered report document.
	MarkdownReport string `json:"markdown_report" yaml:"markdown_report"`

	// ExportPath is the JSON artifact path when export was requested and
	// succeeded, empty otherwise.
	ExportPath string `json:"export_path,omitempty" yaml:"export_path,omitempty"`
}
