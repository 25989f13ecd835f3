// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"bytes"
	"fmt"
	"text/template"
)

// expandPromptTmpl asks the model for alternative search phrasings.
var expandPromptTmpl = template.Must(template.New("expand").Parse(`You are a research assistant. Expand this query into 3-5 specific search queries that will help gather comprehensive information.

Keep the same language as the original query in the expanded queries. If the query is about software, APIs, models, or tools, focus on technology rather than any unrelated common-language meaning of the terms.

Original Query: {{.Query}}

Generate diverse search queries covering:
1. Core facts and definitions
2. Recent developments and news
3. Expert opinions and analysis
4. Statistical data and research
5. Practical applications or implications

Return ONLY a JSON array of search queries, nothing else.
Example: ["query 1", "query 2", "query 3"]`))

// filterPromptTmpl asks the model to pick relevant result indices.
var filterPromptTmpl = template.Must(template.New("filter").Parse(`You are a research quality filter. Review these search results for the query: "{{.Query}}"

Results:
{{.Results}}

Task: Identify which results are RELEVANT and HIGH-QUALITY.

Criteria:
- Directly addresses the query context
- Contains substantial information
- From credible sources
- Not spam, ads, or clickbait
- Matches the query intent (technical queries need technical content)

Return ONLY a JSON array of relevant result numbers (1-indexed).
Example: [1, 3, 5, 7]`))

// synthesisPromptTmpl asks the model for the full structured analysis.
var synthesisPromptTmpl = template.Must(template.New("synthesis").Parse(`You are an expert research analyst and intelligence briefing specialist. Create a comprehensive, detailed research report.

Query: "{{.Query}}"

Available Research Sources ({{.SourceCount}} high-quality sources):
{{.Context}}

Generate a detailed JSON report with every section fully populated:

{
    "executive_summary": "3-5 comprehensive paragraphs (minimum 200 words): what this is about, why it matters, key insights, strategic implications, main conclusions. Use specific numbers, dates, and facts from the sources.",
    "key_findings": ["5-8 detailed findings, each 2-3 sentences with concrete data and source citations like [1], [2]"],
    "detailed_analysis": "4-6 comprehensive paragraphs (minimum 400 words) covering market intelligence and trends, business implications, technical specifics where applicable, and stakeholder impact. Cite sources with [1], [2].",
    "market_intelligence": {
        "key_trends": ["rising and declining trends with data"],
        "competitive_landscape": ["market leaders and emerging players with positioning details"],
        "risk_factors": ["risks graded high/medium/low with mitigation notes"],
        "opportunities": ["revenue, expansion, and partnership opportunities"]
    },
    "confidence_level": "high|medium|low, based on source quality and data availability",
    "recommendations": ["6-10 specific, executable recommendations split across immediate (0-30 days), short-term (1-6 months), and long-term (6+ months) horizons"],
    "key_metrics": {
        "financial_data": ["market values, growth rates, revenue impact with source citations"],
        "performance_indicators": ["KPIs and notable statistics with source citations"]
    },
    "strategic_takeaways": ["5 critical observations and business implications"]
}

Requirements:
1. NO placeholders - every field must carry real, specific content from the sources
2. Cite sources with [1], [2], [3] throughout
3. Be specific: actual numbers, percentages, dates, names
4. Do not write "Analysis in progress" or "Details needed" or similar filler

Return ONLY valid JSON without markdown code blocks or explanations.`))

// validationPromptTmpl asks the model to fact-check findings against sources.
var validationPromptTmpl = template.Must(template.New("validation").Parse(`You are a fact-checker. Verify these claims against the sources.

Claims:
{{.Claims}}

Sources:
{{.Sources}}

For each claim, return:
{
    "claim": "the claim",
    "status": "verified|partially_verified|unverified",
    "supporting_sources": [1, 2],
    "confidence": "high|medium|low"
}

Return a JSON array of validations.`))

// renderPrompt executes a prompt template with the given data.
func renderPrompt(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
