// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	_ "embed"
	"strings"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/meshintel/deepresearch/internal/jsonx"
)

//go:embed rules.yaml
var rulesYAML []byte

// disambiguationRule rewrites queries whose terms collide with unrelated
// common-language meanings. The table is fixed data, not model-driven.
type disambiguationRule struct {
	Term            string   `yaml:"term"`
	ContextKeywords []string `yaml:"context_keywords"`
	SkipKeywords    []string `yaml:"skip_keywords"`
	Replace         string   `yaml:"replace"`
	Append          string   `yaml:"append"`
}

type ruleFile struct {
	Rules []disambiguationRule `yaml:"rules"`
}

// disambiguationRules is loaded once at init from the embedded table.
var disambiguationRules = mustLoadRules()

func mustLoadRules() []disambiguationRule {
	var f ruleFile
	if err := yaml.Unmarshal(rulesYAML, &f); err != nil {
		panic("research: invalid embedded rules.yaml: " + err.Error())
	}
	return f.Rules
}

// expandQuery asks the model for 3-5 alternative search phrasings and
// refines each with the disambiguation table. On any model or parse
// failure it falls back to the refined original query alone.
func (e *Engine) expandQuery(ctx context.Context, query string) []string {
	prompt, err := renderPrompt(expandPromptTmpl, struct{ Query string }{Query: query})
	if err != nil {
		e.logger.Warn("query expansion prompt failed, using original", zap.Error(err))
		return []string{refineQuery(query)}
	}

	response, err := e.llm.Complete(ctx, prompt, expandTemperature, expandMaxTokens)
	if err != nil {
		e.logger.Warn("query expansion failed, using original", zap.Error(err))
		return []string{refineQuery(query)}
	}

	var queries []string
	if err := jsonx.Unmarshal(response, &queries); err != nil || len(queries) == 0 {
		e.logger.Warn("query expansion returned unparseable output, using original")
		return []string{refineQuery(query)}
	}

	if len(queries) > maxExpandedQueries {
		queries = queries[:maxExpandedQueries]
	}
	for i := range queries {
		queries[i] = refineQuery(queries[i])
	}

	e.logger.Info("query expanded", zap.Int("queries", len(queries)))
	return queries
}

// refineQuery applies the disambiguation rule table to one query.
func refineQuery(query string) string {
	refined := query
	lower := strings.ToLower(query)

	for _, rule := range disambiguationRules {
		if !strings.Contains(lower, rule.Term) {
			continue
		}
		if !containsAny(lower, rule.ContextKeywords) {
			continue
		}
		if containsAny(lower, rule.SkipKeywords) {
			continue
		}

		if rule.Replace != "" {
			refined = replaceFold(refined, rule.Term, rule.Replace)
		}
		if rule.Append != "" {
			refined = refined + " " + rule.Append
		}
	}

	return strings.TrimSpace(refined)
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// replaceFold replaces every case-insensitive occurrence of old with new.
func replaceFold(s, old, new string) string {
	lower := strings.ToLower(s)
	oldLower := strings.ToLower(old)

	var b strings.Builder
	for {
		idx := strings.Index(lower, oldLower)
		if idx < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:idx])
		b.WriteString(new)
		s = s[idx+len(old):]
		lower = lower[idx+len(oldLower):]
	}
}
