// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/meshintel/deepresearch/internal/jsonx"
	"github.com/meshintel/deepresearch/pkg/types"
)

// validationContentLimit caps the source text shown to the fact-checker.
const validationContentLimit = 300

// validationWarning is carried into report metadata when the stage fails.
const validationWarning = "Fact validation incomplete"

// validateFacts asks the model to classify each key finding as verified,
// partially verified, or unverified against the top sources. The stage is
// non-fatal: any failure yields an empty validation with a warning marker.
func (e *Engine) validateFacts(ctx context.Context, synthesis types.Synthesis, results []types.SearchResult) types.Validation {
	if len(synthesis.KeyFindings) == 0 {
		return types.Validation{}
	}

	claimsJSON, err := json.MarshalIndent(synthesis.KeyFindings, "", "  ")
	if err != nil {
		e.logger.Warn("fact validation failed", zap.Error(err))
		return types.Validation{Warnings: []string{validationWarning}}
	}

	var b strings.Builder
	for i, r := range firstN(results, validationSourceLimit) {
		fmt.Fprintf(&b, "[%d] %s\n\n", i+1, truncate(r.Content, validationContentLimit))
	}

	prompt, err := renderPrompt(validationPromptTmpl, struct {
		Claims  string
		Sources string
	}{Claims: string(claimsJSON), Sources: strings.TrimSpace(b.String())})
	if err != nil {
		e.logger.Warn("fact validation prompt failed", zap.Error(err))
		return types.Validation{Warnings: []string{validationWarning}}
	}

	response, err := e.llm.Complete(ctx, prompt, validationTemperature, validationMaxTokens)
	if err != nil {
		e.logger.Warn("fact validation failed", zap.Error(err))
		return types.Validation{Warnings: []string{validationWarning}}
	}

	var claims []types.ClaimValidation
	if err := jsonx.Unmarshal(response, &claims); err != nil {
		e.logger.Warn("fact validation returned unparseable output", zap.Error(err))
		return types.Validation{Warnings: []string{validationWarning}}
	}

	e.logger.Info("fact validation complete", zap.Int("claims", len(claims)))
	return types.Validation{ValidatedClaims: claims}
}
