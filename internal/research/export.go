// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meshintel/deepresearch/pkg/types"
)

// exportData is the artifact handed to the downstream slide generator.
type exportData struct {
	Query     string                `json:"query"`
	Synthesis types.Synthesis       `json:"synthesis"`
	Sources   []types.SourceSummary `json:"sources"`
	Markdown  string                `json:"markdown"`
}

// exportArtifact serializes the research outcome to a JSON file for slide
// generation and returns its path.
func (e *Engine) exportArtifact(query string, synthesis types.Synthesis, results []types.SearchResult, markdown string) (string, error) {
	dir := e.cfg.Export.Dir
	if dir == "" {
		dir = "exports"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	sources := make([]types.SourceSummary, 0, exportSourceLimit)
	for _, r := range firstN(results, exportSourceLimit) {
		sources = append(sources, r.Summarize())
	}

	data := exportData{
		Query:     query,
		Synthesis: synthesis,
		Sources:   sources,
		Markdown:  markdown,
	}

	name := fmt.Sprintf("research_%s_%s.json",
		e.now().Format("20060102_150405"), uuid.NewString()[:8])
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return "", fmt.Errorf("writing export file: %w", err)
	}

	e.logger.Info("exported research artifact", zap.String("path", path))
	return path, nil
}
