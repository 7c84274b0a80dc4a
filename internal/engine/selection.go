// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citecheck/pkg/types"
)

// SelectionMap maps citation ID to the human-chosen 1-based candidate
// rank. It is produced from a first-pass result batch and consumed on a
// second pass over the same input; the engine reads it, never writes it.
type SelectionMap map[string]int

// LoadSelectionMap reads a selection map from a JSON or YAML file
// (decided by extension) and validates every rank. An unreadable or
// invalid map is a batch-level configuration error.
func LoadSelectionMap(path string) (SelectionMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading selection map: %w", err)
	}

	m := make(SelectionMap)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	default:
		err = json.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing selection map %s: %w", path, err)
	}

	for id, rank := range m {
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("selection map entry with empty citation ID")
		}
		if rank < 1 {
			return nil, fmt.Errorf("selection map rank for %q must be >= 1, got %d", id, rank)
		}
	}
	return m, nil
}

// BuildSelectionMap produces the second-pass selection map from
// first-pass results: every result flagged selection_required contributes
// its recommended candidate rank.
func BuildSelectionMap(results []types.Result) (SelectionMap, error) {
	m := make(SelectionMap)
	for _, r := range results {
		if !r.SelectionRequired {
			continue
		}
		if strings.TrimSpace(r.CitationID) == "" {
			return nil, fmt.Errorf("result with selection_required is missing citation_id")
		}
		if r.RecommendedCandidateRank < 1 {
			return nil, fmt.Errorf("missing recommended_candidate_rank for citation %q", r.CitationID)
		}
		m[r.CitationID] = r.RecommendedCandidateRank
	}
	return m, nil
}

// WriteSelectionMap writes the map as JSON or YAML, decided by extension.
func WriteSelectionMap(path string, m SelectionMap) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(m)
	default:
		data, err = json.MarshalIndent(m, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding selection map: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing selection map: %w", err)
	}
	return nil
}
