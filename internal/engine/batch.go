// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citecheck/pkg/types"
)

// batchEnvelope accepts either a bare array of citations or an object
// wrapping it under "citations".
type batchEnvelope struct {
	Citations []types.Citation `json:"citations" yaml:"citations"`
}

// LoadBatch reads a canonical citation batch from a JSON or YAML file.
// The batch must be non-empty and citation IDs unique; both violations
// are batch-level configuration errors. Citations without an ID are
// assigned "<format>:<index>".
func LoadBatch(path string) ([]types.Citation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch: %w", err)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	citations, err := decodeBatch(data, ext)
	if err != nil {
		return nil, fmt.Errorf("parsing batch %s: %w", path, err)
	}
	if len(citations) == 0 {
		return nil, fmt.Errorf("no parseable citations in %s", path)
	}

	seen := make(map[string]bool, len(citations))
	for i := range citations {
		if citations[i].SourceFormat == "" {
			citations[i].SourceFormat = defaultFormat(ext)
		}
		if strings.TrimSpace(citations[i].ID) == "" {
			citations[i].ID = fmt.Sprintf("%s:%d", citations[i].SourceFormat, i+1)
		}
		if seen[citations[i].ID] {
			return nil, fmt.Errorf("duplicate citation ID %q in batch", citations[i].ID)
		}
		seen[citations[i].ID] = true
	}
	return citations, nil
}

func decodeBatch(data []byte, ext string) ([]types.Citation, error) {
	if ext == "yaml" || ext == "yml" {
		var list []types.Citation
		if err := yaml.Unmarshal(data, &list); err == nil && list != nil {
			return list, nil
		}
		var envelope batchEnvelope
		if err := yaml.Unmarshal(data, &envelope); err != nil {
			return nil, err
		}
		return envelope.Citations, nil
	}

	var list []types.Citation
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var envelope batchEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	return envelope.Citations, nil
}

func defaultFormat(ext string) string {
	switch ext {
	case "yaml", "yml":
		return "yaml"
	default:
		return "json"
	}
}

// WriteResults encodes the ordered result batch as JSON (default) or
// YAML to w.
func WriteResults(w io.Writer, results []types.Result, asYAML bool) error {
	if asYAML {
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(results)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// LoadResults reads a previously written result batch (JSON or YAML by
// extension), as needed to build a selection map.
func LoadResults(path string) ([]types.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results: %w", err)
	}

	var results []types.Result
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &results)
	default:
		err = json.Unmarshal(data, &results)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing results %s: %w", path, err)
	}
	return results, nil
}
