// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citecheck/pkg/types"
)

func TestSelectionMapRoundTripJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selection.json")
	m := SelectionMap{"json:1": 2, "json:4": 1}

	require.NoError(t, WriteSelectionMap(path, m))
	loaded, err := LoadSelectionMap(path)
	require.NoError(t, err)
	assert.Equal(t, m, loaded)
}

func TestSelectionMapRoundTripYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selection.yaml")
	m := SelectionMap{"yaml:3": 4}

	require.NoError(t, WriteSelectionMap(path, m))
	loaded, err := LoadSelectionMap(path)
	require.NoError(t, err)
	assert.Equal(t, m, loaded)
}

func TestLoadSelectionMapRejectsBadRanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selection.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"json:1": 0}`), 0o644))

	_, err := LoadSelectionMap(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be >= 1")
}

func TestLoadSelectionMapMissingFile(t *testing.T) {
	_, err := LoadSelectionMap(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestBuildSelectionMap(t *testing.T) {
	results := []types.Result{
		{CitationID: "json:1", Status: types.StatusMatchFound},
		{CitationID: "json:2", Status: types.StatusUnresolved, SelectionRequired: true, RecommendedCandidateRank: 2},
		{CitationID: "json:3", Status: types.StatusCriticalMismatch, SelectionRequired: true, RecommendedCandidateRank: 1},
	}
	m, err := BuildSelectionMap(results)
	require.NoError(t, err)
	assert.Equal(t, SelectionMap{"json:2": 2, "json:3": 1}, m)
}

func TestBuildSelectionMapRejectsMissingRank(t *testing.T) {
	results := []types.Result{
		{CitationID: "json:1", SelectionRequired: true},
	}
	_, err := BuildSelectionMap(results)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recommended_candidate_rank")
}
