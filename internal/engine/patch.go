// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"sort"

	"github.com/pdiddy/citecheck/internal/normalize"
	"github.com/pdiddy/citecheck/pkg/types"
)

// BuildPatch synthesizes the minimal correction from a field assessment:
// set every missing/incorrect/conflicting field whose upstream value is
// non-empty; unset every incorrect/conflicting field the input provided
// but the upstream record lacks. Pure: the same assessment always yields
// the same patch.
func BuildPatch(assessment types.Assessment) types.Patch {
	patch := types.Patch{Set: make(map[types.Field]any)}
	unset := make(map[types.Field]bool)

	for _, f := range types.AllFields {
		check, ok := assessment[f]
		if !ok {
			continue
		}
		needsValue := check.State == types.StateMissing ||
			check.State == types.StateIncorrect ||
			check.State == types.StateConflict
		wrongValue := check.State == types.StateIncorrect ||
			check.State == types.StateConflict

		switch {
		case needsValue && !valueEmpty(check.Upstream):
			patch.Set[f] = copyValue(check.Upstream)
		case wrongValue && !valueEmpty(check.Provided):
			unset[f] = true
		}
	}

	for f := range unset {
		patch.Unset = append(patch.Unset, f)
	}
	sort.Slice(patch.Unset, func(i, j int) bool { return patch.Unset[i] < patch.Unset[j] })
	return patch
}

// ApplyPatch applies a correction patch to a record and returns the
// corrected fields. Unsets run before sets; fields the patch does not
// mention are untouched. Post-patch, a record with a DOI but no URL gets
// the canonical resolver URL derived from the normalized DOI. Applying
// the same patch twice yields the same record as applying it once.
func ApplyPatch(fields types.BibFields, patch types.Patch) types.BibFields {
	out := fields
	out.Authors = append([]string(nil), fields.Authors...)

	for _, f := range patch.Unset {
		out.Set(f, nil)
	}
	for f, value := range patch.Set {
		out.Set(f, copyValue(value))
	}

	if out.DOI != "" && out.URL == "" {
		if doi := normalize.DOI(out.DOI); doi != "" {
			out.URL = "https://doi.org/" + doi
		}
	}
	return out
}

// valueEmpty reports whether a patch value (string or []string) is absent.
func valueEmpty(value any) bool {
	switch v := value.(type) {
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	default:
		return value == nil
	}
}

// copyValue clones slice values so patches never alias record storage.
func copyValue(value any) any {
	if list, ok := value.([]string); ok {
		return append([]string(nil), list...)
	}
	return value
}
