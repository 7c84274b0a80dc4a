// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"sort"
	"strings"

	"github.com/pdiddy/citecheck/internal/compare"
	"github.com/pdiddy/citecheck/internal/normalize"
	"github.com/pdiddy/citecheck/pkg/types"
)

// AssessFields classifies every tracked field of the citation against the
// accepted upstream record. Exactly one state holds per field: missing
// (absent in input), correct, incorrect (non-critical mismatch), or
// conflict (critical mismatch).
func AssessFields(citation types.Citation, upstream types.BibFields, critical map[types.Field]bool) types.Assessment {
	assessment := make(types.Assessment, len(types.AllFields))
	for _, f := range types.AllFields {
		if f == types.FieldAuthors {
			assessment[f] = assessAuthors(citation.Authors, upstream.Authors, critical[f])
		} else {
			assessment[f] = assessScalar(f, citation.BibFields, upstream, critical[f])
		}
	}
	return assessment
}

// assessAuthors compares author lists by key set rather than display
// strings. A provided list that is a subset of the upstream list counts
// as missing authors, not a mismatch.
func assessAuthors(provided, upstream []string, critical bool) types.FieldCheck {
	check := types.FieldCheck{
		Provided: providedAuthors(provided),
		Upstream: providedAuthors(upstream),
		Critical: critical,
	}

	if len(provided) == 0 {
		if len(upstream) > 0 {
			check.State = types.StateMissing
		} else {
			check.State = types.StateCorrect
		}
		return check
	}
	if len(upstream) == 0 {
		check.State = types.StateCorrect
		return check
	}

	providedSet := normalize.AuthorKeySet(provided)
	upstreamSet := normalize.AuthorKeySet(upstream)

	check.MissingFromProvided = namesForKeys(upstream, diffKeys(upstreamSet, providedSet))
	check.ExtraInProvided = namesForKeys(provided, diffKeys(providedSet, upstreamSet))

	switch {
	case setsEqual(providedSet, upstreamSet) && len(providedSet) > 0:
		check.State = types.StateCorrect
		check.Match = boolPtr(true)
	case isSubset(providedSet, upstreamSet):
		check.State = types.StateMissing
		check.Match = boolPtr(false)
	case critical:
		check.State = types.StateConflict
		check.Match = boolPtr(false)
	default:
		check.State = types.StateIncorrect
		check.Match = boolPtr(false)
	}
	return check
}

// assessScalar classifies one scalar field using its normalized comparison.
func assessScalar(f types.Field, citation, upstream types.BibFields, critical bool) types.FieldCheck {
	provided, _ := citation.Get(f).(string)
	up, _ := upstream.Get(f).(string)

	check := types.FieldCheck{
		Provided: provided,
		Upstream: up,
		Critical: critical,
	}

	if strings.TrimSpace(provided) == "" {
		if strings.TrimSpace(up) != "" {
			check.State = types.StateMissing
		} else {
			check.State = types.StateCorrect
		}
		return check
	}
	if strings.TrimSpace(up) == "" {
		check.State = types.StateCorrect
		return check
	}

	match := scalarMatch(f, provided, up)
	check.Match = boolPtr(match)
	switch {
	case match:
		check.State = types.StateCorrect
	case critical && !correctableTitle(f, provided, up):
		check.State = types.StateConflict
	default:
		check.State = types.StateIncorrect
	}
	return check
}

// titleCorrectableThreshold separates a spelling slip from a different
// work: a mismatching title at or above this similarity is corrected in
// place instead of escalating the citation.
const titleCorrectableThreshold = 0.85

func correctableTitle(f types.Field, provided, upstream string) bool {
	if f != types.FieldTitle {
		return false
	}
	return compare.TitleSimilarity(provided, upstream) >= titleCorrectableThreshold
}

// scalarMatch applies the per-field normalized equality rule.
func scalarMatch(f types.Field, provided, upstream string) bool {
	switch f {
	case types.FieldDOI:
		return normalize.DOI(provided) == normalize.DOI(upstream)
	case types.FieldTitle:
		return normalize.Text(provided) == normalize.Text(upstream)
	case types.FieldJournal:
		return compare.JournalMatch(provided, upstream)
	case types.FieldPages:
		return normalize.Pages(provided) == normalize.Pages(upstream)
	case types.FieldURL:
		return normalize.Str(provided) == normalize.Str(upstream)
	default: // volume, issue, year
		return strings.TrimSpace(provided) == strings.TrimSpace(upstream)
	}
}

// fallbackAssessment classifies fields for an unresolved citation: no
// upstream record exists, so provided fields are correct and absent ones
// missing.
func fallbackAssessment(citation types.Citation, critical map[types.Field]bool) types.Assessment {
	assessment := make(types.Assessment, len(types.AllFields))
	for _, f := range types.AllFields {
		state := types.StateCorrect
		if citation.IsMissing(f) {
			state = types.StateMissing
		}
		check := types.FieldCheck{
			State:    state,
			Provided: citation.Get(f),
			Critical: critical[f],
		}
		if f == types.FieldAuthors {
			check.Provided = providedAuthors(citation.Authors)
		}
		assessment[f] = check
	}
	return assessment
}

// DetermineStatus reduces a field assessment to the citation-level
// status: any critical conflict escalates, any missing or incorrect
// field means the citation was corrected, otherwise the match is clean.
func DetermineStatus(assessment types.Assessment) types.Status {
	for _, check := range assessment {
		if check.Critical && check.State == types.StateConflict {
			return types.StatusCriticalMismatch
		}
	}
	for _, check := range assessment {
		if check.State == types.StateMissing || check.State == types.StateIncorrect {
			return types.StatusCorrected
		}
	}
	return types.StatusMatchFound
}

// RequiredInputs lists the minimum additional inputs the caller should
// supply to retry an unresolved citation. An input already provided is
// not requested again; when everything was provided, the full list is
// returned as a re-check prompt.
func RequiredInputs(citation types.Citation) []string {
	var required []string
	if citation.DOI == "" {
		required = append(required, "DOI")
	}
	if citation.Title == "" {
		required = append(required, "full exact title")
	}
	if len(citation.Authors) == 0 {
		required = append(required, "full author list")
	}
	if citation.Journal == "" {
		required = append(required, "venue/journal name")
	}
	if citation.Year == "" {
		required = append(required, "publication year")
	}
	if len(required) == 0 {
		required = []string{"DOI", "full exact title", "full author list", "venue/journal name", "publication year"}
	}
	return required
}

func boolPtr(b bool) *bool { return &b }

// providedAuthors keeps author lists non-nil in serialized output.
func providedAuthors(authors []string) []string {
	if authors == nil {
		return []string{}
	}
	return authors
}

func setsEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func isSubset(a, b map[string]bool) bool {
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// diffKeys returns the keys of a absent from b, sorted.
func diffKeys(a, b map[string]bool) []string {
	var keys []string
	for k := range a {
		if !b[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// namesForKeys maps author keys back to the first display name that
// produced each key.
func namesForKeys(names []string, keys []string) []string {
	byKey := make(map[string]string, len(names))
	for _, name := range names {
		key := normalize.AuthorKey(name)
		if key != "" {
			if _, ok := byKey[key]; !ok {
				byKey[key] = name
			}
		}
	}
	var out []string
	for _, k := range keys {
		if name, ok := byKey[k]; ok {
			out = append(out, name)
		}
	}
	return out
}
