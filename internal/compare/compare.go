// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compare computes per-field similarity signals between a citation
// and a retrieved record. Every comparator is deterministic and
// side-effect-free; the thresholds are fixed design constants.
package compare

import (
	"strings"

	"github.com/pdiddy/citecheck/internal/normalize"
	"github.com/pdiddy/citecheck/pkg/types"
)

// journalSimilarityThreshold is the fallback sequence-similarity floor for
// journal names that are neither equal nor abbreviations of each other.
const journalSimilarityThreshold = 0.78

// TitleSimilarity scores two titles in [0,1] over their normalized
// comparison text. Either side empty scores 0.
func TitleSimilarity(left, right string) float64 {
	l := normalize.Text(left)
	r := normalize.Text(right)
	if l == "" || r == "" {
		return 0.0
	}
	return ratio(l, r)
}

// AuthorF1 computes the set-F1 overlap of the two author lists' key sets:
// 2*|intersection| / (|left|+|right|). Order-independent; empty either
// side scores 0.
func AuthorF1(left, right []string) float64 {
	l := normalize.AuthorKeySet(left)
	r := normalize.AuthorKeySet(right)
	if len(l) == 0 || len(r) == 0 {
		return 0.0
	}
	inter := 0
	for key := range l {
		if r[key] {
			inter++
		}
	}
	if inter == 0 {
		return 0.0
	}
	return 2.0 * float64(inter) / float64(len(l)+len(r))
}

// JournalMatch reports whether two venue names refer to the same journal:
// normalized equality, containment (abbreviation tolerance), or sequence
// similarity at or above the threshold.
func JournalMatch(left, right string) bool {
	l := normalize.Text(left)
	r := normalize.Text(right)
	if l == "" || r == "" {
		return false
	}
	if l == r {
		return true
	}
	if strings.Contains(l, r) || strings.Contains(r, l) {
		return true
	}
	return ratio(l, r) >= journalSimilarityThreshold
}

// FieldScore computes the [0,1] similarity for one field between a
// citation and a candidate: probabilistic for titles and author sets,
// binary on normalized equality for everything else.
func FieldScore(f types.Field, citation, candidate types.BibFields) float64 {
	switch f {
	case types.FieldTitle:
		return TitleSimilarity(citation.Title, candidate.Title)
	case types.FieldAuthors:
		return AuthorF1(citation.Authors, candidate.Authors)
	case types.FieldJournal:
		if JournalMatch(citation.Journal, candidate.Journal) {
			return 1.0
		}
		return 0.0
	case types.FieldDOI:
		return equality(normalize.DOI(citation.DOI), normalize.DOI(candidate.DOI))
	case types.FieldURL:
		return equality(normalize.URL(citation.URL), normalize.URL(candidate.URL))
	case types.FieldPages:
		return equality(normalize.Pages(citation.Pages), normalize.Pages(candidate.Pages))
	case types.FieldYear, types.FieldVolume, types.FieldIssue:
		return equality(normalize.Str(asText(citation.Get(f))), normalize.Str(asText(candidate.Get(f))))
	default:
		return 0.0
	}
}

func equality(left, right string) float64 {
	if left == "" || right == "" {
		return 0.0
	}
	if left == right {
		return 1.0
	}
	return 0.0
}

func asText(value any) string {
	s, _ := value.(string)
	return s
}
