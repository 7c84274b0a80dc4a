// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"
	"sort"

	"github.com/pdiddy/citecheck/internal/compare"
	"github.com/pdiddy/citecheck/internal/normalize"
	"github.com/pdiddy/citecheck/pkg/types"
)

// Ranker orders candidates for one citation. Implementations are
// deterministic: the same inputs always produce the same order.
type Ranker interface {
	Name() string
	Rank(citation types.Citation, candidates []types.Candidate) []types.Candidate
}

// NewRanker returns the ranker for a configured scheme.
func NewRanker(scheme types.RankingScheme) (Ranker, error) {
	switch scheme {
	case types.RankingWeighted, "":
		return &WeightedRanker{}, nil
	case types.RankingStrict:
		return &StrictRanker{}, nil
	default:
		return nil, fmt.Errorf("unknown ranking scheme %q", scheme)
	}
}

// scoredFields are the fields contributing to the composite score.
var scoredFields = []types.Field{
	types.FieldTitle, types.FieldAuthors, types.FieldJournal,
	types.FieldYear, types.FieldDOI, types.FieldURL,
}

// compositeWeights is the fixed weighting of per-field similarities:
// title dominates, then authors, then journal; year, doi, and url are
// minor contributors. Weights for fields absent from the input citation
// are dropped and the rest renormalized, so a citation without (say) a
// URL is not penalized for the candidate having one.
var compositeWeights = map[types.Field]float64{
	types.FieldTitle:   0.50,
	types.FieldAuthors: 0.25,
	types.FieldJournal: 0.15,
	types.FieldYear:    0.05,
	types.FieldDOI:     0.03,
	types.FieldURL:     0.02,
}

// WeightedRanker deduplicates candidates by DOI and orders them by the
// weighted composite of per-field similarity scores.
type WeightedRanker struct{}

func (r *WeightedRanker) Name() string { return "weighted" }

func (r *WeightedRanker) Rank(citation types.Citation, candidates []types.Candidate) []types.Candidate {
	ranked := dedupeByDOI(candidates)

	for i := range ranked {
		components := make(map[types.Field]float64, len(scoredFields))
		for _, f := range scoredFields {
			components[f] = compare.FieldScore(f, citation.BibFields, ranked[i].BibFields)
		}
		ranked[i].Components = components
		ranked[i].Composite = weightedComposite(citation.BibFields, components)
	}

	sortByComposite(ranked)
	return ranked
}

// StrictRanker is the historical single-signal scheme: candidates are
// ordered by title similarity alone.
type StrictRanker struct{}

func (r *StrictRanker) Name() string { return "strict" }

func (r *StrictRanker) Rank(citation types.Citation, candidates []types.Candidate) []types.Candidate {
	ranked := dedupeByDOI(candidates)

	for i := range ranked {
		score := compare.TitleSimilarity(citation.Title, ranked[i].Title)
		ranked[i].Components = map[types.Field]float64{types.FieldTitle: score}
		ranked[i].Composite = score
	}

	sortByComposite(ranked)
	return ranked
}

// dedupeByDOI drops candidates whose normalized DOI was already seen.
// First occurrence wins; candidates without a DOI are kept as-is.
func dedupeByDOI(candidates []types.Candidate) []types.Candidate {
	seen := make(map[string]bool, len(candidates))
	deduped := make([]types.Candidate, 0, len(candidates))
	for _, c := range candidates {
		key := normalize.DOI(c.DOI)
		if key != "" {
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		deduped = append(deduped, c)
	}
	return deduped
}

// weightedComposite combines component scores, counting weight only for
// fields present in the input citation.
func weightedComposite(citation types.BibFields, components map[types.Field]float64) float64 {
	var sum, totalWeight float64
	for _, f := range scoredFields {
		if citation.IsMissing(f) {
			continue
		}
		w := compositeWeights[f]
		sum += w * components[f]
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0.0
	}
	return sum / totalWeight
}

// sortByComposite orders descending by composite score, breaking ties by
// the provider's native rank and then insertion order (stable).
func sortByComposite(candidates []types.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Composite != candidates[j].Composite {
			return candidates[i].Composite > candidates[j].Composite
		}
		return candidates[i].ProviderRank < candidates[j].ProviderRank
	})
}
