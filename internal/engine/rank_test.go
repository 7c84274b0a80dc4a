// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"math"
	"testing"

	"github.com/pdiddy/citecheck/pkg/types"
)

func TestWeightedRankerDedupesByDOI(t *testing.T) {
	ranker := &WeightedRanker{}
	citation := types.Citation{BibFields: types.BibFields{Title: "Alpha"}}

	candidates := []types.Candidate{
		{Strategy: types.MatchedByTitle, ProviderRank: 1, BibFields: types.BibFields{Title: "Alpha", DOI: "10.1/x"}},
		{Strategy: types.MatchedByComposite, ProviderRank: 1, BibFields: types.BibFields{Title: "Alpha variant", DOI: "https://doi.org/10.1/X"}},
		{Strategy: types.MatchedByTitle, ProviderRank: 2, BibFields: types.BibFields{Title: "Alpha"}},
	}
	ranked := ranker.Rank(citation, candidates)

	if len(ranked) != 2 {
		t.Fatalf("got %d candidates after dedupe, want 2", len(ranked))
	}
	// First occurrence of the shared DOI wins.
	for _, c := range ranked {
		if c.Strategy == types.MatchedByComposite {
			t.Errorf("duplicate-DOI candidate survived dedupe")
		}
	}
}

func TestWeightedCompositeRenormalizes(t *testing.T) {
	ranker := &WeightedRanker{}

	// Title is the only provided field, so a perfect title alone scores a
	// perfect composite.
	citation := types.Citation{BibFields: types.BibFields{Title: "Alpha beta gamma"}}
	ranked := ranker.Rank(citation, []types.Candidate{
		{BibFields: types.BibFields{
			Title: "Alpha beta gamma", Journal: "Nature", Year: "2001",
			Authors: []string{"Someone Else"},
		}},
	})
	if got := ranked[0].Composite; got != 1.0 {
		t.Errorf("title-only composite = %f, want 1.0", got)
	}

	// Adding a mismatching year drags the composite down by exactly the
	// renormalized year weight: 0.50/(0.50+0.05).
	citation.Year = "1999"
	ranked = ranker.Rank(citation, []types.Candidate{
		{BibFields: types.BibFields{Title: "Alpha beta gamma", Year: "2001"}},
	})
	want := 0.50 / 0.55
	if got := ranked[0].Composite; math.Abs(got-want) > 1e-9 {
		t.Errorf("title+year composite = %f, want %f", got, want)
	}
}

func TestWeightedCompositeNoProvidedFields(t *testing.T) {
	ranker := &WeightedRanker{}
	citation := types.Citation{}
	ranked := ranker.Rank(citation, []types.Candidate{
		{BibFields: types.BibFields{Title: "Anything"}},
	})
	if got := ranked[0].Composite; got != 0.0 {
		t.Errorf("composite with no provided fields = %f, want 0.0", got)
	}
}

func TestSortByCompositeTieBreaksOnProviderRank(t *testing.T) {
	candidates := []types.Candidate{
		{ProviderRank: 3, Composite: 0.9},
		{ProviderRank: 1, Composite: 0.9},
		{ProviderRank: 2, Composite: 0.95},
	}
	sortByComposite(candidates)

	if candidates[0].Composite != 0.95 {
		t.Fatalf("highest composite not first")
	}
	if candidates[1].ProviderRank != 1 || candidates[2].ProviderRank != 3 {
		t.Errorf("tie not broken by provider rank: got %d then %d",
			candidates[1].ProviderRank, candidates[2].ProviderRank)
	}
}

func TestStrictRankerTitleOnly(t *testing.T) {
	ranker := &StrictRanker{}
	citation := types.Citation{BibFields: types.BibFields{
		Title: "Alpha beta gamma",
		Year:  "1999",
	}}
	ranked := ranker.Rank(citation, []types.Candidate{
		// Better year, worse title: strict ranking must not care.
		{ProviderRank: 1, BibFields: types.BibFields{Title: "Unrelated work", Year: "1999"}},
		{ProviderRank: 2, BibFields: types.BibFields{Title: "Alpha beta gamma", Year: "2005"}},
	})

	if ranked[0].Title != "Alpha beta gamma" {
		t.Errorf("strict ranker did not order by title similarity")
	}
	if ranked[0].Composite != 1.0 {
		t.Errorf("exact title composite = %f, want 1.0", ranked[0].Composite)
	}
}

func TestNewRanker(t *testing.T) {
	if r, err := NewRanker(""); err != nil || r.Name() != "weighted" {
		t.Errorf("empty scheme: got %v, %v; want weighted", r, err)
	}
	if r, err := NewRanker(types.RankingStrict); err != nil || r.Name() != "strict" {
		t.Errorf("strict scheme: got %v, %v", r, err)
	}
	if _, err := NewRanker("bogus"); err == nil {
		t.Errorf("unknown scheme should error")
	}
}
