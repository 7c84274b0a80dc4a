// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compare

import (
	"math"
	"testing"

	"github.com/pdiddy/citecheck/pkg/types"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "abcd", "abcd", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "abcd", "", 0.0},
		{"disjoint", "abcd", "efgh", 0.0},
		{"half", "ab", "abcdab", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ratio(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ratio(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRatioSymmetricRange(t *testing.T) {
	pairs := [][2]string{
		{"anovelsolutionforrouting", "anovelsolutionforrouteing"},
		{"deeplearningfalldetection", "falldetectiondeeplearning"},
	}
	for _, p := range pairs {
		got := ratio(p[0], p[1])
		if got <= 0.0 || got >= 1.0 {
			t.Errorf("ratio(%q, %q) = %f, want strictly inside (0,1)", p[0], p[1], got)
		}
	}
}

func TestTitleSimilarity(t *testing.T) {
	// Case and punctuation differences normalize away entirely.
	if got := TitleSimilarity("A Novel Solution!", "a novel solution"); got != 1.0 {
		t.Errorf("normalized-equal titles = %f, want 1.0", got)
	}
	// A one-letter misspelling stays close to but below 1.0.
	got := TitleSimilarity(
		"A novel solution for routeing a swarm of drones",
		"A novel solution for routing a swarm of drones",
	)
	if got >= 1.0 || got < 0.9 {
		t.Errorf("misspelled title similarity = %f, want in [0.9, 1.0)", got)
	}
	if TitleSimilarity("", "anything") != 0.0 {
		t.Errorf("empty side should score 0")
	}
}

func TestAuthorF1OrderIndependent(t *testing.T) {
	left := []string{"Sengul, Gokhan", "Karakaya, Murat", "Misra, Sanjay"}
	rightA := []string{"Gokhan Sengul", "Murat Karakaya", "Sanjay Misra"}
	rightB := []string{"Sanjay Misra", "Gokhan Sengul", "Murat Karakaya"}

	a := AuthorF1(left, rightA)
	b := AuthorF1(left, rightB)
	if a != b {
		t.Errorf("permuting authors changed F1: %f vs %f", a, b)
	}
	if a != 1.0 {
		t.Errorf("full overlap F1 = %f, want 1.0", a)
	}
}

func TestAuthorF1PartialOverlap(t *testing.T) {
	left := []string{"Savuran, Halil"}
	right := []string{"Halil Savuran", "Murat Karakaya"}
	// 2*1 / (1+2)
	if got := AuthorF1(left, right); math.Abs(got-2.0/3.0) > 1e-9 {
		t.Errorf("partial F1 = %f, want %f", got, 2.0/3.0)
	}
}

func TestAuthorF1Empty(t *testing.T) {
	if AuthorF1(nil, []string{"Someone"}) != 0.0 {
		t.Errorf("empty left should score 0")
	}
	if AuthorF1([]string{"Someone"}, nil) != 0.0 {
		t.Errorf("empty right should score 0")
	}
}

func TestJournalMatch(t *testing.T) {
	tests := []struct {
		name        string
		left, right string
		want        bool
	}{
		{"exact", "Soft Computing", "Soft Computing", true},
		{"case and punctuation", "soft computing.", "Soft Computing", true},
		{"abbreviation containment", "Eng. Appl. Artif. Intell.", "Engineering Applications of Artificial Intelligence", false},
		{"substring containment", "Artificial Intelligence", "Engineering Applications of Artificial Intelligence", true},
		{"unrelated", "Nature", "Soft Computing", false},
		{"empty side", "", "Soft Computing", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JournalMatch(tt.left, tt.right); got != tt.want {
				t.Errorf("JournalMatch(%q, %q) = %v, want %v", tt.left, tt.right, got, tt.want)
			}
		})
	}
}

func TestFieldScoreExactFields(t *testing.T) {
	citation := types.BibFields{
		DOI:   "https://doi.org/10.1/ABC",
		URL:   "https://doi.org/10.1/abc",
		Pages: "2905–2920",
		Year:  "2016",
	}
	candidate := types.BibFields{
		DOI:   "10.1/abc",
		URL:   "https://doi.org/10.1/ABC.",
		Pages: "2905-2920",
		Year:  "2016",
	}
	for _, f := range []types.Field{types.FieldDOI, types.FieldURL, types.FieldPages, types.FieldYear} {
		if got := FieldScore(f, citation, candidate); got != 1.0 {
			t.Errorf("FieldScore(%s) = %f, want 1.0", f, got)
		}
	}

	candidate.Year = "2017"
	if got := FieldScore(types.FieldYear, citation, candidate); got != 0.0 {
		t.Errorf("mismatched year score = %f, want 0.0", got)
	}
}

func TestFieldScoreAbsentSides(t *testing.T) {
	citation := types.BibFields{Year: "2016"}
	candidate := types.BibFields{}
	if got := FieldScore(types.FieldYear, citation, candidate); got != 0.0 {
		t.Errorf("absent upstream year score = %f, want 0.0", got)
	}
}
