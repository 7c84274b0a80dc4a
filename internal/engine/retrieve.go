// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/citecheck/internal/crossref"
	"github.com/pdiddy/citecheck/internal/normalize"
	"github.com/pdiddy/citecheck/pkg/types"
)

// MetadataSource is the provider boundary the engine retrieves candidates
// through. Implementations must honor the context and return an error on
// degradation; the engine never lets a source failure escape a citation.
type MetadataSource interface {
	// LookupDOI fetches the record a normalized DOI resolves to.
	// found is false when the provider does not know the DOI.
	LookupDOI(ctx context.Context, doi string) (fields types.BibFields, found bool, err error)

	// Search issues one bibliographic query and returns hits in the
	// provider's native relevance order.
	Search(ctx context.Context, query string, rows int) ([]SearchHit, error)
}

// SearchHit is one provider search result: converted fields plus the
// provider's native relevance score.
type SearchHit struct {
	Fields types.BibFields
	Score  float64
}

// crossrefSource adapts the Crossref client to the MetadataSource boundary.
type crossrefSource struct {
	client *crossref.Client
}

// NewCrossrefSource wraps a Crossref client as a MetadataSource.
func NewCrossrefSource(client *crossref.Client) MetadataSource {
	return &crossrefSource{client: client}
}

func (s *crossrefSource) LookupDOI(ctx context.Context, doi string) (types.BibFields, bool, error) {
	work, err := s.client.Work(ctx, doi)
	if err == crossref.ErrNotFound {
		return types.BibFields{}, false, nil
	}
	if err != nil {
		return types.BibFields{}, false, err
	}
	return work.ToBibFields(), true, nil
}

func (s *crossrefSource) Search(ctx context.Context, query string, rows int) ([]SearchHit, error) {
	works, err := s.client.Search(ctx, query, rows)
	if err != nil {
		return nil, err
	}
	hits := make([]SearchHit, 0, len(works))
	for _, w := range works {
		hits = append(hits, SearchHit{Fields: w.ToBibFields(), Score: w.Score})
	}
	return hits, nil
}

// strategy is one text-search query recipe. Strategies run sequentially
// per citation; each failure degrades to zero candidates for that
// strategy only.
type strategy struct {
	name  string
	build func(c types.Citation) string
}

// searchStrategies lists the text queries in execution order: a plain
// title query first, then a composite query mixing title, first author
// family name, and venue terms.
var searchStrategies = []strategy{
	{
		name:  types.MatchedByTitle,
		build: func(c types.Citation) string { return strings.TrimSpace(c.Title) },
	},
	{
		name: types.MatchedByComposite,
		build: func(c types.Citation) string {
			if strings.TrimSpace(c.Title) == "" {
				return ""
			}
			parts := []string{strings.TrimSpace(c.Title)}
			if family := firstAuthorFamily(c.Authors); family != "" {
				parts = append(parts, family)
			}
			if strings.TrimSpace(c.Journal) != "" {
				parts = append(parts, strings.TrimSpace(c.Journal))
			}
			if len(parts) == 1 {
				return "" // nothing beyond the title query
			}
			return strings.Join(parts, " ")
		},
	},
}

// firstAuthorFamily extracts the family-name portion of the first author
// whose key is derivable.
func firstAuthorFamily(authors []string) string {
	for _, name := range authors {
		if key := normalize.AuthorKey(name); key != "" {
			return key[:strings.Index(key, ":")]
		}
	}
	return ""
}

// retrieveSearchCandidates runs every applicable search strategy and
// collects raw candidates. Provider failures are reported to w and
// degrade to fewer candidates, never an error.
func retrieveSearchCandidates(ctx context.Context, src MetadataSource, c types.Citation, rows int, w io.Writer) []types.Candidate {
	var candidates []types.Candidate
	for _, s := range searchStrategies {
		query := s.build(c)
		if query == "" {
			continue
		}
		hits, err := src.Search(ctx, query, rows)
		if err != nil {
			fmt.Fprintf(w, "warning: %s: %s query failed: %v\n", c.ID, s.name, err)
			continue
		}
		for i, hit := range hits {
			candidates = append(candidates, types.Candidate{
				Strategy:      s.name,
				ProviderRank:  i + 1,
				ProviderScore: hit.Score,
				BibFields:     hit.Fields,
			})
		}
	}
	return candidates
}
