// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the citecheck engine:
// the canonical citation record, retrieved candidates, field assessments,
// correction patches, and per-citation results.
package types

// Field names the engine tracks on every record. The set is fixed so that
// assessment, patching, and serialization stay exhaustive.
type Field string

const (
	FieldAuthors Field = "authors"
	FieldTitle   Field = "title"
	FieldJournal Field = "journal"
	FieldVolume  Field = "volume"
	FieldIssue   Field = "issue"
	FieldPages   Field = "pages"
	FieldYear    Field = "year"
	FieldDOI     Field = "doi"
	FieldURL     Field = "url"
)

// AllFields lists every tracked field in assessment order.
var AllFields = []Field{
	FieldAuthors, FieldTitle, FieldJournal, FieldVolume, FieldIssue,
	FieldPages, FieldYear, FieldDOI, FieldURL,
}

// DefaultCriticalFields are the fields whose mismatch against an accepted
// match escalates the citation status to critical_mismatch.
var DefaultCriticalFields = []Field{
	FieldTitle, FieldDOI, FieldAuthors, FieldJournal, FieldYear,
}

// BibFields holds the bibliographic fields shared by citations and
// candidates. Empty string (or empty Authors slice) means absent.
type BibFields struct {
	Authors []string `json:"authors" yaml:"authors"`
	Title   string   `json:"title,omitempty" yaml:"title,omitempty"`
	Journal string   `json:"journal,omitempty" yaml:"journal,omitempty"`
	Volume  string   `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue   string   `json:"issue,omitempty" yaml:"issue,omitempty"`
	Pages   string   `json:"pages,omitempty" yaml:"pages,omitempty"`
	Year    string   `json:"year,omitempty" yaml:"year,omitempty"`
	DOI     string   `json:"doi,omitempty" yaml:"doi,omitempty"`
	URL     string   `json:"url,omitempty" yaml:"url,omitempty"`
}

// Get returns the value of the named field: a string for scalar fields,
// a []string for authors.
func (b BibFields) Get(f Field) any {
	switch f {
	case FieldAuthors:
		return b.Authors
	case FieldTitle:
		return b.Title
	case FieldJournal:
		return b.Journal
	case FieldVolume:
		return b.Volume
	case FieldIssue:
		return b.Issue
	case FieldPages:
		return b.Pages
	case FieldYear:
		return b.Year
	case FieldDOI:
		return b.DOI
	case FieldURL:
		return b.URL
	default:
		return nil
	}
}

// Set assigns value to the named field. A nil value clears the field.
func (b *BibFields) Set(f Field, value any) {
	switch f {
	case FieldAuthors:
		if list, ok := value.([]string); ok {
			b.Authors = list
		} else {
			b.Authors = nil
		}
	case FieldTitle:
		b.Title = asString(value)
	case FieldJournal:
		b.Journal = asString(value)
	case FieldVolume:
		b.Volume = asString(value)
	case FieldIssue:
		b.Issue = asString(value)
	case FieldPages:
		b.Pages = asString(value)
	case FieldYear:
		b.Year = asString(value)
	case FieldDOI:
		b.DOI = asString(value)
	case FieldURL:
		b.URL = asString(value)
	}
}

func asString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

// IsMissing reports whether the named field is absent.
func (b BibFields) IsMissing(f Field) bool {
	if f == FieldAuthors {
		return len(b.Authors) == 0
	}
	return asString(b.Get(f)) == ""
}

// Citation is the caller-supplied bibliographic claim. The ID is opaque
// and must be unique within a batch. SourceFormat tags the original input
// format (json, csv, txt, md, tex, bib) so the corrected reference can be
// rendered in kind. Citations are immutable once parsed.
type Citation struct {
	ID           string `json:"citation_id" yaml:"citation_id"`
	SourceFormat string `json:"source_format" yaml:"source_format"`
	Raw          string `json:"raw_record,omitempty" yaml:"raw_record,omitempty"`
	// BibKey preserves the upstream \bibitem key for TeX rendering.
	BibKey string `json:"bibitem_key,omitempty" yaml:"bibitem_key,omitempty"`

	BibFields `yaml:",inline"`
}

// Candidate is one retrieved metadata record considered as a potential
// match. Candidates are value objects created per lookup; only the ones
// surfaced in a Result outlive ranking.
type Candidate struct {
	// Strategy names the query that produced this candidate
	// (doi, title, title_author_journal).
	Strategy string `json:"strategy" yaml:"strategy"`

	// ProviderRank is the 1-based position in the provider's own result
	// ordering for the producing query.
	ProviderRank int `json:"provider_rank" yaml:"provider_rank"`

	// ProviderScore is the provider's native relevance score, if any.
	ProviderScore float64 `json:"provider_score,omitempty" yaml:"provider_score,omitempty"`

	BibFields `yaml:",inline"`

	// Components holds the per-field similarity scores against the input
	// citation, populated by the ranker.
	Components map[Field]float64 `json:"component_scores,omitempty" yaml:"component_scores,omitempty"`

	// Composite is the weighted combination of component scores.
	Composite float64 `json:"composite_score" yaml:"composite_score"`
}
