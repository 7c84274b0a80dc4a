// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Status is the citation-level outcome of one validation pass.
type Status string

const (
	// StatusMatchFound means every provided field agrees with the
	// accepted upstream record.
	StatusMatchFound Status = "match_found"

	// StatusCorrected means a match was accepted and at least one field
	// was missing or incorrect, but none conflicted critically.
	StatusCorrected Status = "corrected"

	// StatusCriticalMismatch means a critical field conflicts with the
	// accepted upstream record.
	StatusCriticalMismatch Status = "critical_mismatch"

	// StatusUnresolved means no candidate was accepted.
	StatusUnresolved Status = "unresolved"
)

// FieldState classifies one field of an assessed citation. Exactly one
// state holds per field.
type FieldState string

const (
	// StateCorrect: provided and upstream agree, or nothing upstream to
	// compare against.
	StateCorrect FieldState = "correct"

	// StateMissing: absent in the input.
	StateMissing FieldState = "missing"

	// StateIncorrect: provided, mismatching, non-critical.
	StateIncorrect FieldState = "incorrect"

	// StateConflict: provided, mismatching, critical.
	StateConflict FieldState = "conflict"
)

// Matched-by provenance values.
const (
	MatchedByDOI          = "doi"
	MatchedByTitle        = "title"
	MatchedByComposite    = "title_author_journal"
	MatchedBySelectionMap = "selection_map"
	MatchedByNone         = "none"
)

// Selection reasons attached when SelectionRequired is raised or a
// citation stays unresolved.
const (
	ReasonAmbiguousTop2    = "ambiguous_top2"
	ReasonDOITitleConflict = "doi_title_conflict"
	ReasonBelowThreshold   = "below_threshold"
	ReasonNoMetadata       = "insufficient_metadata"
)

// FieldCheck is the assessment of a single field. Provided and Upstream
// hold a string for scalar fields or a []string for authors.
type FieldCheck struct {
	State    FieldState `json:"state" yaml:"state"`
	Provided any        `json:"provided" yaml:"provided"`
	Upstream any        `json:"crossref" yaml:"crossref"`
	Critical bool       `json:"critical" yaml:"critical"`

	// Match is nil when no comparison happened (either side absent).
	Match *bool `json:"match" yaml:"match"`

	// Author-only detail: display names present upstream but absent from
	// the input, and vice versa.
	MissingFromProvided []string `json:"missing_from_provided,omitempty" yaml:"missing_from_provided,omitempty"`
	ExtraInProvided     []string `json:"extra_in_provided,omitempty" yaml:"extra_in_provided,omitempty"`
}

// Assessment maps each tracked field to its check.
type Assessment map[Field]FieldCheck

// Patch is the minimal correction transforming a record toward the
// accepted match. Set values are strings, or []string for authors.
// Applying a patch is idempotent and touches only the named fields.
type Patch struct {
	Set   map[Field]any `json:"set" yaml:"set"`
	Unset []Field       `json:"unset" yaml:"unset"`
}

// Confidence carries the match-quality metadata for a result.
type Confidence struct {
	TitleScore     *float64 `json:"title_score,omitempty" yaml:"title_score,omitempty"`
	CompositeScore *float64 `json:"composite_score,omitempty" yaml:"composite_score,omitempty"`
	CandidateRank  *int     `json:"candidate_rank,omitempty" yaml:"candidate_rank,omitempty"`
}

// Reference is a rendered corrected citation in the source format.
type Reference struct {
	Format string `json:"format" yaml:"format"`
	Text   string `json:"text" yaml:"text"`
}

// Result is the per-citation output of one engine pass. Created once,
// never mutated after construction.
type Result struct {
	CitationID   string     `json:"citation_id" yaml:"citation_id"`
	SourceFormat string     `json:"source_format" yaml:"source_format"`
	Status       Status     `json:"status" yaml:"status"`
	MatchedBy    string     `json:"matched_by" yaml:"matched_by"`
	Confidence   Confidence `json:"confidence" yaml:"confidence"`

	FieldAssessment    Assessment `json:"field_assessment" yaml:"field_assessment"`
	CorrectionPatch    Patch      `json:"correction_patch" yaml:"correction_patch"`
	CorrectedReference *Reference `json:"corrected_reference,omitempty" yaml:"corrected_reference,omitempty"`
	RequiredUserInputs []string   `json:"required_user_inputs" yaml:"required_user_inputs"`
	Error              string     `json:"error,omitempty" yaml:"error,omitempty"`

	// Selection metadata. RecommendedCandidateRank feeds the selection
	// map built after a first pass; ChosenCandidateRank records a
	// selection-map adoption on a second pass.
	SelectionRequired        bool   `json:"selection_required" yaml:"selection_required"`
	SelectionReason          string `json:"selection_reason,omitempty" yaml:"selection_reason,omitempty"`
	RecommendedCandidateRank int    `json:"recommended_candidate_rank,omitempty" yaml:"recommended_candidate_rank,omitempty"`
	ChosenCandidateRank      int    `json:"chosen_candidate_rank,omitempty" yaml:"chosen_candidate_rank,omitempty"`

	// Candidates is the ranked list surfaced for human adjudication.
	Candidates []Candidate `json:"candidates,omitempty" yaml:"candidates,omitempty"`

	// Article is the original record snapshot.
	Article Citation `json:"article" yaml:"article"`
}
