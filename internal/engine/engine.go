// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine validates citation records against the metadata
// provider: it retrieves candidates, ranks them, decides acceptance or
// ambiguity, assesses fields, and synthesizes correction patches.
// Citations are processed one at a time in input order; a single
// citation's failure degrades to an unresolved result and never aborts
// the batch.
package engine

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/citecheck/internal/normalize"
	"github.com/pdiddy/citecheck/pkg/types"
)

const criticalMismatchError = "Critical mismatch in one or more required fields"

// Engine runs validation passes over citation batches. The selection map
// is read-only for the lifetime of a run.
type Engine struct {
	source    MetadataSource
	config    types.CheckConfig
	ranker    Ranker
	selection SelectionMap
	log       io.Writer
}

// NewEngine assembles an engine from its collaborators. A nil selection
// map means first-pass behavior; log receives progress and warnings.
func NewEngine(source MetadataSource, cfg types.CheckConfig, selection SelectionMap, log io.Writer) (*Engine, error) {
	if source == nil {
		return nil, fmt.Errorf("metadata source is required")
	}
	if log == nil {
		log = io.Discard
	}
	ranker, err := NewRanker(cfg.Ranking)
	if err != nil {
		return nil, err
	}
	if cfg.CandidateRows <= 0 {
		cfg.CandidateRows = 6
	}
	if cfg.AutoAcceptThreshold <= 0 {
		cfg.AutoAcceptThreshold = 0.88
	}
	if cfg.AmbiguityGapThreshold <= 0 {
		cfg.AmbiguityGapThreshold = 0.06
	}
	return &Engine{
		source:    source,
		config:    cfg,
		ranker:    ranker,
		selection: selection,
		log:       log,
	}, nil
}

// CheckAll validates every citation in input order and returns one
// result per citation. A fixed inter-citation delay throttles provider
// traffic after each citation completes.
func (e *Engine) CheckAll(ctx context.Context, citations []types.Citation) []types.Result {
	results := make([]types.Result, 0, len(citations))
	for _, c := range citations {
		results = append(results, e.checkOne(ctx, c))
		if e.config.InterCitationDelay > 0 {
			time.Sleep(e.config.InterCitationDelay)
		}
	}
	return results
}

// checkOne runs the decision sequence for a single citation: selection-map
// override, direct identifier lookup, then ranked text search with
// ambiguity and acceptance thresholds.
func (e *Engine) checkOne(ctx context.Context, c types.Citation) types.Result {
	critical := e.config.CriticalSet()

	// A prior human selection wins unconditionally, bypassing ambiguity
	// and threshold checks.
	if rank, ok := e.selection[c.ID]; ok {
		ranked := e.rankedPool(ctx, c, true)
		if rank >= 1 && rank <= len(ranked) {
			accepted := ranked[rank-1]
			result := e.accept(c, accepted, ranked, types.MatchedBySelectionMap, rank, critical)
			result.ChosenCandidateRank = rank
			return result
		}
		fmt.Fprintf(e.log, "warning: %s: selection rank %d out of range (%d candidates)\n", c.ID, rank, len(ranked))
	}

	// Direct identifier lookup short-circuits acceptance.
	if doi := normalize.DOI(c.DOI); doi != "" {
		fields, found, err := e.source.LookupDOI(ctx, doi)
		if err != nil {
			fmt.Fprintf(e.log, "warning: %s: DOI lookup failed: %v\n", c.ID, err)
		}
		if found {
			return e.acceptDOI(ctx, c, fields, critical)
		}
	}

	if strings.TrimSpace(c.Title) == "" {
		result := e.unresolved(c, types.MatchedByNone, types.ReasonNoMetadata, "Insufficient metadata for lookup", nil, critical)
		return result
	}

	ranked := e.ranker.Rank(c, retrieveSearchCandidates(ctx, e.source, c, e.config.CandidateRows, e.log))
	if len(ranked) == 0 {
		return e.unresolved(c, types.MatchedByTitle, types.ReasonNoMetadata, "No candidates returned from bibliographic search", nil, critical)
	}

	top := ranked[0]
	if len(ranked) >= 2 && top.Composite-ranked[1].Composite < e.config.AmbiguityGapThreshold {
		result := e.unresolved(c, top.Strategy, types.ReasonAmbiguousTop2, "Top two candidates are too close to auto-accept", ranked, critical)
		result.SelectionRequired = true
		result.RecommendedCandidateRank = 1
		result.Confidence = candidateConfidence(top, 1)
		return result
	}

	if top.Composite >= e.config.AutoAcceptThreshold {
		return e.accept(c, top, ranked, top.Strategy, 1, critical)
	}

	result := e.unresolved(c, top.Strategy, types.ReasonBelowThreshold, "Top candidate is below confidence threshold", ranked, critical)
	result.SelectionRequired = true
	result.RecommendedCandidateRank = 1
	result.Confidence = candidateConfidence(top, 1)
	return result
}

// acceptDOI assesses the citation against an identifier-resolved record.
// A critical conflict escalates and surfaces ranked text-search
// alternatives so a human can confirm or re-select.
func (e *Engine) acceptDOI(ctx context.Context, c types.Citation, fields types.BibFields, critical map[types.Field]bool) types.Result {
	assessment := AssessFields(c, fields, critical)
	status := DetermineStatus(assessment)
	result := e.assessedResult(c, assessment, status, types.MatchedByDOI)
	one := 1.0
	result.Confidence.TitleScore = &one

	if status == types.StatusCriticalMismatch {
		result.Error = criticalMismatchError
		result.SelectionRequired = true
		if assessment[types.FieldTitle].State == types.StateConflict {
			result.SelectionReason = types.ReasonDOITitleConflict
		}

		pool := append(
			[]types.Candidate{{Strategy: types.MatchedByDOI, ProviderRank: 1, BibFields: fields}},
			retrieveSearchCandidates(ctx, e.source, c, e.config.CandidateRows, e.log)...,
		)
		result.Candidates = e.ranker.Rank(c, pool)
		result.RecommendedCandidateRank = 1
	}
	return result
}

// accept assesses the citation against a ranked candidate chosen by
// auto-accept or the selection map.
func (e *Engine) accept(c types.Citation, accepted types.Candidate, ranked []types.Candidate, matchedBy string, rank int, critical map[types.Field]bool) types.Result {
	assessment := AssessFields(c, accepted.BibFields, critical)
	status := DetermineStatus(assessment)
	result := e.assessedResult(c, assessment, status, matchedBy)
	result.Candidates = ranked
	result.Confidence = candidateConfidence(accepted, rank)

	// A human already decided a selection-map match; re-raising the
	// selection flag would loop the review forever.
	if status == types.StatusCriticalMismatch && matchedBy != types.MatchedBySelectionMap {
		result.Error = criticalMismatchError
		result.SelectionRequired = true
		result.RecommendedCandidateRank = rank
	}
	return result
}

// assessedResult builds the shared accepted-match portion of a result:
// field assessment, correction patch, corrected reference.
func (e *Engine) assessedResult(c types.Citation, assessment types.Assessment, status types.Status, matchedBy string) types.Result {
	patch := BuildPatch(assessment)
	corrected := ApplyPatch(c.BibFields, patch)

	return types.Result{
		CitationID:         c.ID,
		SourceFormat:       c.SourceFormat,
		Status:             status,
		MatchedBy:          matchedBy,
		FieldAssessment:    assessment,
		CorrectionPatch:    patch,
		CorrectedReference: RenderReference(c, corrected, e.config.EmitCorrectedReference),
		RequiredUserInputs: []string{},
		Article:            c,
	}
}

// unresolved builds a no-accepted-match result with the fallback
// assessment and the list of inputs the caller should supply to retry.
func (e *Engine) unresolved(c types.Citation, matchedBy, reason, errText string, ranked []types.Candidate, critical map[types.Field]bool) types.Result {
	return types.Result{
		CitationID:         c.ID,
		SourceFormat:       c.SourceFormat,
		Status:             types.StatusUnresolved,
		MatchedBy:          matchedBy,
		FieldAssessment:    fallbackAssessment(c, critical),
		CorrectionPatch:    types.Patch{Set: map[types.Field]any{}},
		CorrectedReference: RenderReference(c, c.BibFields, e.config.EmitCorrectedReference),
		RequiredUserInputs: RequiredInputs(c),
		Error:              errText,
		SelectionReason:    reason,
		Candidates:         ranked,
		Article:            c,
	}
}

// rankedPool retrieves and ranks every candidate reachable for the
// citation, optionally including the identifier-resolved record, for
// selection-map adoption.
func (e *Engine) rankedPool(ctx context.Context, c types.Citation, includeDOI bool) []types.Candidate {
	var pool []types.Candidate
	if includeDOI {
		if doi := normalize.DOI(c.DOI); doi != "" {
			fields, found, err := e.source.LookupDOI(ctx, doi)
			if err != nil {
				fmt.Fprintf(e.log, "warning: %s: DOI lookup failed: %v\n", c.ID, err)
			}
			if found {
				pool = append(pool, types.Candidate{Strategy: types.MatchedByDOI, ProviderRank: 1, BibFields: fields})
			}
		}
	}
	pool = append(pool, retrieveSearchCandidates(ctx, e.source, c, e.config.CandidateRows, e.log)...)
	return e.ranker.Rank(c, pool)
}

func candidateConfidence(c types.Candidate, rank int) types.Confidence {
	title := c.Components[types.FieldTitle]
	composite := c.Composite
	return types.Confidence{
		TitleScore:     &title,
		CompositeScore: &composite,
		CandidateRank:  &rank,
	}
}

// Summary counts citation-level outcomes for one batch.
type Summary struct {
	MatchFound       int
	Corrected        int
	CriticalMismatch int
	Unresolved       int
}

// Summarize tallies the statuses of a result batch.
func Summarize(results []types.Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case types.StatusMatchFound:
			s.MatchFound++
		case types.StatusCorrected:
			s.Corrected++
		case types.StatusCriticalMismatch:
			s.CriticalMismatch++
		case types.StatusUnresolved:
			s.Unresolved++
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("match_found=%d, corrected=%d, critical_mismatch=%d, unresolved=%d",
		s.MatchFound, s.Corrected, s.CriticalMismatch, s.Unresolved)
}
