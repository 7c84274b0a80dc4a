package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citecheck/0.1 (mailto:user@example.org)").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RankingScheme selects the candidate-ranking strategy.
type RankingScheme string

const (
	// RankingWeighted combines per-field similarity scores into a
	// weighted composite.
	RankingWeighted RankingScheme = "weighted"

	// RankingStrict ranks by title similarity alone.
	RankingStrict RankingScheme = "strict"
)

// CheckConfig holds the tunable policy for one validation run. The
// thresholds are policy constants, not structural: changing them changes
// which citations require human selection, nothing else.
type CheckConfig struct {
	HTTPConfig `yaml:",inline"`

	// CandidateRows is the page size requested from the provider for
	// bibliographic search queries (default 6).
	CandidateRows int `json:"candidate_rows" yaml:"candidate_rows"`

	// AutoAcceptThreshold is the minimum composite score at which the
	// top candidate is accepted without human selection (default 0.88).
	AutoAcceptThreshold float64 `json:"auto_accept_threshold" yaml:"auto_accept_threshold"`

	// AmbiguityGapThreshold is the minimum gap between the top two
	// composite scores below which the citation is ambiguous (default 0.06).
	AmbiguityGapThreshold float64 `json:"ambiguity_gap_threshold" yaml:"ambiguity_gap_threshold"`

	// CriticalFields overrides DefaultCriticalFields when non-empty.
	CriticalFields []Field `json:"critical_fields,omitempty" yaml:"critical_fields,omitempty"`

	// Ranking selects the ranking strategy (default weighted).
	Ranking RankingScheme `json:"ranking" yaml:"ranking"`

	// EmitCorrectedReference controls whether results carry a rendered
	// corrected-reference string (default true).
	EmitCorrectedReference bool `json:"emit_corrected_reference" yaml:"emit_corrected_reference"`

	// InterCitationDelay is the self-imposed throttle after each
	// citation's processing completes (default 1s).
	InterCitationDelay time.Duration `json:"inter_citation_delay" yaml:"inter_citation_delay"`

	// Email is the contact address advertised to the provider for polite
	// pool access.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// CacheConfig holds settings for the provider response cache.
type CacheConfig struct {
	// Path is the SQLite database file; empty disables caching.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// TTL is the maximum age of a cached response (default 24h).
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// CriticalSet returns the effective critical-field set as a lookup map.
func (c CheckConfig) CriticalSet() map[Field]bool {
	fields := c.CriticalFields
	if len(fields) == 0 {
		fields = DefaultCriticalFields
	}
	set := make(map[Field]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}
