// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize canonicalizes identifiers and text for comparison.
// Every function is total: bad input yields the empty string, never an
// error. Normalized forms are comparison substrates, not display values.
package normalize

import (
	"regexp"
	"strings"
)

var (
	doiPrefixPattern    = regexp.MustCompile(`(?i)^https?://(dx\.)?doi\.org/`)
	doiSchemePattern    = regexp.MustCompile(`(?i)^doi:\s*`)
	nonAlnumPattern     = regexp.MustCompile(`[^a-z0-9]+`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
	authorCleanPattern  = regexp.MustCompile(`[^\w,\s-]+`)
)

// DOI strips resolver and scheme prefixes, trailing punctuation, and
// case-folds. DOI("https://doi.org/10.1/ABC") == DOI("doi:10.1/abc").
// Idempotent.
func DOI(value string) string {
	doi := strings.TrimSpace(value)
	doi = doiPrefixPattern.ReplaceAllString(doi, "")
	doi = doiSchemePattern.ReplaceAllString(doi, "")
	doi = strings.TrimRight(strings.TrimSpace(doi), ".,;")
	return strings.ToLower(doi)
}

// Text reduces a string to its lower-cased alphanumeric characters, the
// substrate for fuzzy title and journal comparison.
func Text(value string) string {
	return nonAlnumPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(value)), "")
}

// Str trims and lower-cases without touching punctuation.
func Str(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Pages unifies en-dash and em-dash variants to a plain hyphen and drops
// all whitespace, so "2905–2920" and "2905 - 2920" compare equal.
func Pages(value string) string {
	page := strings.NewReplacer("–", "-", "—", "-").Replace(value)
	return whitespacePattern.ReplaceAllString(page, "")
}

// URL trims surrounding whitespace and trailing punctuation and lower-cases.
func URL(value string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(value), ".,;"))
}

// AuthorKey derives a "family:given-initial" key from a free-form display
// name. With a comma, the text before the first comma is the family name;
// otherwise the last whitespace-delimited token is. The key is the unit of
// author-set comparison because display formatting varies across sources.
// Returns "" when no family name can be derived.
func AuthorKey(name string) string {
	cleaned := strings.TrimSpace(strings.ToLower(authorCleanPattern.ReplaceAllString(name, "")))
	if cleaned == "" {
		return ""
	}

	var family, given string
	if idx := strings.Index(cleaned, ","); idx >= 0 {
		family = strings.TrimSpace(cleaned[:idx])
		given = strings.TrimSpace(cleaned[idx+1:])
	} else {
		tokens := strings.Fields(cleaned)
		if len(tokens) == 0 {
			return ""
		}
		family = tokens[len(tokens)-1]
		given = strings.Join(tokens[:len(tokens)-1], " ")
	}

	if family == "" {
		return ""
	}
	initial := ""
	if given != "" {
		initial = given[:1]
	}
	return family + ":" + initial
}

// AuthorKeySet converts a list of display names into the set of derivable
// author keys.
func AuthorKeySet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		if key := AuthorKey(name); key != "" {
			set[key] = true
		}
	}
	return set
}
