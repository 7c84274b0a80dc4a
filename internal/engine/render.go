// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"
	"strings"

	"github.com/pdiddy/citecheck/internal/normalize"
	"github.com/pdiddy/citecheck/pkg/types"
)

// RenderReference renders the corrected fields as a citation string in
// the input's source format: a \bibitem block for tex/bib sources, a
// canonical text line otherwise. When emit is false only the format tag
// is carried, matching the configuration surface.
func RenderReference(citation types.Citation, fields types.BibFields, emit bool) *types.Reference {
	ref := &types.Reference{Format: citation.SourceFormat}
	if !emit {
		return ref
	}

	switch citation.SourceFormat {
	case "tex", "bib":
		ref.Text = renderTeX(citation, fields)
	default:
		ref.Text = renderCanonical(fields)
	}
	return ref
}

// renderCanonical produces the plain-text rendering:
// authors: "title." journal, volume(issue), pages (year). doi:... url.
func renderCanonical(fields types.BibFields) string {
	authorsPart := "[missing authors]"
	if len(fields.Authors) > 0 {
		authorsPart = strings.Join(fields.Authors, ", ")
	}
	title := fields.Title
	if title == "" {
		title = "[missing title]"
	}
	journal := fields.Journal
	if journal == "" {
		journal = "[missing journal]"
	}

	venueParts := []string{journal}
	switch {
	case fields.Volume != "" && fields.Issue != "":
		venueParts = append(venueParts, fmt.Sprintf("%s(%s)", fields.Volume, fields.Issue))
	case fields.Volume != "":
		venueParts = append(venueParts, fields.Volume)
	case fields.Issue != "":
		venueParts = append(venueParts, "("+fields.Issue+")")
	}
	if fields.Pages != "" {
		venueParts = append(venueParts, fields.Pages)
	}
	venue := strings.Join(venueParts, ", ")
	if fields.Year != "" {
		venue = fmt.Sprintf("%s (%s)", venue, fields.Year)
	}

	segments := []string{fmt.Sprintf("%s: %q.", authorsPart, title+"."), venue}
	if fields.DOI != "" {
		doi := normalize.DOI(fields.DOI)
		if doi == "" {
			doi = fields.DOI
		}
		segments = append(segments, "doi:"+doi)
	}
	if fields.URL != "" {
		segments = append(segments, fields.URL)
	}

	var kept []string
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.TrimSpace(strings.Join(kept, ". ")) + "."
}

// renderTeX produces a \bibitem block with TeX page dashes and a \url
// line. The citation's preserved bibitem key names the entry; without
// one, the citation ID is sanitized into a key.
func renderTeX(citation types.Citation, fields types.BibFields) string {
	key := citation.BibKey
	if key == "" {
		key = strings.ReplaceAll(citation.ID, ":", "_")
	}
	lines := []string{fmt.Sprintf(`\bibitem{%s}`, key)}

	switch {
	case len(fields.Authors) > 0 && fields.Title != "":
		lines = append(lines, fmt.Sprintf("%s: ``%s.''", strings.Join(fields.Authors, ", "), fields.Title))
	case fields.Title != "":
		lines = append(lines, fmt.Sprintf("``%s.''", fields.Title))
	case len(fields.Authors) > 0:
		lines = append(lines, strings.Join(fields.Authors, ", "))
	}

	venue := fields.Journal
	switch {
	case fields.Volume != "" && fields.Issue != "":
		venue = strings.TrimSpace(fmt.Sprintf("%s %s(%s)", venue, fields.Volume, fields.Issue))
	case fields.Volume != "":
		venue = strings.TrimSpace(venue + " " + fields.Volume)
	case fields.Issue != "":
		venue = strings.TrimSpace(venue + " (" + fields.Issue + ")")
	}
	if fields.Pages != "" {
		pagesTeX := strings.ReplaceAll(fields.Pages, "-", "--")
		venue = strings.Trim(venue+", "+pagesTeX, ", ")
	}
	if fields.Year != "" {
		venue = strings.TrimSpace(venue + " (" + fields.Year + ")")
	}
	if venue != "" {
		lines = append(lines, venue+".")
	}

	url := fields.URL
	if url == "" && fields.DOI != "" {
		if doi := normalize.DOI(fields.DOI); doi != "" {
			url = "https://doi.org/" + doi
		}
	}
	if url != "" {
		lines = append(lines, fmt.Sprintf(`\url{%s}`, url))
	}

	return strings.Join(lines, "\n")
}
