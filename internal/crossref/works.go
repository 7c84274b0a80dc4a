// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crossref

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pdiddy/citecheck/pkg/types"
)

// multiString absorbs Crossref fields that appear as either a JSON array
// of strings or a bare string. Anything else decodes to empty rather
// than failing, so a malformed substructure degrades to an absent field.
type multiString []string

func (m *multiString) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*m = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*m = []string{single}
		return nil
	}
	*m = nil
	return nil
}

// first returns the first non-empty element.
func (m multiString) first() string {
	for _, s := range m {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// Work is one Crossref works record, reduced to the fields the engine
// consumes.
type Work struct {
	Title          multiString  `json:"title"`
	ContainerTitle multiString  `json:"container-title"`
	Author         []WorkAuthor `json:"author"`
	Volume         string       `json:"volume"`
	Issue          string       `json:"issue"`
	Page           string       `json:"page"`
	DOI            string       `json:"DOI"`
	URL            string       `json:"URL"`

	PublishedPrint  *WorkDate `json:"published-print"`
	PublishedOnline *WorkDate `json:"published-online"`
	Published       *WorkDate `json:"published"`
	Issued          *WorkDate `json:"issued"`

	// Score is Crossref's native relevance score on search items; zero
	// on direct lookups.
	Score float64 `json:"score"`
}

// WorkAuthor is one entry of a work's author list.
type WorkAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

// WorkDate holds Crossref's date-parts structure: [[year, month, day]]
// with month and day optional.
type WorkDate struct {
	DateParts [][]int `json:"date-parts"`
}

// year returns the year component, or "" when the structure is absent or
// malformed.
func (d *WorkDate) year() string {
	if d == nil || len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return ""
	}
	return strconv.Itoa(d.DateParts[0][0])
}

// ToBibFields converts a raw Crossref record to the engine's
// bibliographic-field shape. The year comes from the first populated date
// field in preference order: print date, online date, generic published
// date, issued date.
func (w Work) ToBibFields() types.BibFields {
	var authors []string
	for _, a := range w.Author {
		name := strings.TrimSpace(strings.TrimSpace(a.Given) + " " + strings.TrimSpace(a.Family))
		if name != "" {
			authors = append(authors, name)
		}
	}

	year := ""
	for _, d := range []*WorkDate{w.PublishedPrint, w.PublishedOnline, w.Published, w.Issued} {
		if y := d.year(); y != "" {
			year = y
			break
		}
	}

	return types.BibFields{
		Authors: authors,
		Title:   w.Title.first(),
		Journal: w.ContainerTitle.first(),
		Volume:  w.Volume,
		Issue:   w.Issue,
		Pages:   w.Page,
		Year:    year,
		DOI:     w.DOI,
		URL:     w.URL,
	}
}
