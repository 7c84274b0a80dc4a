// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"strings"
	"testing"

	"github.com/pdiddy/citecheck/pkg/types"
)

func fullRecord() types.BibFields {
	return types.BibFields{
		Authors: []string{"Halil Savuran", "Murat Karakaya"},
		Title:   "Efficient route planning method for UAVs deployed on a mobile carrier",
		Journal: "Soft Computing",
		Volume:  "20",
		Issue:   "7",
		Pages:   "2905-2920",
		Year:    "2016",
		DOI:     "10.1007/s00500-015-1970-4",
		URL:     "https://doi.org/10.1007/s00500-015-1970-4",
	}
}

func TestRenderCanonical(t *testing.T) {
	c := types.Citation{ID: "json:1", SourceFormat: "json"}
	ref := RenderReference(c, fullRecord(), true)

	if ref.Format != "json" {
		t.Errorf("format = %q", ref.Format)
	}
	for _, want := range []string{
		"Halil Savuran, Murat Karakaya",
		"Soft Computing, 20(7), 2905-2920 (2016)",
		"doi:10.1007/s00500-015-1970-4",
		"https://doi.org/10.1007/s00500-015-1970-4",
	} {
		if !strings.Contains(ref.Text, want) {
			t.Errorf("canonical text missing %q:\n%s", want, ref.Text)
		}
	}
	if !strings.HasSuffix(ref.Text, ".") {
		t.Errorf("canonical text should end with a period: %q", ref.Text)
	}
}

func TestRenderCanonicalPlaceholders(t *testing.T) {
	c := types.Citation{ID: "json:1", SourceFormat: "txt"}
	ref := RenderReference(c, types.BibFields{Year: "2016"}, true)

	for _, want := range []string{"[missing authors]", "[missing title]", "[missing journal]", "(2016)"} {
		if !strings.Contains(ref.Text, want) {
			t.Errorf("placeholder %q missing:\n%s", want, ref.Text)
		}
	}
}

func TestRenderTeX(t *testing.T) {
	c := types.Citation{ID: "tex:3", SourceFormat: "tex", BibKey: "sav2016"}
	ref := RenderReference(c, fullRecord(), true)

	for _, want := range []string{
		`\bibitem{sav2016}`,
		"``Efficient route planning method for UAVs deployed on a mobile carrier.''",
		"Soft Computing 20(7), 2905--2920 (2016).",
		`\url{https://doi.org/10.1007/s00500-015-1970-4}`,
	} {
		if !strings.Contains(ref.Text, want) {
			t.Errorf("tex text missing %q:\n%s", want, ref.Text)
		}
	}
}

func TestRenderTeXKeyFallback(t *testing.T) {
	c := types.Citation{ID: "tex:3", SourceFormat: "tex"}
	ref := RenderReference(c, fullRecord(), true)
	if !strings.HasPrefix(ref.Text, `\bibitem{tex_3}`) {
		t.Errorf("fallback key not derived from the citation ID:\n%s", ref.Text)
	}
}

func TestRenderTeXURLDerivedFromDOI(t *testing.T) {
	fields := fullRecord()
	fields.URL = ""
	c := types.Citation{ID: "tex:1", SourceFormat: "bib", BibKey: "k"}
	ref := RenderReference(c, fields, true)
	if !strings.Contains(ref.Text, `\url{https://doi.org/10.1007/s00500-015-1970-4}`) {
		t.Errorf("DOI-derived url missing:\n%s", ref.Text)
	}
}

func TestRenderDisabled(t *testing.T) {
	c := types.Citation{ID: "json:1", SourceFormat: "json"}
	ref := RenderReference(c, fullRecord(), false)
	if ref == nil || ref.Format != "json" || ref.Text != "" {
		t.Errorf("disabled rendering should carry only the format: %+v", ref)
	}
}
