package cmd

import (
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/openshelf/openshelf/pkg/bib"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	return t
}

// renderCandidates prints ranked candidate records, one row each.
func renderCandidates(candidates []bib.CandidateRecord) {
	t := newTable()
	t.AppendHeader(table.Row{"#", "Title", "Authors", "Publisher", "Date", "ISBN-13", "Sources"})
	for i, c := range candidates {
		t.AppendRow(table.Row{
			i + 1,
			truncate(c.Title, 48),
			truncate(strings.Join(c.Authors, "; "), 32),
			truncate(c.Publisher, 24),
			c.PublishDate,
			c.Identifiers[bib.IdentifierISBN13],
			strings.Join(c.Sources, ","),
		})
	}
	t.Render()
}

// renderCandidate prints one candidate record as a field table.
func renderCandidate(c *bib.CandidateRecord) {
	t := newTable()
	t.AppendHeader(table.Row{"Field", "Value"})
	appendIfSet(t, "Title", c.Title)
	appendIfSet(t, "Subtitle", c.Subtitle)
	appendIfSet(t, "Authors", strings.Join(c.Authors, "; "))
	appendIfSet(t, "Publisher", c.Publisher)
	appendIfSet(t, "Place", c.PublishPlace)
	appendIfSet(t, "Date", c.PublishDate)
	if c.Pages > 0 {
		t.AppendRow(table.Row{"Pages", strconv.Itoa(c.Pages)})
	}
	appendIfSet(t, "Language", c.Language)
	appendIfSet(t, "Dewey", c.DeweyDecimal)
	appendIfSet(t, "LCC", c.LCC)
	for _, typ := range []bib.IdentifierType{bib.IdentifierISBN13, bib.IdentifierISBN10, bib.IdentifierLCCN, bib.IdentifierOCLC} {
		appendIfSet(t, strings.ToUpper(typ.String()), c.Identifiers[typ])
	}
	appendIfSet(t, "Subjects", truncate(strings.Join(c.Subjects, "; "), 72))
	appendIfSet(t, "Series", c.Series)
	appendIfSet(t, "Sources", strings.Join(c.Sources, ", "))
	t.Render()
}

func appendIfSet(t table.Writer, label, value string) {
	if value != "" {
		t.AppendRow(table.Row{label, value})
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
