// Package hints runs the hintability classifier over every candidate element
// of a document.
package hints

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/hintcheck/internal/dom"
	"github.com/dgallion1/hintcheck/internal/hintable"
)

const maxSnippet = 80

// Decision is the classifier verdict for one candidate element.
type Decision struct {
	Path      string          `json:"path"`
	Tag       string          `json:"tag"`
	Text      string          `json:"text,omitempty"`
	NeedsHint bool            `json:"needs_hint"`
	Reason    hintable.Reason `json:"reason"`
}

// Report summarizes a hint pass over one document.
type Report struct {
	URL        string     `json:"url,omitempty"`
	Title      string     `json:"title,omitempty"`
	Candidates int        `json:"candidates"`
	Hinted     int        `json:"hinted"`
	Decisions  []Decision `json:"decisions"`
}

// Run classifies every candidate in doc. It reads the document only.
func Run(doc *dom.Document, url string) Report {
	report := Report{
		URL:       url,
		Title:     doc.Title(),
		Decisions: []Decision{},
	}
	for _, el := range doc.Candidates() {
		v := hintable.Classify(el)
		d := Decision{
			Path:      el.Path(),
			Tag:       el.Tag(),
			Text:      snippet(v.Text),
			NeedsHint: v.NeedsHint(),
			Reason:    v.Reason,
		}
		if d.NeedsHint {
			report.Hinted++
		}
		report.Decisions = append(report.Decisions, d)
	}
	report.Candidates = len(report.Decisions)
	return report
}

// snippet collapses whitespace and truncates long text for reporting.
func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= maxSnippet {
		return s
	}
	r := []rune(s)
	return string(r[:maxSnippet-1]) + "…"
}
