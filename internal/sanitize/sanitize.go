// Package sanitize strips untrusted markup down to what the editor emits
// before it reaches the paginator.
package sanitize

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/gompdf/notepager/internal/pagination"
)

// Policy wraps a bluemonday policy tuned for note content.
type Policy struct {
	p *bluemonday.Policy
}

// New returns the UGC policy extended with classes, task list state and
// whatever attribute and element sel uses to mark section breaks.
func New(sel pagination.SectionBreak) *Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("data-type").OnElements("ul", "ol", "li")
	p.AllowAttrs("data-checked").OnElements("li")
	if sel.Attribute != "" {
		p.AllowAttrs(sel.Attribute).Globally()
	}
	if sel.Element != "" {
		p.AllowElements(sel.Element)
	}
	return &Policy{p: p}
}

// Sanitize returns markup with disallowed elements and attributes removed.
func (s *Policy) Sanitize(markup string) string {
	return s.p.Sanitize(markup)
}
