package pagination

import (
	"strings"

	"github.com/gompdf/notepager/internal/parser/html"
)

// SectionBreak identifies blocks that force a new page. Empty fields are
// ignored; a block matches when any non-empty criterion holds.
type SectionBreak struct {
	// Attribute is an attribute whose presence marks a break, whatever its value.
	Attribute string `json:"attribute" toml:"attribute" yaml:"attribute"`
	// Class is a class token marking a break.
	Class string `json:"class" toml:"class" yaml:"class"`
	// Element is a dedicated break element name.
	Element string `json:"element" toml:"element" yaml:"element"`
}

// DefaultSectionBreak matches data-section-break, class="section-break" and <section-break>.
func DefaultSectionBreak() SectionBreak {
	return SectionBreak{
		Attribute: "data-section-break",
		Class:     "section-break",
		Element:   "section-break",
	}
}

// IsZero reports whether no criterion is set.
func (s SectionBreak) IsZero() bool {
	return s.Attribute == "" && s.Class == "" && s.Element == ""
}

// Matches reports whether b is a section break.
func (s SectionBreak) Matches(b html.Block) bool {
	if b.Tag == "" {
		return false
	}
	if s.Element != "" && strings.EqualFold(b.Tag, s.Element) {
		return true
	}
	if s.Attribute != "" {
		if _, ok := b.AttrValue(s.Attribute); ok {
			return true
		}
	}
	if s.Class != "" && b.HasClass(s.Class) {
		return true
	}
	return false
}

// Expand hoists the content of break blocks into the block sequence. A
// break element that wraps content, such as a self-closed <section-break/>
// that swallowed its following siblings, becomes an empty break followed by
// its children.
func (s SectionBreak) Expand(blocks []html.Block) ([]html.Block, error) {
	out := make([]html.Block, 0, len(blocks))
	for _, b := range blocks {
		if !s.Matches(b) {
			out = append(out, b)
			continue
		}
		children, err := b.Children()
		if err != nil {
			return nil, err
		}
		out = append(out, html.Block{Tag: b.Tag, Attr: b.Attr})
		if len(children) == 0 {
			continue
		}
		children, err = s.Expand(children)
		if err != nil {
			return nil, err
		}
		out = append(out, children...)
	}
	return out, nil
}
