package pagination

import (
	"strings"

	"github.com/gompdf/notepager/internal/parser/html"
)

// Page represents a single page in the document
type Page struct {
	Index      int    `json:"index"`
	HeaderHTML string `json:"headerHtml"`
	BodyHTML   string `json:"bodyHtml"`
	FooterHTML string `json:"footerHtml"`
	// Blocks is the number of blocks on the page.
	Blocks int `json:"blocks"`
	// Height is the estimated body height in pixels.
	Height float64 `json:"heightPx"`
}

// draft is a page still being filled.
type draft struct {
	body   strings.Builder
	blocks int
	height float64
}

func (d *draft) empty() bool { return d.blocks == 0 }

// Paginator packs blocks into pages of a fixed body height
type Paginator struct {
	BodyHeight   float64 // pixels
	SectionBreak SectionBreak
	Estimator    *Estimator
}

// NewPaginator creates a new paginator
func NewPaginator(bodyHeightPx float64, breaks SectionBreak, est *Estimator) *Paginator {
	return &Paginator{
		BodyHeight:   bodyHeightPx,
		SectionBreak: breaks,
		Estimator:    est,
	}
}

// Paginate distributes blocks over pages in order. A block that would
// overflow a non-empty page starts the next one; a block taller than a
// whole page sits alone on its own page. Section breaks close a non-empty
// page and are never emitted. At least one page is always returned.
// Header and footer are left empty.
func (p *Paginator) Paginate(blocks []html.Block) []*Page {
	var pages []*Page
	cur := &draft{}

	closePage := func() {
		pages = append(pages, &Page{
			Index:    len(pages),
			BodyHTML: cur.body.String(),
			Blocks:   cur.blocks,
			Height:   cur.height,
		})
		cur = &draft{}
	}

	for _, b := range blocks {
		if p.SectionBreak.Matches(b) {
			if !cur.empty() {
				closePage()
			}
			continue
		}

		h := p.Estimator.Estimate(b)
		if cur.height+h > p.BodyHeight && !cur.empty() {
			closePage()
		}
		cur.body.WriteString(b.HTML)
		cur.blocks++
		cur.height += h
	}

	if !cur.empty() || len(pages) == 0 {
		closePage()
	}
	return pages
}
