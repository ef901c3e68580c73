package pagination

import (
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	xhtml "golang.org/x/net/html"

	"github.com/gompdf/notepager/internal/parser/html"
)

// Default header and footer templates.
const (
	DefaultHeaderTemplate = `<div class="note-page-header">{title}</div>`
	DefaultFooterTemplate = `<div class="note-page-footer">{pageNumber} / {totalPages}</div>`
)

// Options represents options for the pagination engine. Lengths are in millimetres.
type Options struct {
	PageWidth    float64
	PageHeight   float64
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64
	HeaderHeight float64
	FooterHeight float64

	HeaderTemplate string
	FooterTemplate string
	SectionBreak   SectionBreak
	Calibration    Calibration
}

// BlockParser turns markup into top-level blocks.
type BlockParser interface {
	ParseBlocks(markup string) ([]html.Block, error)
}

// Result is the outcome of one pagination run.
type Result struct {
	Pages    []Page   `json:"pages"`
	Geometry Geometry `json:"geometry"`
	// Degraded is set when no parser was configured and the input was
	// returned as a single uninterpolated page.
	Degraded bool `json:"degraded"`
}

// Engine handles the pagination process
type Engine struct {
	options Options
	parser  BlockParser
	logger  *log.Logger
}

// NewEngine creates a new pagination engine with A4 portrait defaults and
// no parser.
func NewEngine() *Engine {
	return &Engine{
		options: Options{
			PageWidth:      210,
			PageHeight:     297,
			MarginTop:      18,
			MarginRight:    16,
			MarginBottom:   18,
			MarginLeft:     16,
			HeaderHeight:   14,
			FooterHeight:   14,
			HeaderTemplate: DefaultHeaderTemplate,
			FooterTemplate: DefaultFooterTemplate,
			SectionBreak:   DefaultSectionBreak(),
			Calibration:    DefaultCalibration(),
		},
		logger: log.New(io.Discard),
	}
}

// SetOptions sets the options for the pagination engine
func (e *Engine) SetOptions(options Options) {
	e.options = options
}

// SetParser sets the block parser. A nil parser selects degraded mode.
func (e *Engine) SetParser(p BlockParser) {
	e.parser = p
}

// SetLogger sets the logger; nil discards output.
func (e *Engine) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	e.logger = l
}

// Paginate breaks markup into pages and fills in headers and footers.
func (e *Engine) Paginate(title, markup string) (*Result, error) {
	geom := ComputeGeometry(e.options)
	if geom.Clamped {
		e.logger.Warn("usable body clamped to minimum",
			"bodyWidthMm", geom.BodyWidth, "bodyHeightMm", geom.BodyHeight,
			"widthPx", geom.BodyWidthPx, "heightPx", geom.BodyHeightPx)
	}

	if e.parser == nil {
		e.logger.Debug("no block parser configured, returning single page")
		return &Result{
			Pages: []Page{{
				Index:      0,
				HeaderHTML: e.options.HeaderTemplate,
				BodyHTML:   markup,
				FooterHTML: e.options.FooterTemplate,
			}},
			Geometry: geom,
			Degraded: true,
		}, nil
	}

	blocks, err := e.parser.ParseBlocks(markup)
	if err != nil {
		return nil, err
	}
	blocks, err = e.options.SectionBreak.Expand(blocks)
	if err != nil {
		return nil, err
	}

	est := NewEstimator(e.options.Calibration, geom.BodyWidthPx, e.options.SectionBreak)
	drafts := NewPaginator(geom.BodyHeightPx, e.options.SectionBreak, est).Paginate(blocks)

	total := strconv.Itoa(len(drafts))
	escTitle := xhtml.EscapeString(title)
	pages := make([]Page, len(drafts))
	for i, d := range drafts {
		values := map[Token]string{
			TokenTitle:      escTitle,
			TokenPageNumber: strconv.Itoa(i + 1),
			TokenTotalPages: total,
		}
		pages[i] = *d
		pages[i].HeaderHTML = Interpolate(e.options.HeaderTemplate, values)
		pages[i].FooterHTML = Interpolate(e.options.FooterTemplate, values)
	}

	e.logger.Debug("paginated", "blocks", len(blocks), "pages", len(pages),
		"bodyHeightPx", geom.BodyHeightPx, "bodyWidthPx", geom.BodyWidthPx)

	return &Result{Pages: pages, Geometry: geom}, nil
}
