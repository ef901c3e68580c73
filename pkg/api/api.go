package api

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/gompdf/notepager/internal/pagination"
	"github.com/gompdf/notepager/internal/parser/html"
	"github.com/gompdf/notepager/internal/render/markdown"
	"github.com/gompdf/notepager/internal/render/pdf"
	"github.com/gompdf/notepager/internal/sanitize"
	"github.com/gompdf/notepager/pkg/errors"
)

type (
	Page         = pagination.Page
	Geometry     = pagination.Geometry
	SectionBreak = pagination.SectionBreak
	Calibration  = pagination.Calibration
	Block        = html.Block
	BlockParser  = pagination.BlockParser
)

// DefaultCalibration returns the stock height heuristics constants.
func DefaultCalibration() Calibration { return pagination.DefaultCalibration() }

// DefaultSectionBreak returns the stock section break selector.
func DefaultSectionBreak() SectionBreak { return pagination.DefaultSectionBreak() }

func newDefaultParser() BlockParser { return html.NewParser() }

// Input is one document to paginate
type Input struct {
	Title string
	HTML  string
	// Overrides is merged over the paginator's layout for this call only.
	Overrides *Overrides
}

// Layout is a finished page sequence and the configuration that produced it
type Layout struct {
	Title    string       `json:"title"`
	Config   LayoutConfig `json:"config"`
	PageSize PageSize     `json:"pageSizeMm"`
	Geometry Geometry     `json:"geometry"`
	Pages    []Page       `json:"pages"`
	Degraded bool         `json:"degraded"`
}

// Paginator is the main API for splitting note markup into pages
type Paginator struct {
	options Options
}

// New creates a new paginator with default options
func New(opts ...Option) *Paginator {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return NewWithOptions(options)
}

// NewWithOptions creates a new paginator with the specified options
func NewWithOptions(options Options) *Paginator {
	return &Paginator{options: options}
}

// SetDebug toggles debug logging and returns the paginator
func (p *Paginator) SetDebug(debug bool) *Paginator {
	p.options.Debug = debug
	return p
}

// Options returns a copy of the paginator's options
func (p *Paginator) Options() Options {
	return p.options
}

func (p *Paginator) logger() *log.Logger {
	if p.options.Logger != nil {
		return p.options.Logger
	}
	if p.options.Debug {
		return log.NewWithOptions(os.Stderr, log.Options{Level: log.DebugLevel})
	}
	return log.New(io.Discard)
}

// BuildLayoutPages merges in.Overrides over the configured layout, splits
// in.HTML into blocks and packs them into pages with interpolated headers
// and footers. It returns ErrCodeInvalidConfig for an unsupported layout and
// ErrCodeParse when the markup cannot be parsed.
func (p *Paginator) BuildLayoutPages(in Input) (*Layout, error) {
	cfg := p.options.Layout.Merge(in.Overrides)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := p.options.Calibration.Validate(); err != nil {
		return nil, err
	}
	size, err := ResolvePageSize(cfg)
	if err != nil {
		return nil, err
	}

	logger := p.logger()
	markup := in.HTML
	sanitizer := p.options.Sanitizer
	if sanitizer == nil && p.options.Sanitize {
		sanitizer = sanitize.New(cfg.SectionBreak)
	}
	if sanitizer != nil {
		markup = sanitizer.Sanitize(markup)
		logger.Debug("sanitized markup", "before", len(in.HTML), "after", len(markup))
	}

	engine := pagination.NewEngine()
	engine.SetOptions(pagination.Options{
		PageWidth:      size.Width,
		PageHeight:     size.Height,
		MarginTop:      cfg.Margins.Top,
		MarginRight:    cfg.Margins.Right,
		MarginBottom:   cfg.Margins.Bottom,
		MarginLeft:     cfg.Margins.Left,
		HeaderHeight:   cfg.HeaderHeight,
		FooterHeight:   cfg.FooterHeight,
		HeaderTemplate: cfg.HeaderTemplate,
		FooterTemplate: cfg.FooterTemplate,
		SectionBreak:   cfg.SectionBreak,
		Calibration:    p.options.Calibration,
	})
	engine.SetParser(p.options.Parser)
	engine.SetLogger(logger)

	logger.Debug("page geometry", "paper", cfg.PaperSize, "orientation", cfg.Orientation,
		"widthMm", size.Width, "heightMm", size.Height)

	res, err := engine.Paginate(in.Title, markup)
	if err != nil {
		return nil, err
	}

	return &Layout{
		Title:    in.Title,
		Config:   cfg,
		PageSize: size,
		Geometry: res.Geometry,
		Pages:    res.Pages,
		Degraded: res.Degraded,
	}, nil
}

// ExportPDF writes a text proof of l to w, one PDF page per layout page.
func (p *Paginator) ExportPDF(w io.Writer, l *Layout) error {
	if l == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil layout")
	}
	renderer := pdf.NewRenderer()
	renderer.Debug = p.options.Debug
	renderer.SetLogger(p.logger())

	err := renderer.Render(w, l.Pages, pdf.RenderOptions{
		Title:        l.Title,
		Author:       p.options.Author,
		Subject:      p.options.Subject,
		Creator:      "notepager",
		PageWidth:    l.PageSize.Width,
		PageHeight:   l.PageSize.Height,
		MarginTop:    l.Config.Margins.Top,
		MarginRight:  l.Config.Margins.Right,
		MarginBottom: l.Config.Margins.Bottom,
		MarginLeft:   l.Config.Margins.Left,
		HeaderHeight: l.Config.HeaderHeight,
		FooterHeight: l.Config.FooterHeight,
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "rendering pdf")
	}
	return nil
}

// ExportMarkdown converts the page bodies of l to Markdown, pages separated
// by thematic breaks.
func (p *Paginator) ExportMarkdown(l *Layout) (string, error) {
	if l == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "nil layout")
	}
	out, err := markdown.NewConverter().Convert(l.Pages)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeRender, err, "rendering markdown")
	}
	return out, nil
}
