package api

import (
	"math"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gompdf/notepager/internal/pagination"
	"github.com/gompdf/notepager/pkg/errors"
)

// PaperSize names a supported sheet format
type PaperSize string

const (
	PaperA4     PaperSize = "A4"
	PaperLetter PaperSize = "Letter"
	PaperLegal  PaperSize = "Legal"
)

// PageOrientation represents page orientation
type PageOrientation string

const (
	// PageOrientationPortrait keeps the sheet upright
	PageOrientationPortrait PageOrientation = "portrait"
	// PageOrientationLandscape swaps width and height
	PageOrientationLandscape PageOrientation = "landscape"
)

// Standard page sizes in millimetres, portrait
const (
	PageSizeA4Width      = 210.0
	PageSizeA4Height     = 297.0
	PageSizeLetterWidth  = 215.9
	PageSizeLetterHeight = 279.4
	PageSizeLegalWidth   = 215.9
	PageSizeLegalHeight  = 355.6
)

// PageSize is a sheet size in millimetres
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

var paperSizes = map[PaperSize]PageSize{
	PaperA4:     {Width: PageSizeA4Width, Height: PageSizeA4Height},
	PaperLetter: {Width: PageSizeLetterWidth, Height: PageSizeLetterHeight},
	PaperLegal:  {Width: PageSizeLegalWidth, Height: PageSizeLegalHeight},
}

// ParsePaperSize matches s case-insensitively against the supported sizes.
func ParsePaperSize(s string) (PaperSize, error) {
	for p := range paperSizes {
		if strings.EqualFold(string(p), s) {
			return p, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unsupported paper size %q", s)
}

// ParseOrientation matches s case-insensitively against portrait and landscape.
func ParseOrientation(s string) (PageOrientation, error) {
	switch {
	case strings.EqualFold(s, string(PageOrientationPortrait)):
		return PageOrientationPortrait, nil
	case strings.EqualFold(s, string(PageOrientationLandscape)):
		return PageOrientationLandscape, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unsupported orientation %q", s)
}

// Margins are page margins in millimetres
type Margins struct {
	Top    float64 `json:"top" toml:"top" yaml:"top"`
	Right  float64 `json:"right" toml:"right" yaml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" toml:"left" yaml:"left"`
}

// LayoutConfig describes page geometry and running header/footer templates
type LayoutConfig struct {
	PaperSize    PaperSize       `json:"paperSize"`
	Orientation  PageOrientation `json:"orientation"`
	Margins      Margins         `json:"marginsMm"`
	HeaderHeight float64         `json:"headerHeightMm"`
	FooterHeight float64         `json:"footerHeightMm"`
	SectionBreak SectionBreak    `json:"sectionBreak"`
	// Templates may contain {title}, {pageNumber} and {totalPages}.
	HeaderTemplate string `json:"headerTemplate"`
	FooterTemplate string `json:"footerTemplate"`
}

// DefaultLayoutConfig returns A4 portrait with 18/16/18/16 mm margins and
// 14 mm header and footer bands.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		PaperSize:   PaperA4,
		Orientation: PageOrientationPortrait,
		Margins: Margins{
			Top:    18,
			Right:  16,
			Bottom: 18,
			Left:   16,
		},
		HeaderHeight:   14,
		FooterHeight:   14,
		SectionBreak:   pagination.DefaultSectionBreak(),
		HeaderTemplate: pagination.DefaultHeaderTemplate,
		FooterTemplate: pagination.DefaultFooterTemplate,
	}
}

// MarginOverrides overrides individual margins; nil sides keep their value.
type MarginOverrides struct {
	Top    *float64 `json:"top,omitempty" toml:"top" yaml:"top"`
	Right  *float64 `json:"right,omitempty" toml:"right" yaml:"right"`
	Bottom *float64 `json:"bottom,omitempty" toml:"bottom" yaml:"bottom"`
	Left   *float64 `json:"left,omitempty" toml:"left" yaml:"left"`
}

// Overrides is a partial LayoutConfig. Nil fields are absent.
type Overrides struct {
	PaperSize      *PaperSize       `json:"paperSize,omitempty" toml:"paper_size" yaml:"paper_size"`
	Orientation    *PageOrientation `json:"orientation,omitempty" toml:"orientation" yaml:"orientation"`
	Margins        *MarginOverrides `json:"marginsMm,omitempty" toml:"margins_mm" yaml:"margins_mm"`
	HeaderHeight   *float64         `json:"headerHeightMm,omitempty" toml:"header_height_mm" yaml:"header_height_mm"`
	FooterHeight   *float64         `json:"footerHeightMm,omitempty" toml:"footer_height_mm" yaml:"footer_height_mm"`
	SectionBreak   *SectionBreak    `json:"sectionBreak,omitempty" toml:"section_break" yaml:"section_break"`
	HeaderTemplate *string          `json:"headerTemplate,omitempty" toml:"header_template" yaml:"header_template"`
	FooterTemplate *string          `json:"footerTemplate,omitempty" toml:"footer_template" yaml:"footer_template"`
}

// Merge returns c with every present field of o applied. Margins merge per side.
func (c LayoutConfig) Merge(o *Overrides) LayoutConfig {
	if o == nil {
		return c
	}
	if o.PaperSize != nil {
		c.PaperSize = *o.PaperSize
	}
	if o.Orientation != nil {
		c.Orientation = *o.Orientation
	}
	if m := o.Margins; m != nil {
		if m.Top != nil {
			c.Margins.Top = *m.Top
		}
		if m.Right != nil {
			c.Margins.Right = *m.Right
		}
		if m.Bottom != nil {
			c.Margins.Bottom = *m.Bottom
		}
		if m.Left != nil {
			c.Margins.Left = *m.Left
		}
	}
	if o.HeaderHeight != nil {
		c.HeaderHeight = *o.HeaderHeight
	}
	if o.FooterHeight != nil {
		c.FooterHeight = *o.FooterHeight
	}
	if o.SectionBreak != nil {
		c.SectionBreak = *o.SectionBreak
	}
	if o.HeaderTemplate != nil {
		c.HeaderTemplate = *o.HeaderTemplate
	}
	if o.FooterTemplate != nil {
		c.FooterTemplate = *o.FooterTemplate
	}
	return c
}

// Validate rejects unknown paper sizes and orientations and lengths that are
// negative, NaN or infinite.
func (c LayoutConfig) Validate() error {
	if _, ok := paperSizes[c.PaperSize]; !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported paper size %q", c.PaperSize)
	}
	if c.Orientation != PageOrientationPortrait && c.Orientation != PageOrientationLandscape {
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported orientation %q", c.Orientation)
	}
	lengths := []struct {
		name string
		v    float64
	}{
		{"top margin", c.Margins.Top},
		{"right margin", c.Margins.Right},
		{"bottom margin", c.Margins.Bottom},
		{"left margin", c.Margins.Left},
		{"header height", c.HeaderHeight},
		{"footer height", c.FooterHeight},
	}
	for _, l := range lengths {
		if !(l.v >= 0) || math.IsInf(l.v, 1) {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be a finite non-negative length, got %v", l.name, l.v)
		}
	}
	return nil
}

// MergeConfig applies overrides to the defaults and validates the result.
func MergeConfig(o *Overrides) (LayoutConfig, error) {
	c := DefaultLayoutConfig().Merge(o)
	if err := c.Validate(); err != nil {
		return LayoutConfig{}, err
	}
	return c, nil
}

// ResolvePageSize returns the sheet size for c, swapped for landscape.
func ResolvePageSize(c LayoutConfig) (PageSize, error) {
	size, ok := paperSizes[c.PaperSize]
	if !ok {
		return PageSize{}, errors.New(errors.ErrCodeInvalidConfig, "unsupported paper size %q", c.PaperSize)
	}
	switch c.Orientation {
	case PageOrientationLandscape:
		size.Width, size.Height = size.Height, size.Width
	case PageOrientationPortrait:
	default:
		return PageSize{}, errors.New(errors.ErrCodeInvalidConfig, "unsupported orientation %q", c.Orientation)
	}
	return size, nil
}

// Sanitizer cleans untrusted markup before it is parsed
type Sanitizer interface {
	Sanitize(markup string) string
}

// Options represents configuration options for the paginator
type Options struct {
	Layout      LayoutConfig
	Calibration Calibration

	// Parser splits markup into blocks. Nil selects the single-page
	// degraded mode.
	Parser BlockParser
	// Sanitizer, when set, runs on the markup before parsing.
	Sanitizer Sanitizer
	// Sanitize runs the built-in policy when no Sanitizer is set. The
	// policy keeps the section break markers of the merged layout.
	Sanitize bool

	Logger *log.Logger
	Debug  bool

	// PDF metadata
	Author  string
	Subject string
}

// Option is a function that modifies Options
type Option func(*Options)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		Layout:      DefaultLayoutConfig(),
		Calibration: pagination.DefaultCalibration(),
		Parser:      newDefaultParser(),
	}
}

// WithPaperSize sets the paper size
func WithPaperSize(size PaperSize) Option {
	return func(o *Options) {
		o.Layout.PaperSize = size
	}
}

// WithPageSizeA4 sets the paper size to A4
func WithPageSizeA4() Option {
	return WithPaperSize(PaperA4)
}

// WithPageSizeLetter sets the paper size to US Letter
func WithPageSizeLetter() Option {
	return WithPaperSize(PaperLetter)
}

// WithPageSizeLegal sets the paper size to US Legal
func WithPageSizeLegal() Option {
	return WithPaperSize(PaperLegal)
}

// WithPageOrientation sets the page orientation
func WithPageOrientation(orientation PageOrientation) Option {
	return func(o *Options) {
		o.Layout.Orientation = orientation
	}
}

// WithMargins sets the page margins in millimetres
func WithMargins(top, right, bottom, left float64) Option {
	return func(o *Options) {
		o.Layout.Margins = Margins{Top: top, Right: right, Bottom: bottom, Left: left}
	}
}

// WithBands sets the header and footer band heights in millimetres
func WithBands(header, footer float64) Option {
	return func(o *Options) {
		o.Layout.HeaderHeight = header
		o.Layout.FooterHeight = footer
	}
}

// WithHeaderTemplate sets the header template
func WithHeaderTemplate(tmpl string) Option {
	return func(o *Options) {
		o.Layout.HeaderTemplate = tmpl
	}
}

// WithFooterTemplate sets the footer template
func WithFooterTemplate(tmpl string) Option {
	return func(o *Options) {
		o.Layout.FooterTemplate = tmpl
	}
}

// WithSectionBreak sets the section break selector
func WithSectionBreak(sel SectionBreak) Option {
	return func(o *Options) {
		o.Layout.SectionBreak = sel
	}
}

// WithCalibration replaces the height heuristics constants
func WithCalibration(cal Calibration) Option {
	return func(o *Options) {
		o.Calibration = cal
	}
}

// WithParser sets the block parser
func WithParser(p BlockParser) Option {
	return func(o *Options) {
		o.Parser = p
	}
}

// WithoutParser selects degraded mode: one page holding the raw markup
// with uninterpolated templates.
func WithoutParser() Option {
	return WithParser(nil)
}

// WithSanitizer sets the pre-parse sanitizer
func WithSanitizer(s Sanitizer) Option {
	return func(o *Options) {
		o.Sanitizer = s
	}
}

// WithSanitizing enables the built-in sanitizer
func WithSanitizing() Option {
	return func(o *Options) {
		o.Sanitize = true
	}
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithDebug sets the debug mode
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

// WithAuthor sets the PDF author
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// WithSubject sets the PDF subject
func WithSubject(subject string) Option {
	return func(o *Options) {
		o.Subject = subject
	}
}
