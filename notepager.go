// Package notepager splits rich-text note markup into printable pages with
// running headers and footers.
package notepager

import (
	"github.com/gompdf/notepager/pkg/api"
)

type Paginator = api.Paginator
type Options = api.Options
type Option = api.Option
type LayoutConfig = api.LayoutConfig
type Overrides = api.Overrides
type MarginOverrides = api.MarginOverrides
type Margins = api.Margins
type Input = api.Input
type Layout = api.Layout
type Page = api.Page
type PageSize = api.PageSize
type PaperSize = api.PaperSize
type PageOrientation = api.PageOrientation
type SectionBreak = api.SectionBreak
type Calibration = api.Calibration
type FileConfig = api.FileConfig

func New(opts ...Option) *Paginator                    { return api.New(opts...) }
func NewWithOptions(options Options) *Paginator        { return api.NewWithOptions(options) }
func DefaultOptions() Options                          { return api.DefaultOptions() }
func DefaultLayoutConfig() LayoutConfig                { return api.DefaultLayoutConfig() }
func MergeConfig(o *Overrides) (LayoutConfig, error)   { return api.MergeConfig(o) }
func ResolvePageSize(c LayoutConfig) (PageSize, error) { return api.ResolvePageSize(c) }
func LoadConfigFile(path string) (*FileConfig, error)  { return api.LoadConfigFile(path) }

var (
	WithPaperSize       = api.WithPaperSize
	WithPageSizeA4      = api.WithPageSizeA4
	WithPageSizeLetter  = api.WithPageSizeLetter
	WithPageSizeLegal   = api.WithPageSizeLegal
	WithPageOrientation = api.WithPageOrientation
	WithMargins         = api.WithMargins
	WithBands           = api.WithBands
	WithHeaderTemplate  = api.WithHeaderTemplate
	WithFooterTemplate  = api.WithFooterTemplate
	WithSectionBreak    = api.WithSectionBreak
	WithCalibration     = api.WithCalibration
	WithParser          = api.WithParser
	WithoutParser       = api.WithoutParser
	WithSanitizer       = api.WithSanitizer
	WithSanitizing      = api.WithSanitizing
	WithConfigFile      = api.WithConfigFile
	WithLogger          = api.WithLogger
	WithDebug           = api.WithDebug
	WithAuthor          = api.WithAuthor
	WithSubject         = api.WithSubject
)

const (
	PaperA4     = api.PaperA4
	PaperLetter = api.PaperLetter
	PaperLegal  = api.PaperLegal

	PageSizeA4Width      = api.PageSizeA4Width
	PageSizeA4Height     = api.PageSizeA4Height
	PageSizeLetterWidth  = api.PageSizeLetterWidth
	PageSizeLetterHeight = api.PageSizeLetterHeight
	PageSizeLegalWidth   = api.PageSizeLegalWidth
	PageSizeLegalHeight  = api.PageSizeLegalHeight

	PageOrientationPortrait  = api.PageOrientationPortrait
	PageOrientationLandscape = api.PageOrientationLandscape
)
