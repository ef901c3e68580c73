package pagination

import (
	"math"

	"github.com/gompdf/notepager/internal/parser/html"
	"github.com/gompdf/notepager/pkg/errors"
)

// Calibration holds the constants of the block height heuristics, in pixels.
// The formula shapes are fixed (linear in rows, columns, lines and items);
// the numbers are tuned against one rendering pipeline and should be
// re-tuned for another.
type Calibration struct {
	// MarkerHeight is used for <hr> and <br> blocks that are not section breaks.
	MarkerHeight float64 `json:"markerHeight" toml:"marker_height" yaml:"marker_height"`

	TableBase   float64 `json:"tableBase" toml:"table_base" yaml:"table_base"`
	TableRow    float64 `json:"tableRow" toml:"table_row" yaml:"table_row"`
	TableColumn float64 `json:"tableColumn" toml:"table_column" yaml:"table_column"`

	QuoteBase         float64 `json:"quoteBase" toml:"quote_base" yaml:"quote_base"`
	QuoteLine         float64 `json:"quoteLine" toml:"quote_line" yaml:"quote_line"`
	QuoteCharsPerLine int     `json:"quoteCharsPerLine" toml:"quote_chars_per_line" yaml:"quote_chars_per_line"`

	CodeBase         float64 `json:"codeBase" toml:"code_base" yaml:"code_base"`
	CodeLine         float64 `json:"codeLine" toml:"code_line" yaml:"code_line"`
	CodeCharsPerLine int     `json:"codeCharsPerLine" toml:"code_chars_per_line" yaml:"code_chars_per_line"`

	H1 float64 `json:"h1" toml:"h1" yaml:"h1"`
	H2 float64 `json:"h2" toml:"h2" yaml:"h2"`
	H3 float64 `json:"h3" toml:"h3" yaml:"h3"`

	ListBase float64 `json:"listBase" toml:"list_base" yaml:"list_base"`
	ListItem float64 `json:"listItem" toml:"list_item" yaml:"list_item"`

	ParagraphBase   float64 `json:"paragraphBase" toml:"paragraph_base" yaml:"paragraph_base"`
	ParagraphLine   float64 `json:"paragraphLine" toml:"paragraph_line" yaml:"paragraph_line"`
	CharWidth       float64 `json:"charWidth" toml:"char_width" yaml:"char_width"`
	MinCharsPerLine int     `json:"minCharsPerLine" toml:"min_chars_per_line" yaml:"min_chars_per_line"`
}

// DefaultCalibration returns the stock heuristic constants.
func DefaultCalibration() Calibration {
	return Calibration{
		MarkerHeight: 24,

		TableBase:   36,
		TableRow:    24,
		TableColumn: 6,

		QuoteBase:         44,
		QuoteLine:         18,
		QuoteCharsPerLine: 90,

		CodeBase:         40,
		CodeLine:         16,
		CodeCharsPerLine: 65,

		H1: 52,
		H2: 44,
		H3: 40,

		ListBase: 18,
		ListItem: 24,

		ParagraphBase:   20,
		ParagraphLine:   18,
		CharWidth:       8,
		MinCharsPerLine: 30,
	}
}

// Validate rejects negative, NaN and infinite constants.
func (c Calibration) Validate() error {
	lengths := []struct {
		name string
		v    float64
	}{
		{"marker_height", c.MarkerHeight},
		{"table_base", c.TableBase},
		{"table_row", c.TableRow},
		{"table_column", c.TableColumn},
		{"quote_base", c.QuoteBase},
		{"quote_line", c.QuoteLine},
		{"quote_chars_per_line", float64(c.QuoteCharsPerLine)},
		{"code_base", c.CodeBase},
		{"code_line", c.CodeLine},
		{"code_chars_per_line", float64(c.CodeCharsPerLine)},
		{"h1", c.H1},
		{"h2", c.H2},
		{"h3", c.H3},
		{"list_base", c.ListBase},
		{"list_item", c.ListItem},
		{"paragraph_base", c.ParagraphBase},
		{"paragraph_line", c.ParagraphLine},
		{"char_width", c.CharWidth},
		{"min_chars_per_line", float64(c.MinCharsPerLine)},
	}
	for _, l := range lengths {
		if !(l.v >= 0) || math.IsInf(l.v, 1) {
			return errors.New(errors.ErrCodeInvalidConfig, "calibration %s must be finite and non-negative, got %v", l.name, l.v)
		}
	}
	return nil
}

// Estimator guesses the rendered height of a block without laying it out.
// The same block and width always produce the same height.
type Estimator struct {
	cal    Calibration
	width  float64
	breaks SectionBreak
}

// NewEstimator creates an estimator for a body widthPx pixels wide.
func NewEstimator(cal Calibration, widthPx float64, breaks SectionBreak) *Estimator {
	return &Estimator{cal: cal, width: widthPx, breaks: breaks}
}

// Estimate returns the estimated height of b in pixels.
func (e *Estimator) Estimate(b html.Block) float64 {
	if e.breaks.Matches(b) {
		return 0
	}

	c := e.cal
	n := b.TextLen()

	switch b.Tag {
	case "hr", "br":
		return c.MarkerHeight
	case "table":
		return c.TableBase + float64(b.Rows)*c.TableRow + float64(b.Cols)*c.TableColumn
	case "blockquote":
		return c.QuoteBase + lines(n, c.QuoteCharsPerLine)*c.QuoteLine
	case "pre":
		return c.CodeBase + lines(n, c.CodeCharsPerLine)*c.CodeLine
	case "h1":
		return c.H1
	case "h2":
		return c.H2
	case "h3":
		return c.H3
	case "ul", "ol":
		items := b.Items
		if items < 1 {
			items = 1
		}
		return c.ListBase + float64(items)*c.ListItem
	}

	perLine := 0
	if c.CharWidth > 0 {
		perLine = int(math.Floor(e.width / c.CharWidth))
	}
	if perLine < c.MinCharsPerLine {
		perLine = c.MinCharsPerLine
	}
	return c.ParagraphBase + math.Max(1, lines(n, perLine))*c.ParagraphLine
}

// lines is ceil(n/perLine); a non-positive perLine counts everything as one line.
func lines(n, perLine int) float64 {
	if perLine <= 0 {
		if n == 0 {
			return 0
		}
		return 1
	}
	return math.Ceil(float64(n) / float64(perLine))
}
