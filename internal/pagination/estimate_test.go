package pagination

import (
	"math"
	"strings"
	"testing"

	"github.com/gompdf/notepager/internal/parser/html"
	"github.com/gompdf/notepager/pkg/errors"
	xhtml "golang.org/x/net/html"
)

func TestComputeGeometry_Defaults(t *testing.T) {
	g := ComputeGeometry(NewEngine().options)

	if g.BodyWidth != 178 || g.BodyHeight != 233 {
		t.Errorf("body = %vx%v mm, want 178x233", g.BodyWidth, g.BodyHeight)
	}
	if math.Abs(g.BodyWidthPx-672.756) > 0.01 {
		t.Errorf("BodyWidthPx = %v, want ~672.756", g.BodyWidthPx)
	}
	if math.Abs(g.BodyHeightPx-880.630) > 0.01 {
		t.Errorf("BodyHeightPx = %v, want ~880.630", g.BodyHeightPx)
	}
	if g.Clamped {
		t.Error("default geometry should not be clamped")
	}
}

func TestComputeGeometry_ClampsDegenerateConfig(t *testing.T) {
	opts := NewEngine().options
	opts.MarginTop, opts.MarginBottom = 150, 150
	opts.MarginLeft, opts.MarginRight = 120, 120

	g := ComputeGeometry(opts)
	if !g.Clamped {
		t.Error("Clamped = false, want true")
	}
	if g.BodyHeight >= 0 {
		t.Errorf("BodyHeight = %v, want negative unclamped value", g.BodyHeight)
	}
	if g.BodyHeightPx != MinBodyHeightPx || g.BodyWidthPx != MinBodyWidthPx {
		t.Errorf("body px = %vx%v, want %vx%v", g.BodyWidthPx, g.BodyHeightPx, MinBodyWidthPx, MinBodyHeightPx)
	}
}

func text(n int) string { return strings.Repeat("a", n) }

func TestEstimator_Estimate(t *testing.T) {
	breakAttr := []xhtml.Attribute{{Key: "data-section-break"}}
	breakClass := []xhtml.Attribute{{Key: "class", Val: "section-break"}}

	tests := []struct {
		name  string
		block html.Block
		width float64
		want  float64
	}{
		{"table", html.Block{Tag: "table", Rows: 3, Cols: 3}, 672, 126},
		{"table ignores text", html.Block{Tag: "table", Rows: 1, Cols: 2, Text: text(500)}, 672, 72},
		{"blockquote one line", html.Block{Tag: "blockquote", Text: text(90)}, 672, 62},
		{"blockquote two lines", html.Block{Tag: "blockquote", Text: text(100)}, 672, 80},
		{"empty blockquote", html.Block{Tag: "blockquote"}, 672, 44},
		{"pre two lines", html.Block{Tag: "pre", Text: text(130)}, 672, 72},
		{"pre three lines", html.Block{Tag: "pre", Text: text(131)}, 672, 88},
		{"h1", html.Block{Tag: "h1", Text: text(400)}, 672, 52},
		{"h2", html.Block{Tag: "h2"}, 672, 44},
		{"h3", html.Block{Tag: "h3"}, 672, 40},
		{"h4 uses paragraph rule", html.Block{Tag: "h4", Text: "x"}, 672, 38},
		{"ul", html.Block{Tag: "ul", Items: 3}, 672, 90},
		{"ol", html.Block{Tag: "ol", Items: 5}, 672, 138},
		{"empty list counts one item", html.Block{Tag: "ul"}, 672, 42},
		{"empty paragraph", html.Block{Tag: "p"}, 672, 38},
		{"paragraph wraps at width/8", html.Block{Tag: "p", Text: text(85)}, 672.756, 56},
		{"paragraph exact line", html.Block{Tag: "p", Text: text(84)}, 672.756, 38},
		{"narrow width floors at 30 chars", html.Block{Tag: "p", Text: text(61)}, 100, 74},
		{"unknown tag", html.Block{Tag: "figure", Text: text(10)}, 672, 38},
		{"stray text", html.Block{Text: text(10)}, 672, 38},
		{"hr marker", html.Block{Tag: "hr"}, 672, 24},
		{"br marker", html.Block{Tag: "br"}, 672, 24},
		{"hr section break", html.Block{Tag: "hr", Attr: breakAttr}, 672, 0},
		{"div section break", html.Block{Tag: "div", Attr: breakClass, Text: text(900)}, 672, 0},
		{"section-break element", html.Block{Tag: "section-break"}, 672, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEstimator(DefaultCalibration(), tt.width, DefaultSectionBreak())
			if got := e.Estimate(tt.block); got != tt.want {
				t.Errorf("Estimate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEstimator_Deterministic(t *testing.T) {
	e := NewEstimator(DefaultCalibration(), 672.756, DefaultSectionBreak())
	b := html.Block{Tag: "p", Text: text(1234)}
	first := e.Estimate(b)
	for i := 0; i < 10; i++ {
		if got := e.Estimate(b); got != first {
			t.Fatalf("Estimate() = %v on run %d, want %v", got, i, first)
		}
	}
}

func TestEstimator_CustomCalibration(t *testing.T) {
	cal := DefaultCalibration()
	cal.TableBase, cal.TableRow, cal.TableColumn = 10, 1, 1
	cal.CharWidth = 0

	e := NewEstimator(cal, 672, DefaultSectionBreak())
	if got := e.Estimate(html.Block{Tag: "table", Rows: 5, Cols: 2}); got != 17 {
		t.Errorf("table Estimate() = %v, want 17", got)
	}
	// zero char width falls back to the minimum chars per line
	if got := e.Estimate(html.Block{Tag: "p", Text: text(31)}); got != 56 {
		t.Errorf("paragraph Estimate() = %v, want 56", got)
	}
}

func TestCalibration_Validate(t *testing.T) {
	if err := DefaultCalibration().Validate(); err != nil {
		t.Fatalf("default calibration rejected: %v", err)
	}

	tests := []struct {
		name  string
		apply func(*Calibration)
	}{
		{"negative table row", func(c *Calibration) { c.TableRow = -5 }},
		{"NaN char width", func(c *Calibration) { c.CharWidth = math.NaN() }},
		{"infinite h1", func(c *Calibration) { c.H1 = math.Inf(1) }},
		{"negative code chars", func(c *Calibration) { c.CodeCharsPerLine = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := DefaultCalibration()
			tt.apply(&cal)
			if err := cal.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestSectionBreak_Matches(t *testing.T) {
	tests := []struct {
		name  string
		sel   SectionBreak
		block html.Block
		want  bool
	}{
		{"attribute", DefaultSectionBreak(), html.Block{Tag: "hr", Attr: []xhtml.Attribute{{Key: "data-section-break", Val: "true"}}}, true},
		{"class token", DefaultSectionBreak(), html.Block{Tag: "div", Attr: []xhtml.Attribute{{Key: "class", Val: "x section-break"}}}, true},
		{"element", DefaultSectionBreak(), html.Block{Tag: "section-break"}, true},
		{"plain hr", DefaultSectionBreak(), html.Block{Tag: "hr"}, false},
		{"stray text never", DefaultSectionBreak(), html.Block{Text: "section-break"}, false},
		{"custom element", SectionBreak{Element: "hr"}, html.Block{Tag: "hr"}, true},
		{"zero selector", SectionBreak{}, html.Block{Tag: "section-break"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sel.Matches(tt.block); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
