package pagination

// PxPerMM converts millimetres to CSS pixels at 96 dpi.
const PxPerMM = 3.7795275591

// Lower bounds for the usable body. Configurations whose margins and bands
// eat the whole sheet still paginate instead of emitting endless pages.
const (
	MinBodyHeightPx = 240.0
	MinBodyWidthPx  = 300.0
)

// Geometry is the page geometry derived from Options
type Geometry struct {
	PageWidth  float64 `json:"pageWidthMm"`
	PageHeight float64 `json:"pageHeightMm"`
	// BodyWidth and BodyHeight are unclamped and may be negative.
	BodyWidth  float64 `json:"bodyWidthMm"`
	BodyHeight float64 `json:"bodyHeightMm"`
	// BodyWidthPx and BodyHeightPx are the packing budget after clamping.
	BodyWidthPx  float64 `json:"bodyWidthPx"`
	BodyHeightPx float64 `json:"bodyHeightPx"`
	// Clamped is set when either pixel dimension was raised to its minimum.
	Clamped bool `json:"clamped"`
}

// ComputeGeometry derives the usable body area from page size, margins and
// header/footer bands.
func ComputeGeometry(o Options) Geometry {
	g := Geometry{
		PageWidth:  o.PageWidth,
		PageHeight: o.PageHeight,
		BodyWidth:  o.PageWidth - o.MarginLeft - o.MarginRight,
		BodyHeight: o.PageHeight - o.MarginTop - o.MarginBottom - o.HeaderHeight - o.FooterHeight,
	}

	g.BodyWidthPx = g.BodyWidth * PxPerMM
	if g.BodyWidthPx < MinBodyWidthPx {
		g.BodyWidthPx = MinBodyWidthPx
		g.Clamped = true
	}
	g.BodyHeightPx = g.BodyHeight * PxPerMM
	if g.BodyHeightPx < MinBodyHeightPx {
		g.BodyHeightPx = MinBodyHeightPx
		g.Clamped = true
	}
	return g
}
