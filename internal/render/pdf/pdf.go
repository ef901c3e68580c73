package pdf

import (
	"io"
	"strconv"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/charmbracelet/log"

	"github.com/gompdf/notepager/internal/pagination"
	"github.com/gompdf/notepager/internal/parser/html"
	"github.com/gompdf/notepager/internal/text"
)

// Renderer writes a text proof of a page sequence: header band, body blocks
// and footer band on sheets of the resolved size. It does not rasterize
// markup.
type Renderer struct {
	// Debug enables verbose logging
	Debug bool

	parser *html.Parser
	logger *log.Logger
}

// RenderOptions contains options for rendering. Lengths are in millimetres.
type RenderOptions struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Producer string

	PageWidth    float64
	PageHeight   float64
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64
	HeaderHeight float64
	FooterHeight float64
}

// textStyle is the font used for one block kind
type textStyle struct {
	family string
	style  string
	size   float64 // points
}

var blockStyles = map[string]textStyle{
	"h1":         {"Helvetica", "B", 18},
	"h2":         {"Helvetica", "B", 15},
	"h3":         {"Helvetica", "B", 13},
	"pre":        {"Courier", "", 9},
	"blockquote": {"Helvetica", "I", 10.5},
	"table":      {"Helvetica", "", 9},
}

var bodyStyle = textStyle{"Helvetica", "", 10.5}

const ptToMM = 25.4 / 72

// NewRenderer creates a new PDF renderer
func NewRenderer() *Renderer {
	return &Renderer{
		parser: html.NewParser(),
		logger: log.New(io.Discard),
	}
}

// SetLogger sets the logger; nil discards output.
func (r *Renderer) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	r.logger = l
}

// Render writes one PDF page per layout page to w.
func (r *Renderer) Render(w io.Writer, pages []pagination.Page, options RenderOptions) error {
	producer := options.Producer
	if producer == "" {
		producer = "notepager"
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: options.PageWidth, Ht: options.PageHeight},
	})
	pdf.SetMargins(options.MarginLeft, options.MarginTop, options.MarginRight)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(options.Title, true)
	pdf.SetAuthor(options.Author, true)
	pdf.SetSubject(options.Subject, true)
	pdf.SetCreator(options.Creator, true)
	pdf.SetProducer(producer, true)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	bodyWidth := options.PageWidth - options.MarginLeft - options.MarginRight
	bodyTop := options.MarginTop + options.HeaderHeight
	bodyBottom := options.PageHeight - options.MarginBottom - options.FooterHeight

	if r.Debug {
		r.logger.Debugf("rendering %d pages at %.1fx%.1f mm", len(pages), options.PageWidth, options.PageHeight)
	}

	for _, page := range pages {
		pdf.AddPage()

		header, err := r.parser.PlainText(page.HeaderHTML)
		if err != nil {
			return err
		}
		r.setStyle(pdf, textStyle{"Helvetica", "", 9})
		pdf.SetXY(options.MarginLeft, options.MarginTop)
		pdf.CellFormat(bodyWidth, options.HeaderHeight, tr(oneLine(header)), "B", 0, "LM", false, 0, "")

		blocks, err := r.parser.ParseBlocks(page.BodyHTML)
		if err != nil {
			return err
		}
		pdf.SetXY(options.MarginLeft, bodyTop+2)
		for i, b := range blocks {
			if pdf.GetY() >= bodyBottom {
				r.logger.Debug("body overflows page, clipping", "page", page.Index+1, "skipped", len(blocks)-i)
				break
			}
			if err := r.renderBlock(pdf, tr, b, bodyWidth); err != nil {
				return err
			}
		}

		footer, err := r.parser.PlainText(page.FooterHTML)
		if err != nil {
			return err
		}
		r.setStyle(pdf, textStyle{"Helvetica", "", 9})
		pdf.SetXY(options.MarginLeft, bodyBottom)
		pdf.CellFormat(bodyWidth, options.FooterHeight, tr(oneLine(footer)), "T", 0, "CM", false, 0, "")
	}

	return pdf.Output(w)
}

// renderBlock writes one block as wrapped text at the current position
func (r *Renderer) renderBlock(pdf *fpdf.Fpdf, tr func(string) string, b html.Block, width float64) error {
	style, ok := blockStyles[b.Tag]
	if !ok {
		style = bodyStyle
	}
	r.setStyle(pdf, style)
	lineHeight := style.size * ptToMM * 1.4

	switch b.Tag {
	case "hr", "br":
		y := pdf.GetY() + lineHeight/2
		pdf.Line(pdf.GetX(), y, pdf.GetX()+width, y)
		pdf.Ln(lineHeight)
		return nil
	case "ul", "ol":
		items, err := r.parser.ListItems(b.HTML)
		if err != nil {
			return err
		}
		for i, item := range items {
			marker := "-"
			if b.Tag == "ol" {
				marker = strconv.Itoa(i+1) + "."
			}
			item = text.Normalize(item)
			pdf.MultiCell(width, lineHeight, tr(marker+" "+item), "", align(item), false)
		}
		pdf.Ln(lineHeight / 2)
		return nil
	}

	body := text.Normalize(b.Text)
	if b.Tag == "pre" {
		body = text.Compose(b.Text)
	}
	if body == "" {
		pdf.Ln(lineHeight)
		return nil
	}
	pdf.MultiCell(width, lineHeight, tr(body), "", align(body), false)
	pdf.Ln(lineHeight / 2)
	return nil
}

func (r *Renderer) setStyle(pdf *fpdf.Fpdf, s textStyle) {
	pdf.SetFont(s.family, s.style, s.size)
}

// align right-aligns paragraphs that open with right-to-left text
func align(s string) string {
	if text.ParagraphDirection(s) == text.RightToLeft {
		return "R"
	}
	return "L"
}

// oneLine collapses header and footer text onto a single line
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

