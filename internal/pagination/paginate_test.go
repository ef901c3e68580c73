package pagination

import (
	"strings"
	"testing"

	"github.com/gompdf/notepager/internal/parser/html"
	xhtml "golang.org/x/net/html"
)

func newTestPaginator(heightPx float64) *Paginator {
	est := NewEstimator(DefaultCalibration(), 672.756, DefaultSectionBreak())
	return NewPaginator(heightPx, DefaultSectionBreak(), est)
}

func para(s string) html.Block {
	return html.Block{Tag: "p", Text: s, HTML: "<p>" + s + "</p>"}
}

func heading2(s string) html.Block {
	return html.Block{Tag: "h2", Text: s, HTML: "<h2>" + s + "</h2>"}
}

func sectionBreak() html.Block {
	return html.Block{
		Tag:  "hr",
		Attr: []xhtml.Attribute{{Key: "data-section-break"}},
		HTML: `<hr data-section-break=""/>`,
	}
}

func bodies(pages []*Page) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.BodyHTML
	}
	return out
}

func TestPaginate_EmptyDocument(t *testing.T) {
	pages := newTestPaginator(880).Paginate(nil)
	if len(pages) != 1 {
		t.Fatalf("len(pages) = %d, want 1", len(pages))
	}
	if pages[0].BodyHTML != "" || pages[0].Index != 0 {
		t.Errorf("page = %+v, want empty page 0", pages[0])
	}
}

func TestPaginate_OnlySectionBreaks(t *testing.T) {
	pages := newTestPaginator(880).Paginate([]html.Block{sectionBreak(), sectionBreak(), sectionBreak()})
	if len(pages) != 1 {
		t.Fatalf("len(pages) = %d, want 1", len(pages))
	}
	if pages[0].BodyHTML != "" {
		t.Errorf("BodyHTML = %q, want empty", pages[0].BodyHTML)
	}
}

func TestPaginate_SectionBreakGroups(t *testing.T) {
	blocks := []html.Block{
		sectionBreak(),
		para("a1"), para("a2"),
		sectionBreak(), sectionBreak(),
		para("b1"),
		sectionBreak(),
		heading2("c1"), para("c2"),
		sectionBreak(),
	}

	pages := newTestPaginator(880).Paginate(blocks)
	want := []string{
		"<p>a1</p><p>a2</p>",
		"<p>b1</p>",
		"<h2>c1</h2><p>c2</p>",
	}
	got := bodies(pages)
	if len(got) != len(want) {
		t.Fatalf("pages = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("page %d body = %q, want %q", i, got[i], want[i])
		}
		if pages[i].Index != i {
			t.Errorf("page %d Index = %d", i, pages[i].Index)
		}
	}
}

func TestPaginate_CapacityPacking(t *testing.T) {
	tests := []struct {
		name    string
		height  float64
		blocks  int
		block   func(int) html.Block
		perPage []int
	}{
		// h2 = 44px; floor(880.63/44) = 20
		{"headings on A4", 880.63, 45, func(int) html.Block { return heading2("x") }, []int{20, 20, 5}},
		// empty paragraph = 38px; floor(100/38) = 2
		{"paragraphs in 100px", 100, 5, func(int) html.Block { return para("") }, []int{2, 2, 1}},
		// exact fit: 3*38 = 114
		{"exact fit", 114, 6, func(int) html.Block { return para("") }, []int{3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := make([]html.Block, tt.blocks)
			for i := range blocks {
				blocks[i] = tt.block(i)
			}
			pages := newTestPaginator(tt.height).Paginate(blocks)
			if len(pages) != len(tt.perPage) {
				t.Fatalf("len(pages) = %d, want %d", len(pages), len(tt.perPage))
			}
			for i, want := range tt.perPage {
				if pages[i].Blocks != want {
					t.Errorf("page %d Blocks = %d, want %d", i, pages[i].Blocks, want)
				}
			}
		})
	}
}

func TestPaginate_OversizedBlockAlone(t *testing.T) {
	big := html.Block{Tag: "table", Rows: 100, Cols: 3, HTML: "<table>big</table>"}
	blocks := []html.Block{para("before"), big, para("after")}

	pages := newTestPaginator(880).Paginate(blocks)
	want := []string{"<p>before</p>", "<table>big</table>", "<p>after</p>"}
	got := bodies(pages)
	if len(got) != len(want) {
		t.Fatalf("pages = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("page %d body = %q, want %q", i, got[i], want[i])
		}
	}
	if pages[1].Height <= 880 {
		t.Errorf("oversized page Height = %v, want > 880", pages[1].Height)
	}
}

func TestPaginate_ConsecutiveOversizedBlocks(t *testing.T) {
	big := html.Block{Tag: "table", Rows: 100, Cols: 3, HTML: "<table></table>"}
	pages := newTestPaginator(240).Paginate([]html.Block{big, big, big})
	if len(pages) != 3 {
		t.Errorf("len(pages) = %d, want 3", len(pages))
	}
}

func TestPaginate_Completeness(t *testing.T) {
	var blocks []html.Block
	var want strings.Builder
	for i := 0; i < 200; i++ {
		var b html.Block
		switch i % 7 {
		case 0:
			b = sectionBreak()
		case 1:
			b = heading2("heading")
		case 2:
			b = html.Block{Tag: "ul", Items: i % 5, HTML: "<ul></ul>"}
		case 3:
			b = html.Block{Tag: "table", Rows: i % 40, Cols: 3, HTML: "<table></table>"}
		default:
			b = para(strings.Repeat("word ", i))
		}
		b.HTML = b.HTML + "<!--" + string(rune('a'+i%26)) + "-->"
		blocks = append(blocks, b)
		if i%7 != 0 {
			want.WriteString(b.HTML)
		}
	}

	pages := newTestPaginator(880).Paginate(blocks)
	got := strings.Join(bodies(pages), "")
	if got != want.String() {
		t.Error("concatenated bodies do not reproduce the non-break blocks in order")
	}

	total := 0
	for i, p := range pages {
		if p.Blocks == 0 {
			t.Errorf("page %d is empty", i)
		}
		total += p.Blocks
	}
	if total != 200-29 {
		t.Errorf("total blocks = %d, want %d", total, 200-29)
	}
}

func TestPaginator_PageCount(t *testing.T) {
	blocks := make([]html.Block, 45)
	for i := range blocks {
		blocks[i] = heading2("x")
	}
	if got := len(newTestPaginator(880.63).Paginate(blocks)); got != 3 {
		t.Errorf("len(Paginate()) = %d, want 3", got)
	}
}
