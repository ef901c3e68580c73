package html

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gompdf/notepager/pkg/errors"
)

// Block is a single top-level element of a document fragment. Nested
// structure is opaque: it survives only inside HTML.
type Block struct {
	// Tag is the lower-case element name, or "" for stray top-level text.
	Tag  string
	Attr []html.Attribute
	// HTML is the serialized element including its own tags.
	HTML string
	// Text is the trimmed plain-text content with markup stripped.
	Text string

	Rows  int // tables: every tr, header rows included
	Cols  int // tables: cells of the first row
	Items int // lists: direct li children

	node *html.Node
}

// AttrValue returns the value of the named attribute.
func (b Block) AttrValue(key string) (string, bool) {
	for _, a := range b.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// HasClass reports whether the class attribute contains name as a token.
func (b Block) HasClass(name string) bool {
	v, ok := b.AttrValue("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == name {
			return true
		}
	}
	return false
}

// TextLen is the length of Text in code points.
func (b Block) TextLen() int {
	return utf8.RuneCountInString(b.Text)
}

// Parser turns block-level markup into an ordered slice of Blocks
type Parser struct{}

// NewParser creates a new HTML block parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseBlocks parses markup from a string
func (p *Parser) ParseBlocks(markup string) ([]Block, error) {
	return p.Parse(strings.NewReader(markup))
}

// Parse reads a fragment as if it were the content of <body> and returns its
// top-level children in document order. Comments and whitespace-only text
// are not blocks.
func (p *Parser) Parse(r io.Reader) ([]Block, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parsing block markup")
	}

	return blocksFromNodes(nodes)
}

// Children returns the child nodes of b as blocks, following the same rules
// as Parse. Blocks not produced by Parse have no children.
func (b Block) Children() ([]Block, error) {
	if b.node == nil {
		return nil, nil
	}
	var nodes []*html.Node
	for c := b.node.FirstChild; c != nil; c = c.NextSibling {
		nodes = append(nodes, c)
	}
	return blocksFromNodes(nodes)
}

func blocksFromNodes(nodes []*html.Node) ([]Block, error) {
	blocks := make([]Block, 0, len(nodes))
	for _, n := range nodes {
		switch n.Type {
		case html.ElementNode:
		case html.TextNode:
			if strings.TrimSpace(n.Data) == "" {
				continue
			}
		default:
			continue
		}

		var buf bytes.Buffer
		if err := html.Render(&buf, n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "serializing <%s> block", n.Data)
		}

		b := Block{
			HTML: buf.String(),
			Text: strings.TrimSpace(textContent(n)),
		}
		if n.Type == html.ElementNode {
			b.Tag = strings.ToLower(n.Data)
			b.Attr = n.Attr
			b.node = n
			countStructure(n, &b)
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// PlainText returns the trimmed text content of a markup fragment, with
// top-level blocks separated by newlines.
func (p *Parser) PlainText(markup string) (string, error) {
	blocks, err := p.ParseBlocks(markup)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.Text != "" {
			lines = append(lines, b.Text)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				sb.WriteString(c.Data)
			case html.ElementNode:
				walk(c)
			}
		}
	}
	walk(n)
	return sb.String()
}

// countStructure fills the table and list metrics of b from n.
func countStructure(n *html.Node, b *Block) {
	switch n.DataAtom {
	case atom.Table:
		var firstRow *html.Node
		var walk func(*html.Node)
		walk = func(cur *html.Node) {
			for c := cur.FirstChild; c != nil; c = c.NextSibling {
				if c.Type != html.ElementNode {
					continue
				}
				if c.DataAtom == atom.Tr {
					b.Rows++
					if firstRow == nil {
						firstRow = c
					}
				}
				walk(c)
			}
		}
		walk(n)
		if firstRow != nil {
			for c := firstRow.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
					b.Cols++
				}
			}
		}
	case atom.Ul, atom.Ol:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.Li {
				b.Items++
			}
		}
	}
}

// ListItems returns the trimmed text of each direct li child of the first
// list in markup.
func (p *Parser) ListItems(markup string) ([]string, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parsing list markup")
	}
	for _, n := range nodes {
		if n.Type != html.ElementNode || (n.DataAtom != atom.Ul && n.DataAtom != atom.Ol) {
			continue
		}
		var items []string
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.Li {
				items = append(items, strings.TrimSpace(textContent(c)))
			}
		}
		return items, nil
	}
	return nil, nil
}
