// Package markdown converts a page sequence to Markdown.
package markdown

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/gompdf/notepager/internal/pagination"
)

// pageSeparator is a thematic break between pages.
const pageSeparator = "\n\n---\n\n"

// Converter renders page bodies as CommonMark with GFM tables.
type Converter struct {
	md *converter.Converter
}

// NewConverter creates a converter with the base, commonmark and table plugins.
func NewConverter() *Converter {
	return &Converter{
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Convert returns every page body as Markdown, each preceded by an HTML
// comment naming the page, pages separated by thematic breaks.
func (c *Converter) Convert(pages []pagination.Page) (string, error) {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		body, err := c.md.ConvertString(p.BodyHTML)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", p.Index+1, err)
		}
		marker := fmt.Sprintf("<!-- page %d of %d -->", p.Index+1, len(pages))
		body = strings.TrimSpace(body)
		if body == "" {
			parts = append(parts, marker)
			continue
		}
		parts = append(parts, marker+"\n\n"+body)
	}
	return strings.Join(parts, pageSeparator) + "\n", nil
}
