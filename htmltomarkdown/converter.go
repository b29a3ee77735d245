// Package htmltomarkdown converts article body HTML to Markdown with a
// degrade chain: a tuned converter, the library defaults, flattened plain
// text, and finally the raw input. Conversion never fails.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/chuchengzhi/blogmirror"
)

// stringConverter is the part of *converter.Converter the degrade chain
// depends on.
type stringConverter interface {
	ConvertString(html string, opts ...converter.ConvertOptionFunc) (string, error)
}

// Ensure Converter implements blogmirror.Converter at compile time.
var _ blogmirror.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown with ATX headings and "-" bullets,
// retrying with default options before degrading to plain text.
type Converter struct {
	primary  stringConverter
	fallback stringConverter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	primary := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle(commonmark.HeadingStyleATX),
				commonmark.WithBulletListMarker("-"),
			),
			table.NewTablePlugin(),
		),
	)
	fallback := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	return &Converter{primary: primary, fallback: fallback}
}

// Convert transforms HTML into Markdown. Empty input converts to "".
func (c *Converter) Convert(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	if md, err := c.primary.ConvertString(html); err == nil {
		return md
	}
	if md, err := c.fallback.ConvertString(html); err == nil {
		return md
	}
	if text, err := flattenText(html); err == nil {
		return text
	}
	return html
}

// flattenText strips all markup and returns the text nodes newline-joined.
func flattenText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	var lines []string
	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		if sel.Children().Length() > 0 {
			return
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	if len(lines) == 0 {
		if text := strings.TrimSpace(doc.Text()); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n"), nil
}
