package mock

import "github.com/chuchengzhi/blogmirror"

var _ blogmirror.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of blogmirror.Extractor.
type Extractor struct {
	ExtractFn func(html, pageURL string) (*blogmirror.Article, error)
}

func (e *Extractor) Extract(html, pageURL string) (*blogmirror.Article, error) {
	return e.ExtractFn(html, pageURL)
}

var _ blogmirror.Converter = (*Converter)(nil)

// Converter is a mock implementation of blogmirror.Converter.
type Converter struct {
	ConvertFn func(html string) string
}

func (c *Converter) Convert(html string) string {
	return c.ConvertFn(html)
}
