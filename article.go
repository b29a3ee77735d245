package blogmirror

// Article holds the extracted content of one article page.
type Article struct {
	// Title of the article; falls back to the page <title> and finally
	// to the literal "untitled".
	Title string

	// BodyHTML is the article body with boilerplate removed and image
	// sources absolutized.
	BodyHTML string

	// URL is the article's source URL.
	URL string

	// ID is the numeric article identifier, empty when unknown.
	ID string
}

// Extractor isolates title and body from an article page.
type Extractor interface {
	// Extract processes a fetched article page. The pageURL is used to
	// resolve relative image sources. Returns ESTRUCTURE when the
	// content container cannot be found.
	Extract(html string, pageURL string) (*Article, error)
}

// ListingPage is the parse result of one tag listing page.
type ListingPage struct {
	// Links are the article links found on the page, in document order,
	// not yet deduplicated across pages.
	Links []ArticleLink

	// NextURL is the resolved next-page URL, empty when the page has no
	// usable next link.
	NextURL string
}

// ListingParser parses a single tag listing page. Walking the page chain
// is the crawl orchestrator's job.
type ListingParser interface {
	ParseListing(html string, pageURL string) (*ListingPage, error)
}

// Converter converts article body HTML to Markdown.
type Converter interface {
	// Convert never fails: on conversion errors it degrades to plain
	// text and, as a last resort, returns the input HTML unchanged.
	Convert(html string) string
}
