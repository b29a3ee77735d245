package mock

import "github.com/chuchengzhi/blogmirror"

var _ blogmirror.TagDiscoverer = (*TagDiscoverer)(nil)

// TagDiscoverer is a mock implementation of blogmirror.TagDiscoverer.
type TagDiscoverer struct {
	DiscoverTagsFn func(html, baseURL string) ([]blogmirror.Tag, error)
}

func (d *TagDiscoverer) DiscoverTags(html, baseURL string) ([]blogmirror.Tag, error) {
	return d.DiscoverTagsFn(html, baseURL)
}

var _ blogmirror.ListingParser = (*ListingParser)(nil)

// ListingParser is a mock implementation of blogmirror.ListingParser.
type ListingParser struct {
	ParseListingFn func(html, pageURL string) (*blogmirror.ListingPage, error)
}

func (p *ListingParser) ParseListing(html, pageURL string) (*blogmirror.ListingPage, error) {
	return p.ParseListingFn(html, pageURL)
}
