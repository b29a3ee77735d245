package blogmirror

import "regexp"

// Tag is a user-defined topical label with its own paginated article listing.
// Names are unique within one run and become directory names after
// sanitization.
type Tag struct {
	Name string
	URL  string
}

// TagDiscoverer locates the blog's tag listing in the profile root page.
type TagDiscoverer interface {
	// DiscoverTags parses the tag index page and returns the tags found,
	// with hrefs resolved against baseURL. Returns ESTRUCTURE when the
	// tag container cannot be located or yields no tags.
	DiscoverTags(html string, baseURL string) ([]Tag, error)
}

// articleURLRE matches canonical article URLs: a /p/<digits>.html path
// segment at the end of the URL or before a fragment.
var articleURLRE = regexp.MustCompile(`/p/(\d+)\.html($|#)`)

// ArticleLink is an article URL plus the numeric identifier extracted from
// it. ID is empty when the URL shape is non-standard; deduplication and
// resume then fall back to the URL itself.
type ArticleLink struct {
	URL string
	ID  string
}

// Key returns the deduplication/resume identity of the link: the article id
// when known, else the URL.
func (l ArticleLink) Key() string {
	if l.ID != "" {
		return l.ID
	}
	return l.URL
}

// ArticleID extracts the numeric article identifier from a URL.
// Returns "" when the URL does not match the article pattern.
func ArticleID(rawURL string) string {
	m := articleURLRE.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// IsArticleURL reports whether a URL matches the article pattern.
func IsArticleURL(rawURL string) bool {
	return articleURLRE.MatchString(rawURL)
}
