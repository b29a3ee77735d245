package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chuchengzhi/blogmirror"
)

// contentScopeSelectors are tried in order to narrow the link scan to the
// listing's content region, keeping navigation and sidebar links out.
var contentScopeSelectors = []string{"#mainContent", "#main", ".main", ".forFlow", "body"}

// fallbackLinkSelectors are the secondary pass for listings whose content
// scope yields no article links: title-bearing anchors.
var fallbackLinkSelectors = "a[title], h2 a, h3 a, .postTitle a, .entrylistTitle a"

// nextPageTextRE matches the visible text of a next-page anchor.
var nextPageTextRE = regexp.MustCompile(`(?i)下一页|下页|Next`)

// pagerClassRE matches class attributes of pagination containers.
var pagerClassRE = regexp.MustCompile(`(?i)pager|paging|page`)

// Ensure ListingParser implements blogmirror.ListingParser at compile time.
var _ blogmirror.ListingParser = (*ListingParser)(nil)

// ListingParser parses one page of a tag's article listing.
type ListingParser struct{}

// NewListingParser creates a new ListingParser.
func NewListingParser() *ListingParser {
	return &ListingParser{}
}

// ParseListing collects the article links on a listing page, in document
// order, and resolves the page's next-page link if one exists. Cross-page
// deduplication and loop termination belong to the crawl orchestrator.
func (p *ListingParser) ParseListing(html string, pageURL string) (*blogmirror.ListingPage, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, blogmirror.Errorf(blogmirror.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, blogmirror.Errorf(blogmirror.EINVALID, "failed to parse HTML: %v", err)
	}

	links := collectArticleLinks(contentScope(doc).Find("a[href]"), base)
	if len(links) == 0 {
		links = collectArticleLinks(doc.Find(fallbackLinkSelectors), base)
	}

	return &blogmirror.ListingPage{
		Links:   links,
		NextURL: findNextPageURL(doc, base),
	}, nil
}

// contentScope returns the first matching content-container selection,
// falling back to the whole document.
func contentScope(doc *goquery.Document) *goquery.Selection {
	for _, selector := range contentScopeSelectors {
		if scope := doc.Find(selector); scope.Length() > 0 {
			return scope.First()
		}
	}
	return doc.Selection
}

// collectArticleLinks scans a selection of anchors for article URLs,
// preserving document order. Duplicates within the page are kept; the
// crawler's seen-set drops them.
func collectArticleLinks(anchors *goquery.Selection, base *url.URL) []blogmirror.ArticleLink {
	var links []blogmirror.ArticleLink

	anchors.Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		resolved := resolveURL(base, strings.TrimSpace(href))
		if resolved == "" || !blogmirror.IsArticleURL(resolved) {
			return
		}
		links = append(links, blogmirror.ArticleLink{
			URL: resolved,
			ID:  blogmirror.ArticleID(resolved),
		})
	})

	return links
}

// findNextPageURL locates the next-page link: anchor text matching the
// next-page phrase, else rel=next, else the phrase inside a pager-class
// container. Returns the resolved URL or "".
func findNextPageURL(doc *goquery.Document, base *url.URL) string {
	var href string

	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if !nextPageTextRE.MatchString(strings.TrimSpace(a.Text())) {
			return true
		}
		href, _ = a.Attr("href")
		return false
	})

	if href == "" {
		doc.Find("a[rel]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			rel, _ := a.Attr("rel")
			if !strings.Contains(strings.ToLower(rel), "next") {
				return true
			}
			href, _ = a.Attr("href")
			return href == ""
		})
	}

	if href == "" {
		doc.Find("[class]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			class, _ := sel.Attr("class")
			if !pagerClassRE.MatchString(class) {
				return true
			}
			sel.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
				if !nextPageTextRE.MatchString(strings.TrimSpace(a.Text())) {
					return true
				}
				href, _ = a.Attr("href")
				return false
			})
			return href == ""
		})
	}

	if strings.TrimSpace(href) == "" {
		return ""
	}
	return resolveURL(base, strings.TrimSpace(href))
}
