// Package goquery implements the platform-specific parsing services
// (tag discovery, listing pages, article extraction) on top of goquery.
// The selector heuristics target cnblogs.com markup and are ordered
// fallback chains: each strategy either produces a result or hands off
// to the next.
package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chuchengzhi/blogmirror"
)

// tagHeadingMarker is the visible heading of the blog's tag listing block.
const tagHeadingMarker = "我的标签"

// tagCountRE matches a tag link text of the form "name(12)".
var tagCountRE = regexp.MustCompile(`^\s*(.*?)\s*\((\d+)\)\s*$`)

// tagAttrRE matches id/class attributes of tag-related containers.
var tagAttrRE = regexp.MustCompile(`(?i)tag`)

// Ensure Discoverer implements blogmirror.TagDiscoverer at compile time.
var _ blogmirror.TagDiscoverer = (*Discoverer)(nil)

// Discoverer locates the "my tags" block in the blog's tag index page.
type Discoverer struct{}

// NewDiscoverer creates a new Discoverer.
func NewDiscoverer() *Discoverer {
	return &Discoverer{}
}

// DiscoverTags parses the tag index page and returns the tags found.
// Tag names have their trailing "(count)" suffix stripped; hrefs are
// resolved against baseURL and must contain a /tag/ path marker.
func (d *Discoverer) DiscoverTags(html string, baseURL string) ([]blogmirror.Tag, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, blogmirror.Errorf(blogmirror.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, blogmirror.Errorf(blogmirror.EINVALID, "failed to parse HTML: %v", err)
	}

	container := findTagContainer(doc)
	if container == nil {
		return nil, blogmirror.Errorf(blogmirror.ESTRUCTURE, "tag container not found")
	}

	var tags []blogmirror.Tag
	seen := make(map[string]bool)
	container.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		name := parseTagName(text)

		href, _ := sel.Attr("href")
		resolved := resolveURL(base, strings.TrimSpace(href))
		if resolved == "" || !strings.Contains(resolved, "/tag/") {
			return
		}

		if seen[name] {
			return
		}
		seen[name] = true
		tags = append(tags, blogmirror.Tag{Name: name, URL: resolved})
	})

	if len(tags) == 0 {
		return nil, blogmirror.Errorf(blogmirror.ESTRUCTURE, "no tag links found")
	}

	return tags, nil
}

// findTagContainer locates the element holding the tag links.
// First strategy: a heading containing the tag marker text, then the first
// following container element with anchors. Fallback: any element whose id
// or class looks tag-related and that contains anchors.
func findTagContainer(doc *goquery.Document) *goquery.Selection {
	var container *goquery.Selection

	doc.Find("h2, h3, h4").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		if !strings.Contains(strings.TrimSpace(heading.Text()), tagHeadingMarker) {
			return true
		}
		// Scan a bounded number of following siblings for the first
		// container holding anchor-with-href elements.
		next := heading.Next()
		for i := 0; i < 10 && next.Length() > 0; i++ {
			if isContainerTag(next) && next.Find("a[href]").Length() > 0 {
				container = next
				return false
			}
			next = next.Next()
		}
		return true
	})
	if container != nil {
		return container
	}

	doc.Find("[id], [class]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		id, _ := sel.Attr("id")
		class, _ := sel.Attr("class")
		if !tagAttrRE.MatchString(id) && !tagAttrRE.MatchString(class) {
			return true
		}
		if sel.Find("a[href]").Length() == 0 {
			return true
		}
		container = sel
		return false
	})

	return container
}

func isContainerTag(sel *goquery.Selection) bool {
	switch goquery.NodeName(sel) {
	case "div", "section", "ul", "dl":
		return true
	}
	return false
}

// parseTagName strips an optional trailing "(count)" suffix from a tag
// link's text.
func parseTagName(text string) string {
	if m := tagCountRE.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

// resolveURL resolves href against base, normalizing scheme-relative URLs.
// Returns "" when the href cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
