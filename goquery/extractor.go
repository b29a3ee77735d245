package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chuchengzhi/blogmirror"
)

// titleClassRE matches class attributes of heading elements that carry the
// article title when the canonical title id is absent.
var titleClassRE = regexp.MustCompile(`(?i)post|title`)

// bodyClassRE matches class attributes of candidate body containers used
// when the canonical body id is absent.
var bodyClassRE = regexp.MustCompile(`(?i)post|content|body`)

// stripSelectors are non-content substructures removed wholesale from the
// body subtree: scripts, signature and navigation blocks, vote/comment
// widgets, ad slots, and embedded frames.
var stripSelectors = []string{
	"script", "style", "noscript",
	"div#MySignature", "div#MyTopNavigator", "div#MyBottomNavigator",
	"div.recommend_btns", "div#div_digg", "div#opt_under_post",
	"div#cnblogs_c1", "div#cnblogs_c2", "div#blog_post_info_block",
	"div#ad_t2", "div#ad_c1", "div#ad_c2",
	"iframe", "ins", "aside", "footer",
}

// lazyImageAttrs are removed from images after the canonical src is set.
var lazyImageAttrs = []string{"srcset", "data-src", "data-original", "data-lazy-src", "loading"}

// Ensure Extractor implements blogmirror.Extractor at compile time.
var _ blogmirror.Extractor = (*Extractor)(nil)

// Extractor isolates title and body from a cnblogs article page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes a fetched article page. The returned body HTML has
// boilerplate removed, fragment-only links downgraded to plain text, and
// image sources resolved to absolute URLs against pageURL.
func (e *Extractor) Extract(html string, pageURL string) (*blogmirror.Article, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, blogmirror.Errorf(blogmirror.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, blogmirror.Errorf(blogmirror.EINVALID, "failed to parse HTML: %v", err)
	}

	body := findBody(doc)
	if body == nil {
		return nil, blogmirror.Errorf(blogmirror.ESTRUCTURE, "content container not found")
	}

	for _, selector := range stripSelectors {
		body.Find(selector).Remove()
	}

	// Fragment-only links would point nowhere in the saved document;
	// keep the text, drop the href.
	body.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if href, _ := a.Attr("href"); strings.HasPrefix(href, "#") {
			a.RemoveAttr("href")
		}
	})

	fixImageSources(body, base)

	bodyHTML, err := goquery.OuterHtml(body)
	if err != nil {
		return nil, blogmirror.Errorf(blogmirror.EINTERNAL, "render body: %v", err)
	}

	return &blogmirror.Article{
		Title:    findTitle(doc),
		BodyHTML: bodyHTML,
		URL:      pageURL,
		ID:       blogmirror.ArticleID(pageURL),
	}, nil
}

// findTitle walks the title fallback chain: the canonical title id, a
// heading with a post/title class, an anchor with the title id, the page
// <title>, and finally the literal "untitled".
func findTitle(doc *goquery.Document) string {
	if text := strings.TrimSpace(doc.Find("#cb_post_title_url").First().Text()); text != "" {
		return text
	}

	var fromHeading string
	doc.Find("h1[class]").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		class, _ := h.Attr("class")
		if !titleClassRE.MatchString(class) {
			return true
		}
		fromHeading = strings.TrimSpace(h.Text())
		return fromHeading == ""
	})
	if fromHeading != "" {
		return fromHeading
	}

	if text := strings.TrimSpace(doc.Find("a#cb_post_title_url").First().Text()); text != "" {
		return text
	}
	if text := strings.TrimSpace(doc.Find("title").First().Text()); text != "" {
		return text
	}
	return "untitled"
}

// findBody locates the article body: the canonical container id, else the
// first element with a post/content/body class.
func findBody(doc *goquery.Document) *goquery.Selection {
	if body := doc.Find("#cnblogs_post_body"); body.Length() > 0 {
		return body.First()
	}

	var found *goquery.Selection
	doc.Find("[class]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		if !bodyClassRE.MatchString(class) {
			return true
		}
		found = sel
		return false
	})
	return found
}

// fixImageSources normalizes every image to a single absolute src.
// Source preference: data-src, data-original, src, else the first URL in
// srcset. Scheme-relative sources get https; relative sources resolve
// against the article URL.
func fixImageSources(body *goquery.Selection, base *url.URL) {
	body.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := firstImageSource(img)
		if src == "" {
			return
		}

		if strings.HasPrefix(src, "//") {
			src = "https:" + src
		} else if !strings.HasPrefix(src, "http") {
			if ref, err := url.Parse(src); err == nil {
				src = base.ResolveReference(ref).String()
			}
		}

		img.SetAttr("src", src)
		for _, attr := range lazyImageAttrs {
			img.RemoveAttr(attr)
		}
	})
}

func firstImageSource(img *goquery.Selection) string {
	for _, attr := range []string{"data-src", "data-original", "src"} {
		if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	if srcset, ok := img.Attr("srcset"); ok {
		first := strings.Split(srcset, ",")[0]
		fields := strings.Fields(strings.TrimSpace(first))
		if len(fields) > 0 {
			return fields[0]
		}
	}
	return ""
}
