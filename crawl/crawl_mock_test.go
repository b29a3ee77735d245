package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/chuchengzhi/blogmirror"
	"github.com/chuchengzhi/blogmirror/crawl"
	"github.com/chuchengzhi/blogmirror/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func link(id string) blogmirror.ArticleLink {
	return blogmirror.ArticleLink{
		URL: "https://b/p/" + id + ".html",
		ID:  id,
	}
}

// mockedCrawler wires a Crawler whose collaborators are all function-field
// mocks: one tag, two listing pages with an overlapping link.
func mockedCrawler(store *mock.ArchiveStore) *crawl.Crawler {
	pages := map[string]*blogmirror.ListingPage{
		"https://b/tag/Go/": {
			Links:   []blogmirror.ArticleLink{link("1"), link("2")},
			NextURL: "https://b/tag/Go/?page=2",
		},
		"https://b/tag/Go/?page=2": {
			Links: []blogmirror.ArticleLink{link("2"), link("3")},
		},
	}

	return &crawl.Crawler{
		Fetcher: &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html>", nil
			},
		},
		Discoverer: &mock.TagDiscoverer{
			DiscoverTagsFn: func(html, baseURL string) ([]blogmirror.Tag, error) {
				return []blogmirror.Tag{{Name: "Go", URL: "https://b/tag/Go/"}}, nil
			},
		},
		Listings: &mock.ListingParser{
			ParseListingFn: func(html, pageURL string) (*blogmirror.ListingPage, error) {
				return pages[pageURL], nil
			},
		},
		Extractor: &mock.Extractor{
			ExtractFn: func(html, pageURL string) (*blogmirror.Article, error) {
				id := blogmirror.ArticleID(pageURL)
				return &blogmirror.Article{Title: "Post " + id, URL: pageURL, ID: id}, nil
			},
		},
		Converter: &mock.Converter{
			ConvertFn: func(html string) string { return "markdown" },
		},
		Store:       store,
		RetryDelays: []time.Duration{},
	}
}

func TestCrawler_Run_Mocked(t *testing.T) {
	t.Parallel()

	t.Run("deduplicates links across pages", func(t *testing.T) {
		t.Parallel()

		var saved []string
		store := &mock.ArchiveStore{
			SaveArticleFn: func(tag string, article *blogmirror.Article, markdown string) (string, error) {
				saved = append(saved, article.ID)
				return tag + "/" + article.Title + ".md", nil
			},
		}

		result, err := mockedCrawler(store).Run(context.Background(), blogmirror.DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, 3, result.Saved)
		assert.Equal(t, []string{"1", "2", "3"}, saved)
	})

	t.Run("resume markers gate article processing", func(t *testing.T) {
		t.Parallel()

		var saved []string
		store := &mock.ArchiveStore{
			SaveArticleFn: func(tag string, article *blogmirror.Article, markdown string) (string, error) {
				saved = append(saved, article.ID)
				return tag + "/" + article.Title + ".md", nil
			},
			IsDoneFn: func(tag string, l blogmirror.ArticleLink) bool {
				return l.ID == "2"
			},
		}

		result, err := mockedCrawler(store).Run(context.Background(), blogmirror.DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, 2, result.Saved)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, []string{"1", "3"}, saved)
	})

	t.Run("save failure is isolated to the article", func(t *testing.T) {
		t.Parallel()

		store := &mock.ArchiveStore{
			SaveArticleFn: func(tag string, article *blogmirror.Article, markdown string) (string, error) {
				if article.ID == "2" {
					return "", blogmirror.Errorf(blogmirror.EINTERNAL, "disk full")
				}
				return tag + "/" + article.Title + ".md", nil
			},
		}

		result, err := mockedCrawler(store).Run(context.Background(), blogmirror.DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, 2, result.Saved)
		assert.Equal(t, 1, result.Failed)
	})
}
