// Package crawl orchestrates the archive run: tag discovery, paginated
// link collection, and the per-article fetch/extract/convert/save
// pipeline, with bounded concurrency across tags.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/chuchengzhi/blogmirror"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Crawler runs the crawl pipeline. All fields are shared read-mostly by
// the tag workers; construct once and do not mutate during a run.
type Crawler struct {
	Fetcher    blogmirror.Fetcher
	Discoverer blogmirror.TagDiscoverer
	Listings   blogmirror.ListingParser
	Extractor  blogmirror.Extractor
	Converter  blogmirror.Converter
	Store      blogmirror.ArchiveStore

	// Limiter bounds the request rate per host across all workers.
	// Optional; nil disables rate limiting.
	Limiter *HostLimiter

	// Delay inserts the randomized pause before page and article
	// fetches. Optional; nil disables delays.
	Delay *Delayer

	// RetryDelays is the backoff schedule between fetch attempts.
	// Nil means DefaultRetryDelays.
	RetryDelays []time.Duration

	Logger *slog.Logger
}

// Result holds the outcome of a crawl run.
type Result struct {
	Tags    int
	Saved   int
	Skipped int
	Failed  int
}

// Run crawls every discovered tag. It returns an error only for
// unrecoverable top-level failures (tag discovery); per-tag and
// per-article failures are logged and counted instead.
func (c *Crawler) Run(ctx context.Context, cfg blogmirror.Config) (*Result, error) {
	logger := c.logger().With("run", uuid.NewString()[:8])

	tags, err := c.discoverTags(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("tags discovered", "count", len(tags))

	var (
		mu     sync.Mutex
		result Result
	)
	result.Tags = len(tags)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for _, tag := range tags {
		g.Go(func() error {
			tagLogger := logger.With("tag", tag.Name)
			res, err := c.crawlTag(gctx, cfg, tag, tagLogger)
			if err != nil {
				tagLogger.Error("tag crawl failed", "error", err)
			}

			mu.Lock()
			result.Saved += res.saved
			result.Skipped += res.skipped
			result.Failed += res.failed
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		logger.Warn("crawl interrupted")
	}
	logger.Info("crawl finished",
		"tags", result.Tags,
		"saved", result.Saved,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return &result, nil
}

// discoverTags fetches the tag index page and applies the allow-list.
// Failures here abort the run: no tags means nothing to do.
func (c *Crawler) discoverTags(ctx context.Context, cfg blogmirror.Config, logger *slog.Logger) ([]blogmirror.Tag, error) {
	html, err := c.fetch(ctx, cfg.TagIndexURL)
	if err != nil {
		return nil, err
	}

	all, err := c.Discoverer.DiscoverTags(html, cfg.TagIndexURL)
	if err != nil {
		return nil, err
	}

	if len(cfg.OnlyTags) == 0 {
		return all, nil
	}

	found := make(map[string]bool, len(all))
	var tags []blogmirror.Tag
	for _, tag := range all {
		found[tag.Name] = true
		if cfg.Allowed(tag.Name) {
			tags = append(tags, tag)
		}
	}
	for _, name := range cfg.OnlyTags {
		if !found[name] {
			logger.Warn("allow-listed tag not found", "tag", name)
		}
	}

	if len(tags) == 0 {
		return nil, blogmirror.Errorf(blogmirror.ESTRUCTURE, "no tags matched the allow-list")
	}
	return tags, nil
}

// tagResult accumulates per-tag counters.
type tagResult struct {
	saved   int
	skipped int
	failed  int
}

// crawlTag runs one tag's full pipeline. A returned error aborts this tag
// only; the caller logs it and other tags continue.
func (c *Crawler) crawlTag(ctx context.Context, cfg blogmirror.Config, tag blogmirror.Tag, logger *slog.Logger) (tagResult, error) {
	var res tagResult

	logger.Info("tag crawl started", "url", tag.URL)
	if err := c.Delay.Wait(ctx); err != nil {
		return res, err
	}

	links, err := c.collectLinks(ctx, tag.URL, logger)
	if err != nil {
		return res, err
	}
	logger.Info("article links collected", "count", len(links))

	for i, link := range links {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}

		if cfg.Resume && c.Store.IsDone(tag.Name, link) {
			logger.Info("skip completed article", "url", link.URL, "id", link.ID)
			res.skipped++
			continue
		}

		if err := c.Delay.Wait(ctx); err != nil {
			return res, err
		}

		title, err := c.processArticle(ctx, tag, link)
		if err != nil {
			logger.Error("article failed", "url", link.URL, "error", err)
			res.failed++
			continue
		}
		res.saved++
		logger.Info("article saved",
			"progress", i+1,
			"total", len(links),
			"title", title,
		)
	}

	return res, nil
}

// collectLinks walks the tag's listing pages and returns the article
// links in first-seen order, deduplicated by article id (or URL when the
// id is unknown).
func (c *Crawler) collectLinks(ctx context.Context, listURL string, logger *slog.Logger) ([]blogmirror.ArticleLink, error) {
	seen := make(map[string]bool)
	var links []blogmirror.ArticleLink

	current := listURL
	for pageNum := 1; ; pageNum++ {
		logger.Info("listing page", "page", pageNum, "url", current)

		html, err := c.fetch(ctx, current)
		if err != nil {
			return nil, err
		}

		page, err := c.Listings.ParseListing(html, current)
		if err != nil {
			return nil, err
		}

		added := 0
		for _, link := range page.Links {
			if seen[link.Key()] {
				continue
			}
			seen[link.Key()] = true
			links = append(links, link)
			added++
		}
		logger.Info("listing page parsed",
			"page", pageNum,
			"candidates", len(page.Links),
			"added", added,
			"total", len(links),
		)

		if !FollowNext(current, page.NextURL) {
			break
		}
		current = page.NextURL

		if err := c.Delay.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return links, nil
}

// processArticle runs the fetch→extract→convert→save→mark pipeline for
// one article and returns its title.
func (c *Crawler) processArticle(ctx context.Context, tag blogmirror.Tag, link blogmirror.ArticleLink) (string, error) {
	html, err := c.fetch(ctx, link.URL)
	if err != nil {
		return "", err
	}

	article, err := c.Extractor.Extract(html, link.URL)
	if err != nil {
		return "", err
	}

	markdown := c.Converter.Convert(article.BodyHTML)

	if _, err := c.Store.SaveArticle(tag.Name, article, markdown); err != nil {
		return "", err
	}
	if err := c.Store.MarkDone(tag.Name, link); err != nil {
		return "", err
	}
	return article.Title, nil
}

// fetch applies the host rate limit and retry schedule around the
// Fetcher.
func (c *Crawler) fetch(ctx context.Context, rawURL string) (string, error) {
	if c.Limiter != nil {
		if u, err := url.Parse(rawURL); err == nil {
			if err := c.Limiter.Wait(ctx, u.Host); err != nil {
				return "", err
			}
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	logf := func(format string, args ...any) {
		c.logger().Warn(fmt.Sprintf(format, args...))
	}
	return FetchWithRetryDelays(ctx, rawURL, c.Fetcher.Fetch, logf, delays)
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}
