package main

import (
	"fmt"

	"github.com/chuchengzhi/blogmirror"
	"github.com/chuchengzhi/blogmirror/crawl"
	"github.com/chuchengzhi/blogmirror/fs"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	cfg := c.config(deps)

	crawler := deps.Crawler
	crawler.Store = fs.NewStore(cfg.RootDir)
	crawler.Delay = crawl.NewDelayer(cfg.DelayMin, cfg.DelayMax)
	crawler.RetryDelays = crawl.BackoffDelays(cfg.Retries - 1)
	// Cap the per-host request rate at what a sequential crawl with the
	// minimum delay would produce, no matter how many workers run.
	crawler.Limiter = crawl.NewHostLimiter(1 / cfg.DelayMin)

	result, err := crawler.Run(deps.Ctx, cfg)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", blogmirror.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Crawled %d tags: %d saved, %d skipped, %d failed\n",
		result.Tags, result.Saved, result.Skipped, result.Failed)
	return nil
}

// config assembles the run settings from flags, the optional settings
// file, and normalization. Settings-file and normalization problems warn
// and fall back rather than abort.
func (c *CrawlCmd) config(deps *Dependencies) blogmirror.Config {
	cfg := blogmirror.DefaultConfig()
	cfg.RootDir = c.Root
	cfg.DelayMin = c.DelayMin
	cfg.DelayMax = c.DelayMax
	cfg.Retries = c.Retries
	cfg.Workers = c.Concurrency
	cfg.OnlyTags = c.OnlyTags
	cfg.Resume = !c.NoResume

	if err := cfg.LoadOverrides(c.Config); err != nil {
		fmt.Fprintf(deps.Stderr, "warning: %s\n", blogmirror.ErrorMessage(err))
	}
	for _, w := range cfg.Normalize() {
		fmt.Fprintf(deps.Stderr, "warning: %s\n", w)
	}
	return cfg
}
