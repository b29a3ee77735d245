package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/chuchengzhi/blogmirror"
	"github.com/chuchengzhi/blogmirror/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Crawler is wired for the crawl command only.
	Crawler *crawl.Crawler

	// Images downloads image bytes for the images command.
	Images blogmirror.Downloader
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Crawl  CrawlCmd  `cmd:"" help:"Crawl the blog's tags and archive every article as Markdown"`
	Clean  CleanCmd  `cmd:"" help:"Remove unwanted lines from archived Markdown files"`
	Images ImagesCmd `cmd:"" help:"Download remote images and rewrite links to local paths"`
	Rename RenameCmd `cmd:"" help:"Strip article-id suffixes from archive filenames"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Root        string   `default:"MyArticles" help:"Output directory for the archive"`
	DelayMin    float64  `name:"delay-min" default:"1.0" help:"Minimum delay between requests in seconds"`
	DelayMax    float64  `name:"delay-max" default:"2.0" help:"Maximum delay between requests in seconds"`
	Concurrency int      `short:"c" aliases:"threads" default:"1" help:"Tags crawled concurrently (max 8)"`
	OnlyTags    []string `name:"only-tags" help:"Restrict the crawl to these tag names"`
	NoResume    bool     `name:"no-resume" help:"Refetch articles that already have a completion marker"`
	Retries     int      `default:"3" help:"Total fetch attempts per URL"`
	Config      string   `default:"config.json" help:"Path to a JSON settings file"`
}

// CleanCmd is the "clean" subcommand.
type CleanCmd struct {
	Match []string `arg:"" help:"Remove lines containing any of these substrings"`
	Root  string   `default:"MyArticles" help:"Archive directory to clean"`
}

// ImagesCmd is the "images" subcommand.
type ImagesCmd struct {
	Root string `default:"MyArticles" help:"Archive directory to localize"`
}

// RenameCmd is the "rename" subcommand.
type RenameCmd struct {
	Root    string   `default:"MyArticles" help:"Archive directory to process"`
	Execute bool     `short:"x" help:"Perform the renames instead of listing them"`
	Ext     []string `help:"File extensions to process (default .md)"`
}
