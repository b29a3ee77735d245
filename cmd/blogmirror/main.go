package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/chuchengzhi/blogmirror/crawl"
	"github.com/chuchengzhi/blogmirror/goquery"
	bmhttp "github.com/chuchengzhi/blogmirror/http"
	"github.com/chuchengzhi/blogmirror/htmltomarkdown"
	bmslog "github.com/chuchengzhi/blogmirror/slog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("blogmirror"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'blogmirror --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if cmd == "crawl" {
		fetcher := bmhttp.NewFetcher()
		defer fetcher.Close()

		deps.Crawler = &crawl.Crawler{
			Fetcher:    bmslog.NewLoggingFetcher(fetcher, logger),
			Discoverer: goquery.NewDiscoverer(),
			Listings:   goquery.NewListingParser(),
			Extractor:  goquery.NewExtractor(),
			Converter:  htmltomarkdown.NewConverter(),
			Logger:     logger,
		}
	}

	if cmd == "images" {
		fetcher := bmhttp.NewFetcher()
		defer fetcher.Close()
		deps.Images = fetcher
	}

	return kongCtx.Run(deps)
}
