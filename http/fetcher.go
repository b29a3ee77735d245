// Package http provides the HTTP implementation of blogmirror.Fetcher.
// It reuses one client (and its connection pool) for the process lifetime
// and sends fixed browser-like headers on every request.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/chuchengzhi/blogmirror"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 20 * time.Second

// defaultHeaders are sent with every request. The target site serves
// different markup (or blocks) requests without a browser user agent.
var defaultHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/122.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language": "zh-CN,zh;q=0.9",
	"Referer":         "https://www.cnblogs.com/",
}

// Ensure Fetcher implements the domain interfaces at compile time.
var (
	_ blogmirror.Fetcher    = (*Fetcher)(nil)
	_ blogmirror.Downloader = (*Fetcher)(nil)
)

// Fetcher retrieves page text over HTTP. It is safe for concurrent use.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	headers map[string]string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithHeader overrides or adds a default request header.
func WithHeader(key, value string) Option {
	return func(f *Fetcher) {
		f.headers[key] = value
	}
}

// NewFetcher creates a new HTTP Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
		headers: make(map[string]string, len(defaultHeaders)),
	}
	for k, v := range defaultHeaders {
		f.headers[k] = v
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

func (f *Fetcher) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, blogmirror.Errorf(blogmirror.EINVALID, "invalid URL %s: %v", url, err)
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, blogmirror.Errorf(blogmirror.EUNAVAILABLE, "request failed: %v", err)
	}

	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, blogmirror.Errorf(blogmirror.EUNAVAILABLE, "bad status %d for %s", resp.StatusCode, url)
	}

	return resp, nil
}

// Fetch retrieves the page at url and returns the body decoded to UTF-8.
// The response encoding is taken from the Content-Type header when declared
// and sniffed from the body otherwise.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.do(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", blogmirror.Errorf(blogmirror.EUNAVAILABLE, "decode %s: %v", url, err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", blogmirror.Errorf(blogmirror.EUNAVAILABLE, "read %s: %v", url, err)
	}

	return string(body), nil
}

// Download retrieves raw bytes without charset decoding, for binary
// resources such as images.
func (f *Fetcher) Download(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, blogmirror.Errorf(blogmirror.EUNAVAILABLE, "read %s: %v", url, err)
	}
	return body, nil
}

// Close releases resources. The shared http.Client needs no explicit
// cleanup, so this only exists to satisfy blogmirror.Fetcher.
func (f *Fetcher) Close() error {
	return nil
}
