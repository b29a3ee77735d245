package blogmirror

import "context"

// Fetcher retrieves page text from URLs.
type Fetcher interface {
	// Fetch performs a GET and returns the decoded response body.
	// Transport failures and statuses >= 400 return EUNAVAILABLE.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases client resources.
	Close() error
}

// Downloader retrieves raw bytes, used for image localization.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}
