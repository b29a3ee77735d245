package crawl

import (
	"context"
	"time"

	"github.com/chuchengzhi/blogmirror"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// Backoff bounds for BackoffDelays.
const (
	backoffMultiplier = 0.8
	backoffFloor      = 1 * time.Second
	backoffCeiling    = 10 * time.Second
)

// BackoffDelays returns the waits between fetch attempts: an exponential
// schedule of multiplier*2^n seconds clamped to the [floor, ceiling]
// range. With the default 3 attempts the waits are 1s and 1.6s.
func BackoffDelays(retries int) []time.Duration {
	delays := make([]time.Duration, 0, retries)
	for n := 0; n < retries; n++ {
		d := time.Duration(backoffMultiplier * float64(int(1)<<n) * float64(time.Second))
		if d < backoffFloor {
			d = backoffFloor
		} else if d > backoffCeiling {
			d = backoffCeiling
		}
		delays = append(delays, d)
	}
	return delays
}

// DefaultRetryDelays returns the backoff schedule for the default retry
// count (3 total attempts).
func DefaultRetryDelays() []time.Duration {
	return BackoffDelays(blogmirror.DefaultRetries - 1)
}

// FetchWithRetryDelays attempts a fetch with one attempt per delay plus
// the initial try. Only fetch errors (EUNAVAILABLE) are retried; other
// failures are returned immediately. Exhausting the schedule returns the
// final fetch error.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger func(format string, args ...any), delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if blogmirror.ErrorCode(err) != blogmirror.EUNAVAILABLE {
			return "", err
		}
		if attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger("retry %s (attempt %d): %v", url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}
