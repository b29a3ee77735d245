package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/chuchengzhi/blogmirror"
	"github.com/chuchengzhi/blogmirror/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoffDelays(t *testing.T) {
	t.Parallel()

	t.Run("default schedule is 1s then 1.6s", func(t *testing.T) {
		t.Parallel()

		delays := crawl.BackoffDelays(2)
		require.Len(t, delays, 2)
		assert.Equal(t, 1*time.Second, delays[0])
		assert.Equal(t, 1600*time.Millisecond, delays[1])
	})

	t.Run("delays are clamped to the ceiling", func(t *testing.T) {
		t.Parallel()

		delays := crawl.BackoffDelays(6)
		assert.Equal(t, 10*time.Second, delays[5])
	})
}

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	noDelays := []time.Duration{0, 0}

	t.Run("retries fetch errors until success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			if calls < 3 {
				return "", blogmirror.Errorf(blogmirror.EUNAVAILABLE, "bad status 503")
			}
			return "<html>", nil
		}

		html, err := crawl.FetchWithRetryDelays(context.Background(), "https://x", fetch, nil, noDelays)
		require.NoError(t, err)
		assert.Equal(t, "<html>", html)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausting retries returns the final error", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			return "", blogmirror.Errorf(blogmirror.EUNAVAILABLE, "down")
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://x", fetch, nil, noDelays)
		assert.Equal(t, blogmirror.EUNAVAILABLE, blogmirror.ErrorCode(err))
		assert.Equal(t, 3, calls)
	})

	t.Run("non-fetch errors are not retried", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			return "", blogmirror.Errorf(blogmirror.EINVALID, "bad URL")
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://x", fetch, nil, noDelays)
		assert.Equal(t, blogmirror.EINVALID, blogmirror.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("cancellation stops the schedule", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(ctx context.Context, url string) (string, error) {
			cancel()
			return "", blogmirror.Errorf(blogmirror.EUNAVAILABLE, "down")
		}

		_, err := crawl.FetchWithRetryDelays(ctx, "https://x", fetch, nil, []time.Duration{time.Minute})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
