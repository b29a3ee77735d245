package crawl

import (
	"context"
	"math/rand/v2"
	"time"
)

// Delayer inserts a randomized pause before each page and article fetch.
// The zero value never sleeps, which keeps tests fast.
type Delayer struct {
	Min time.Duration
	Max time.Duration
}

// NewDelayer builds a Delayer from delay bounds in seconds.
func NewDelayer(minSeconds, maxSeconds float64) *Delayer {
	return &Delayer{
		Min: time.Duration(minSeconds * float64(time.Second)),
		Max: time.Duration(maxSeconds * float64(time.Second)),
	}
}

// Wait sleeps for a uniformly random duration in [Min, Max], returning
// early with the context's error on cancellation.
func (d *Delayer) Wait(ctx context.Context) error {
	if d == nil || d.Max <= 0 {
		return ctx.Err()
	}
	span := d.Max - d.Min
	wait := d.Min
	if span > 0 {
		wait += time.Duration(rand.Int64N(int64(span) + 1))
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}
