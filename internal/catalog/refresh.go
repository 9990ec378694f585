package catalog

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Run keeps the catalog loaded until ctx is cancelled. Failed loads are
// retried with exponential backoff; once loaded, the source is re-read
// every ReloadInterval, or never when the interval is zero.
func (c *Catalog) Run(ctx context.Context) error {
	c.logger.Info("catalog refresher started", "reload_interval", c.opts.ReloadInterval)

	backoff := initialBackoff
	retrying := false
	for {
		if !retrying && c.current.Load() != nil {
			if !c.waitForReload(ctx) {
				c.logger.Info("catalog refresher stopping", "reason", ctx.Err())
				return nil
			}
		}

		if _, err := c.Reload(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			retrying = true
			if !sleepWithContext(ctx, c.clock, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
			continue
		}
		retrying = false
		backoff = initialBackoff
	}
}

func (c *Catalog) waitForReload(ctx context.Context) bool {
	if c.opts.ReloadInterval <= 0 {
		<-ctx.Done()
		return false
	}
	return sleepWithContext(ctx, c.clock, c.opts.ReloadInterval)
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, clock clockwork.Clock, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
