package downloader

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RetryConfig bounds the attempts of a download.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// retry runs fn until it succeeds, shouldRetry rejects its error, the
// attempts are used up or ctx is done. Attempts are spaced by a fixed delay.
func retry(ctx context.Context, cfg RetryConfig, fn func() error, shouldRetry func(error) bool) error {
	attempts := max(cfg.MaxAttempts, 1)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			timer := time.NewTimer(cfg.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !shouldRetry(lastErr) {
			return lastErr
		}

		slog.Warn("Download attempt failed", "attempt", attempt, "maxAttempts", attempts, "error", lastErr)
	}

	return fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
}
