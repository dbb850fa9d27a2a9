package retry

import (
	"context"
	"fmt"
	"time"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	MaxTotalTimeout time.Duration
}

// DefaultConfig returns a default retry configuration with 1 minute max timeout
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     10,
		InitialDelay:    100 * time.Millisecond,
		MaxDelay:        10 * time.Second,
		BackoffFactor:   2.0,
		MaxTotalTimeout: 60 * time.Second,
	}
}

// FastConfig returns a short retry configuration suited to in-request retries,
// e.g. re-running an id allocation transaction after a conflict.
func FastConfig(attempts int) Config {
	return Config{
		MaxAttempts:     attempts,
		InitialDelay:    10 * time.Millisecond,
		MaxDelay:        200 * time.Millisecond,
		BackoffFactor:   2.0,
		MaxTotalTimeout: 5 * time.Second,
	}
}

// Do executes fn with exponential backoff until it succeeds or attempts run out.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	return DoIf(ctx, cfg, func(error) bool { return true }, fn)
}

// DoIf executes fn with exponential backoff, retrying only while shouldRetry
// returns true for the last error. A non-retryable error is returned as-is.
func DoIf(ctx context.Context, cfg Config, shouldRetry func(error) bool, fn func() error) error {
	if cfg.MaxTotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.MaxTotalTimeout)
		defer cancel()
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return fmt.Errorf("retry aborted after %d attempts: %w (last error: %v)", attempt-1, ctx.Err(), lastErr)
			}
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}
		if !shouldRetry(err) {
			return err
		}

		lastErr = err

		if attempt == cfg.MaxAttempts {
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted after %d attempts: %w (last error: %v)", attempt, ctx.Err(), lastErr)
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("max retry attempts exceeded: %w", lastErr)
}

// DoWithLog executes fn with retry and invokes logFn before each backoff sleep.
func DoWithLog(ctx context.Context, cfg Config, serviceName string, fn func() error, logFn func(attempt int, err error, nextDelay time.Duration)) error {
	attempt := 0
	delay := cfg.InitialDelay
	err := DoIf(ctx, cfg, func(error) bool { return true }, func() error {
		attempt++
		err := fn()
		if err != nil && logFn != nil && attempt < cfg.MaxAttempts {
			next := delay
			delay = time.Duration(float64(delay) * cfg.BackoffFactor)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
			logFn(attempt, err, next)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", serviceName, err)
	}
	return nil
}
