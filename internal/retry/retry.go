package retry

import (
	"context"
	"math"
	"time"
)

// Config holds the backoff schedule.
type Config struct {
	MaxRetries      int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	BackoffMultiple float64
}

func DefaultConfig() Config {
	return Config{
		MaxRetries:      3,
		BaseDelay:       500 * time.Millisecond,
		MaxDelay:        10 * time.Second,
		BackoffMultiple: 2.0,
	}
}

// Budget is the longest Do can take when every attempt runs for
// perAttempt and every retry waits its full backoff delay.
func (c Config) Budget(perAttempt time.Duration) time.Duration {
	total := perAttempt * time.Duration(c.MaxRetries+1)
	for attempt := 0; attempt < c.MaxRetries; attempt++ {
		total += c.delay(attempt)
	}
	return total
}

// Logger receives one line per retry decision.
type Logger func(message string, args ...interface{})

type Options struct {
	Config Config
	// Retryable reports whether err should trigger another attempt.
	// A nil Retryable never retries.
	Retryable func(err error) bool
	Logger    Logger
	Name      string
}

func (c Config) delay(attempt int) time.Duration {
	d := time.Duration(float64(c.BaseDelay) * math.Pow(c.BackoffMultiple, float64(attempt)))
	if c.MaxDelay > 0 && d > c.MaxDelay {
		d = c.MaxDelay
	}
	return d
}

// Do runs fn until it succeeds, returns a non-retryable error, exhausts
// MaxRetries or ctx is done. The last error is returned.
func Do[T any](ctx context.Context, opts Options, fn func(attempt int) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= opts.Config.MaxRetries; attempt++ {
		if attempt > 0 {
			d := opts.Config.delay(attempt - 1)
			if opts.Logger != nil {
				opts.Logger("%s retry %d/%d after %v: %v", opts.Name, attempt, opts.Config.MaxRetries, d, lastErr)
			}
			timer := time.NewTimer(d)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
		}

		v, err := fn(attempt)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if ctx.Err() != nil || opts.Retryable == nil || !opts.Retryable(err) {
			return zero, err
		}
	}
	return zero, lastErr
}
