package middleware

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/leofalp/mealscan/core/extract"
	"github.com/leofalp/mealscan/internal/utils"
	"github.com/leofalp/mealscan/providers/ai"
)

// ErrRetryExhausted is returned, wrapping the last error, once every retry
// of a transient failure has been spent.
var ErrRetryExhausted = errors.New("all retry attempts exhausted")

// RetryConfig tunes Retry. Zero fields take the documented defaults.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first failure. Default: 2.
	MaxRetries int

	// InitialBackoff is the wait before the first retry. Default: 500ms.
	InitialBackoff time.Duration

	// MaxBackoff caps a single wait. Default: 10s.
	MaxBackoff time.Duration

	// BackoffFactor grows the wait per retry. Default: 2.
	BackoffFactor float64

	// JitterFraction adds up to this fraction of the wait as noise. Default: 0.1.
	JitterFraction float64

	// Retryable decides whether err is worth another call. Default: provider
	// status 408, 429 or 5xx.
	Retryable func(err error) bool
}

func (c *RetryConfig) applyDefaults() {
	if c.MaxRetries == 0 {
		c.MaxRetries = 2
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = 500 * time.Millisecond
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = 10 * time.Second
	}
	if c.BackoffFactor == 0 {
		c.BackoffFactor = 2
	}
	if c.JitterFraction == 0 {
		c.JitterFraction = 0.1
	}
	if c.Retryable == nil {
		c.Retryable = IsTransient
	}
}

// IsTransient reports whether err carries a provider status that usually
// clears on its own.
func IsTransient(err error) bool {
	var statusErr *utils.StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	switch {
	case statusErr.StatusCode == http.StatusRequestTimeout,
		statusErr.StatusCode == http.StatusTooManyRequests,
		statusErr.StatusCode >= 500:
		return true
	default:
		return false
	}
}

func (c RetryConfig) backoff(retry int) time.Duration {
	base := float64(c.InitialBackoff) * math.Pow(c.BackoffFactor, float64(retry))
	base = math.Min(base, float64(c.MaxBackoff))

	jitter := base * c.JitterFraction * rand.Float64() //nolint:gosec // jitter only
	return time.Duration(base + jitter)
}

// Retry re-invokes next on transient failures. Other errors and context
// cancellation return immediately.
func Retry(config RetryConfig) Middleware {
	config.applyDefaults()

	return func(next extract.Invoker) extract.Invoker {
		return extract.InvokerFunc(func(ctx context.Context, prompt string, image *ai.ImageData) (string, error) {
			var lastErr error

			for attempt := 0; attempt <= config.MaxRetries; attempt++ {
				if attempt > 0 {
					timer := time.NewTimer(config.backoff(attempt - 1))
					select {
					case <-ctx.Done():
						timer.Stop()
						return "", ctx.Err()
					case <-timer.C:
					}
				}

				response, err := next.Invoke(ctx, prompt, image)
				if err == nil {
					return response, nil
				}
				lastErr = err

				if !config.Retryable(err) {
					return "", err
				}
			}

			return "", fmt.Errorf("%w after %d retries: %w", ErrRetryExhausted, config.MaxRetries, lastErr)
		})
	}
}
