package extract

import (
	"time"

	"github.com/leofalp/mealscan/providers/observability"
)

const (
	DefaultMaxParseRetries = 3
	DefaultMaxRegenRetries = 2
	DefaultBackoff         = time.Second
)

type options struct {
	maxParse int
	maxRegen int
	backoff  time.Duration
	observer observability.Provider
}

// Option configures a Pipeline.
type Option func(*options)

// WithMaxParseRetries sets how many local repair attempts run before the
// model is asked again. Values below 1 are treated as 1.
func WithMaxParseRetries(n int) Option {
	return func(o *options) {
		o.maxParse = max(n, 1)
	}
}

// WithMaxRegenRetries sets how many regeneration attempts run before the
// fallback. Values below 1 are treated as 1.
func WithMaxRegenRetries(n int) Option {
	return func(o *options) {
		o.maxRegen = max(n, 1)
	}
}

// WithBackoff sets the fixed wait between consecutive regenerations.
// Zero disables the wait.
func WithBackoff(d time.Duration) Option {
	return func(o *options) {
		o.backoff = max(d, 0)
	}
}

// WithObserver enables tracing, metrics and logging. Without it the
// pipeline falls back to an observer found in the call context, if any.
func WithObserver(observer observability.Provider) Option {
	return func(o *options) {
		o.observer = observer
	}
}
