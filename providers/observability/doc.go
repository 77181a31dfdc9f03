// Package observability defines the interfaces and semantic conventions used
// for tracing, metrics and structured logging across mealscan.
//
// [Provider] composes [Tracer], [Metrics] and [Logger] into a single
// injectable dependency. The extraction pipeline reports every failed attempt
// and its terminal state through it; model providers pick it up from the
// context via [ObserverFromContext]. The slog sub-package is the default
// implementation.
package observability
