// Package middleware wraps an [extract.Invoker] with cross-cutting behaviour
// for model calls.
//
//   - [Timeout] bounds each call with a deadline.
//   - [Retry] retries transient provider failures (429, 5xx) with exponential
//     backoff and jitter.
//   - [Logging] emits a structured slog entry before and after every call.
//
// Compose them with [Chain]; the first middleware is the outermost:
//
//	invoker := middleware.Chain(base,
//	    middleware.Logging(slog.Default(), middleware.LogLevelStandard),
//	    middleware.Timeout(30*time.Second),
//	)
//
// Here a call travels Logging → Timeout → base.
package middleware
