package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/leofalp/mealscan/core/extract"
	"github.com/leofalp/mealscan/internal/utils"
	"github.com/leofalp/mealscan/providers/ai"
)

// LogLevel controls how much detail the logging middleware emits per call.
type LogLevel int

const (
	// LogLevelMinimal logs only duration and outcome.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard adds prompt and response sizes and whether an image was sent.
	LogLevelStandard

	// LogLevelVerbose adds the prompt and the response text, truncated.
	//
	// WARNING: prompts carry user profile data. Do not use in production.
	LogLevelVerbose
)

const truncateLen = 500

// Logging logs each model call through logger. A nil logger means
// slog.Default().
func Logging(logger *slog.Logger, level LogLevel) Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next extract.Invoker) extract.Invoker {
		return extract.InvokerFunc(func(ctx context.Context, prompt string, image *ai.ImageData) (string, error) {
			logger.InfoContext(ctx, "model invoke", requestAttrs(prompt, image, level)...)

			start := time.Now()
			response, err := next.Invoke(ctx, prompt, image)
			elapsed := time.Since(start)

			if err != nil {
				logger.ErrorContext(ctx, "model invoke failed",
					slog.Duration("duration", elapsed),
					slog.String("error", err.Error()),
				)
				return "", err
			}

			logger.InfoContext(ctx, "model invoke completed", responseAttrs(response, elapsed, level)...)
			return response, nil
		})
	}
}

func requestAttrs(prompt string, image *ai.ImageData, level LogLevel) []any {
	var attrs []any

	if level >= LogLevelStandard {
		attrs = append(attrs,
			slog.Int("prompt_length", len(prompt)),
			slog.Bool("has_image", image != nil),
		)
	}

	if level >= LogLevelVerbose {
		attrs = append(attrs, slog.String("prompt", utils.TruncateString(prompt, truncateLen)))
	}

	return attrs
}

func responseAttrs(response string, elapsed time.Duration, level LogLevel) []any {
	attrs := []any{slog.Duration("duration", elapsed)}

	if level >= LogLevelStandard {
		attrs = append(attrs, slog.Int("response_length", len(response)))
	}

	if level >= LogLevelVerbose {
		attrs = append(attrs, slog.String("response", utils.TruncateString(response, truncateLen)))
	}

	return attrs
}
