package middleware

import (
	"context"
	"time"

	"github.com/leofalp/mealscan/core/extract"
	"github.com/leofalp/mealscan/providers/ai"
)

// Timeout gives every model call its own deadline. A shorter deadline already
// on the caller's context still wins. A non-positive d disables the
// middleware.
func Timeout(d time.Duration) Middleware {
	return func(next extract.Invoker) extract.Invoker {
		if d <= 0 {
			return next
		}
		return extract.InvokerFunc(func(ctx context.Context, prompt string, image *ai.ImageData) (string, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			return next.Invoke(ctx, prompt, image)
		})
	}
}
