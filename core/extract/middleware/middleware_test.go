package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/leofalp/mealscan/core/extract"
	"github.com/leofalp/mealscan/internal/utils"
	"github.com/leofalp/mealscan/providers/ai"
)

func recordingMiddleware(name string, trace *[]string) Middleware {
	return func(next extract.Invoker) extract.Invoker {
		return extract.InvokerFunc(func(ctx context.Context, prompt string, image *ai.ImageData) (string, error) {
			*trace = append(*trace, name)
			return next.Invoke(ctx, prompt, image)
		})
	}
}

func TestChain_Order(t *testing.T) {
	var trace []string
	base := extract.InvokerFunc(func(ctx context.Context, prompt string, image *ai.ImageData) (string, error) {
		trace = append(trace, "base")
		return "ok", nil
	})

	invoker := Chain(base, recordingMiddleware("first", &trace), nil, recordingMiddleware("second", &trace))
	if _, err := invoker.Invoke(context.Background(), "p", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := strings.Join(trace, ","); got != "first,second,base" {
		t.Errorf("call order = %s", got)
	}
}

func TestTimeout(t *testing.T) {
	slow := extract.InvokerFunc(func(ctx context.Context, prompt string, image *ai.ImageData) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Second):
			return "late", nil
		}
	})

	_, err := Timeout(10*time.Millisecond)(slow).Invoke(context.Background(), "p", nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestTimeout_DisabledWhenNonPositive(t *testing.T) {
	var hadDeadline bool
	base := extract.InvokerFunc(func(ctx context.Context, prompt string, image *ai.ImageData) (string, error) {
		_, hadDeadline = ctx.Deadline()
		return "ok", nil
	})

	if _, err := Timeout(0)(base).Invoke(context.Background(), "p", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hadDeadline {
		t.Error("expected no deadline when timeout is disabled")
	}
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name      string
		level     LogLevel
		err       error
		wantIn    []string
		wantNotIn []string
	}{
		{
			name:      "minimal",
			level:     LogLevelMinimal,
			wantIn:    []string{"model invoke completed", "duration"},
			wantNotIn: []string{"prompt_length", "secret prompt"},
		},
		{
			name:      "standard",
			level:     LogLevelStandard,
			wantIn:    []string{"prompt_length=13", "has_image=true", "response_length=2"},
			wantNotIn: []string{"secret prompt"},
		},
		{
			name:   "verbose",
			level:  LogLevelVerbose,
			wantIn: []string{"secret prompt", "response=ok"},
		},
		{
			name:   "failure",
			level:  LogLevelStandard,
			err:    errors.New("quota exceeded"),
			wantIn: []string{"model invoke failed", "quota exceeded"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			base := extract.InvokerFunc(func(ctx context.Context, prompt string, image *ai.ImageData) (string, error) {
				if tt.err != nil {
					return "", tt.err
				}
				return "ok", nil
			})

			_, err := Logging(logger, tt.level)(base).Invoke(context.Background(), "secret prompt", &ai.ImageData{MimeType: "image/png", Data: "x"})
			if !errors.Is(err, tt.err) {
				t.Fatalf("error = %v, want %v", err, tt.err)
			}

			output := buf.String()
			for _, want := range tt.wantIn {
				if !strings.Contains(output, want) {
					t.Errorf("expected %q in output:\n%s", want, output)
				}
			}
			for _, unwanted := range tt.wantNotIn {
				if strings.Contains(output, unwanted) {
					t.Errorf("did not expect %q in output:\n%s", unwanted, output)
				}
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"rate limited", &utils.StatusError{StatusCode: http.StatusTooManyRequests}, true},
		{"server error", &utils.StatusError{StatusCode: http.StatusServiceUnavailable}, true},
		{"request timeout", &utils.StatusError{StatusCode: http.StatusRequestTimeout}, true},
		{"bad request", &utils.StatusError{StatusCode: http.StatusBadRequest}, false},
		{"wrapped", errors.Join(errors.New("gemini"), &utils.StatusError{StatusCode: 500}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRetry(t *testing.T) {
	transient := &utils.StatusError{StatusCode: http.StatusTooManyRequests}
	fast := RetryConfig{MaxRetries: 2, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}

	t.Run("recovers from transient failure", func(t *testing.T) {
		calls := 0
		base := extract.InvokerFunc(func(ctx context.Context, prompt string, image *ai.ImageData) (string, error) {
			calls++
			if calls < 2 {
				return "", transient
			}
			return "ok", nil
		})

		got, err := Retry(fast)(base).Invoke(context.Background(), "p", nil)
		if err != nil || got != "ok" {
			t.Fatalf("Invoke() = %q, %v", got, err)
		}
		if calls != 2 {
			t.Errorf("calls = %d, want 2", calls)
		}
	})

	t.Run("exhausts retries", func(t *testing.T) {
		calls := 0
		base := extract.InvokerFunc(func(ctx context.Context, prompt string, image *ai.ImageData) (string, error) {
			calls++
			return "", transient
		})

		_, err := Retry(fast)(base).Invoke(context.Background(), "p", nil)
		if !errors.Is(err, ErrRetryExhausted) || !errors.Is(err, transient) {
			t.Errorf("unexpected error %v", err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("does not retry permanent failure", func(t *testing.T) {
		calls := 0
		permanent := &utils.StatusError{StatusCode: http.StatusUnauthorized}
		base := extract.InvokerFunc(func(ctx context.Context, prompt string, image *ai.ImageData) (string, error) {
			calls++
			return "", permanent
		})

		_, err := Retry(fast)(base).Invoke(context.Background(), "p", nil)
		if !errors.Is(err, permanent) || errors.Is(err, ErrRetryExhausted) {
			t.Errorf("unexpected error %v", err)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		base := extract.InvokerFunc(func(ctx context.Context, prompt string, image *ai.ImageData) (string, error) {
			cancel()
			return "", transient
		})

		_, err := Retry(RetryConfig{InitialBackoff: time.Hour})(base).Invoke(ctx, "p", nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestRetryConfig_Backoff(t *testing.T) {
	config := RetryConfig{InitialBackoff: 100 * time.Millisecond, MaxBackoff: 300 * time.Millisecond}
	config.applyDefaults()

	for retry, want := range []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond, 300 * time.Millisecond} {
		got := config.backoff(retry)
		if got < want || got > want+want/10 {
			t.Errorf("backoff(%d) = %s, want within [%s, %s]", retry, got, want, want+want/10)
		}
	}
}
