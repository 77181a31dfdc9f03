package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/leofalp/mealscan/providers/ai"
)

type fakeProvider struct {
	response *ai.ChatResponse
	err      error
	request  ai.ChatRequest
}

func (f *fakeProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	f.request = request
	return f.response, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

func TestProviderInvoker(t *testing.T) {
	image := ai.NewImageData("image/png", []byte{1, 2, 3})
	provider := &fakeProvider{response: &ai.ChatResponse{Content: cleanDocument}}

	got, err := ProviderInvoker(provider, "gemini-2.5-flash").Invoke(context.Background(), "analyse", image)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != cleanDocument {
		t.Errorf("Invoke() = %q", got)
	}

	request := provider.request
	if request.Model != "gemini-2.5-flash" {
		t.Errorf("model = %q", request.Model)
	}
	if request.ResponseFormat == nil || request.ResponseFormat.Type != "json_object" {
		t.Errorf("expected JSON response format, got %+v", request.ResponseFormat)
	}
	if len(request.Messages) != 1 || request.Messages[0].Role != ai.RoleUser {
		t.Fatalf("unexpected messages %+v", request.Messages)
	}
	parts := request.Messages[0].ContentParts
	if len(parts) != 2 || parts[0].Text != "analyse" || parts[1].Image != image {
		t.Errorf("unexpected content parts %+v", parts)
	}
}

func TestProviderInvoker_Errors(t *testing.T) {
	transport := errors.New("connection reset")

	tests := []struct {
		name     string
		provider *fakeProvider
		wantErr  error
		wantMsg  string
	}{
		{name: "provider error", provider: &fakeProvider{err: transport}, wantErr: transport},
		{name: "refusal", provider: &fakeProvider{response: &ai.ChatResponse{Refusal: "SAFETY"}}, wantErr: ErrRefused, wantMsg: "fake: "},
		{name: "empty content", provider: &fakeProvider{response: &ai.ChatResponse{Content: "  \n"}}, wantErr: ErrEmptyResponse, wantMsg: "fake: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ProviderInvoker(tt.provider, "").Invoke(context.Background(), "analyse", nil)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Invoke() error = %v, want %v", err, tt.wantErr)
			}
			if !strings.HasPrefix(err.Error(), tt.wantMsg) {
				t.Errorf("Invoke() error = %q, want prefix %q", err, tt.wantMsg)
			}
			if len(tt.provider.request.Messages[0].ContentParts) != 1 {
				t.Error("text-only invocation must send a single text part")
			}
		})
	}
}

func TestExtractionError(t *testing.T) {
	err := &ExtractionError{
		Failures: []*AttemptError{
			{State: State{PhaseParse, 0}, Err: errors.New("bad json")},
			{State: State{PhaseRegenerate, 0}, Err: ErrMissingImage},
		},
		Cause: context.DeadlineExceeded,
	}

	if !errors.Is(err, ErrMissingImage) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected failures and cause in chain: %v", err)
	}

	var attempt *AttemptError
	if !errors.As(err, &attempt) || attempt.State.Phase != PhaseParse {
		t.Errorf("expected first attempt error via errors.As, got %v", attempt)
	}

	want := "extraction fell back after 2 failed attempts (context deadline exceeded): last error: regenerate(0): image-mode regeneration without image data"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
