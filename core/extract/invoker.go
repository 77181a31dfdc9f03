package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/leofalp/mealscan/providers/ai"
)

// Invoker sends a prompt, with an optional image, to a model and returns its
// raw text answer.
type Invoker interface {
	Invoke(ctx context.Context, prompt string, image *ai.ImageData) (string, error)
}

// InvokerFunc adapts a plain function to Invoker.
type InvokerFunc func(ctx context.Context, prompt string, image *ai.ImageData) (string, error)

func (f InvokerFunc) Invoke(ctx context.Context, prompt string, image *ai.ImageData) (string, error) {
	return f(ctx, prompt, image)
}

// ProviderInvoker sends each prompt as a single user message to provider,
// asking for a JSON object answer.
func ProviderInvoker(provider ai.Provider, model string) Invoker {
	return InvokerFunc(func(ctx context.Context, prompt string, image *ai.ImageData) (string, error) {
		parts := []ai.ContentPart{ai.NewTextPart(prompt)}
		if image != nil {
			parts = append(parts, ai.ContentPart{Type: ai.ContentTypeImage, Image: image})
		}

		response, err := provider.SendMessage(ctx, ai.ChatRequest{
			Model: model,
			Messages: []ai.Message{{
				Role:         ai.RoleUser,
				ContentParts: parts,
			}},
			ResponseFormat: &ai.ResponseFormat{Type: "json_object"},
		})
		if err != nil {
			return "", err
		}
		if response.Refusal != "" {
			return "", fmt.Errorf("%s: %w: %s", provider.Name(), ErrRefused, response.Refusal)
		}
		if strings.TrimSpace(response.Content) == "" {
			return "", fmt.Errorf("%s: %w", provider.Name(), ErrEmptyResponse)
		}
		return response.Content, nil
	})
}
