package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/leofalp/mealscan/internal/utils"
	"github.com/leofalp/mealscan/providers/ai"
	"github.com/leofalp/mealscan/providers/observability"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash"
)

// ErrMissingAPIKey is returned when a request is sent without an API key.
var ErrMissingAPIKey = errors.New("gemini: API key is not set")

// GeminiProvider implements ai.Provider for Google's Gemini API.
type GeminiProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

var _ ai.Provider = (*GeminiProvider)(nil)

// New creates a provider configured from the environment:
//   - GEMINI_API_KEY: API key
//   - GEMINI_API_BASE_URL: base URL (optional)
//   - GEMINI_MODEL: model used when a request names none (optional)
func New() *GeminiProvider {
	baseURL := os.Getenv("GEMINI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = DefaultModel
	}

	return &GeminiProvider{
		apiKey:  os.Getenv("GEMINI_API_KEY"),
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{},
	}
}

// Name implements ai.Provider.
func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) WithAPIKey(apiKey string) *GeminiProvider {
	p.apiKey = apiKey
	return p
}

func (p *GeminiProvider) WithBaseURL(baseURL string) *GeminiProvider {
	p.baseURL = strings.TrimRight(baseURL, "/")
	return p
}

func (p *GeminiProvider) WithHttpClient(httpClient *http.Client) *GeminiProvider {
	p.client = httpClient
	return p
}

// WithModel sets the default model.
func (p *GeminiProvider) WithModel(model string) *GeminiProvider {
	p.model = model
	return p
}

// SendMessage implements ai.Provider.
func (p *GeminiProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	span := observability.SpanFromContext(ctx)
	observer := observability.ObserverFromContext(ctx)

	model := request.Model
	if model == "" {
		model = p.model
	}

	if span != nil {
		span.AddEvent(observability.EventLLMRequestStart,
			observability.String(observability.AttrLLMProvider, p.Name()),
			observability.String(observability.AttrLLMModel, model),
			observability.Bool(observability.AttrLLMHasImage, hasImage(request)),
		)
		defer span.AddEvent(observability.EventLLMRequestEnd)
	}

	if observer != nil {
		observer.Debug(ctx, "Gemini provider preparing request",
			observability.String(observability.AttrLLMProvider, p.Name()),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMModel, model),
		)
	}

	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, model)

	httpResponse, resp, err := utils.DoPostSync[generateContentResponse](
		ctx,
		p.client,
		url,
		requestToGemini(request),
		utils.HeaderOption{Key: "x-goog-api-key", Value: p.apiKey},
	)
	if err != nil {
		if observer != nil {
			observer.Debug(ctx, "Gemini request failed", observability.Error(err))
		}
		return nil, fmt.Errorf("gemini: %w", err)
	}

	result := geminiToGeneric(*resp)
	if result.Model == "" {
		result.Model = model
	}

	if span != nil {
		attrs := []observability.Attribute{
			observability.String(observability.AttrLLMResponseID, result.Id),
			observability.String(observability.AttrLLMFinishReason, result.FinishReason),
			observability.Int(observability.AttrHTTPStatusCode, httpResponse.StatusCode),
		}
		if result.Usage != nil {
			attrs = append(attrs, observability.Int(observability.AttrLLMTokensTotal, result.Usage.TotalTokens))
		}
		span.SetAttributes(attrs...)
	}

	return result, nil
}

func hasImage(request ai.ChatRequest) bool {
	for _, msg := range request.Messages {
		for _, contentPart := range msg.ContentParts {
			if contentPart.Type == ai.ContentTypeImage && contentPart.Image != nil {
				return true
			}
		}
	}
	return false
}
