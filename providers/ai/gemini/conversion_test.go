package gemini

import (
	"testing"

	"github.com/leofalp/mealscan/providers/ai"
)

func TestRequestToGemini(t *testing.T) {
	req := requestToGemini(ai.ChatRequest{
		SystemPrompt: "You are a nutritionist",
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: "first"},
			{Role: ai.RoleAssistant, Content: "{}"},
			{Role: ai.RoleUser, ContentParts: []ai.ContentPart{
				ai.NewTextPart("again"),
				ai.NewImagePartFromURI("image/png", "gs://bucket/meal.png"),
				ai.NewTextPart(""),
			}},
			{Role: ai.RoleUser},
		},
		GenerationConfig: &ai.GenerationConfig{Temperature: 0.2, MaxOutputTokens: 1024},
	})

	if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != "You are a nutritionist" {
		t.Errorf("unexpected system instruction %+v", req.SystemInstruction)
	}
	if len(req.Contents) != 3 {
		t.Fatalf("expected 3 contents (empty message dropped), got %d", len(req.Contents))
	}
	if req.Contents[1].Role != "model" {
		t.Errorf("assistant role should map to model, got %q", req.Contents[1].Role)
	}

	parts := req.Contents[2].Parts
	if len(parts) != 2 {
		t.Fatalf("expected empty text part to be dropped, got %+v", parts)
	}
	if parts[1].FileData == nil || parts[1].FileData.FileURI != "gs://bucket/meal.png" || parts[1].InlineData != nil {
		t.Errorf("expected fileData part, got %+v", parts[1])
	}

	gc := req.GenerationConfig
	if gc == nil || gc.Temperature == nil || *gc.Temperature < 0.19 || *gc.Temperature > 0.21 {
		t.Errorf("unexpected temperature %+v", gc)
	}
	if gc.MaxOutputTokens == nil || *gc.MaxOutputTokens != 1024 {
		t.Errorf("unexpected max tokens %+v", gc.MaxOutputTokens)
	}
	if gc.ResponseMimeType != "" {
		t.Errorf("expected no response mime type, got %q", gc.ResponseMimeType)
	}
}

func TestBuildGenerationConfig_Nil(t *testing.T) {
	if buildGenerationConfig(nil, nil) != nil {
		t.Error("expected nil config when nothing is set")
	}
	if gc := buildGenerationConfig(nil, &ai.ResponseFormat{Type: "text"}); gc == nil || gc.ResponseMimeType != "" {
		t.Errorf("text response format should not force JSON, got %+v", gc)
	}
}

func TestImageToPart_URIWins(t *testing.T) {
	p := imageToPart(&ai.ImageData{MimeType: "image/png", Data: "abc", URI: "https://example.com/a.png"})
	if p.FileData == nil || p.InlineData != nil {
		t.Errorf("expected URI to take precedence, got %+v", p)
	}
}

func TestMapFinishReason(t *testing.T) {
	tests := map[string]string{
		"STOP":         "stop",
		"MAX_TOKENS":   "length",
		"SAFETY":       "content_filter",
		"IMAGE_SAFETY": "content_filter",
		"OTHER":        "other",
		"":             "",
	}
	for input, want := range tests {
		if got := mapFinishReason(input); got != want {
			t.Errorf("mapFinishReason(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestGeminiToGeneric_SafetyStop(t *testing.T) {
	result := geminiToGeneric(generateContentResponse{
		Candidates: []candidate{{FinishReason: "SAFETY"}},
	})
	if result.Refusal != "SAFETY" || result.Content != "" {
		t.Errorf("expected refusal for safety stop, got %+v", result)
	}
	if result.Id == "" {
		t.Error("expected a generated response id")
	}
}
