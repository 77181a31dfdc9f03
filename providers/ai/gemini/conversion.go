package gemini

import (
	"fmt"
	"strings"
	"time"

	"github.com/leofalp/mealscan/providers/ai"
)

const responseFormatJSON = "json_object"

// requestToGemini converts an ai.ChatRequest to a Gemini generateContentRequest.
func requestToGemini(request ai.ChatRequest) generateContentRequest {
	req := generateContentRequest{
		Contents:         buildContents(request.Messages),
		GenerationConfig: buildGenerationConfig(request.GenerationConfig, request.ResponseFormat),
	}

	if request.SystemPrompt != "" {
		req.SystemInstruction = &systemInstruction{
			Parts: []part{{Text: request.SystemPrompt}},
		}
	}

	return req
}

// buildContents maps user → user and assistant → model. System messages in
// the list are sent as user turns.
func buildContents(messages []ai.Message) []content {
	contents := make([]content, 0, len(messages))

	for _, msg := range messages {
		role := "user"
		if msg.Role == ai.RoleAssistant {
			role = "model"
		}

		var parts []part
		if len(msg.ContentParts) > 0 {
			parts = contentPartsToGeminiParts(msg.ContentParts)
		} else if msg.Content != "" {
			parts = []part{{Text: msg.Content}}
		}

		if len(parts) > 0 {
			contents = append(contents, content{Role: role, Parts: parts})
		}
	}

	return contents
}

func contentPartsToGeminiParts(contentParts []ai.ContentPart) []part {
	parts := make([]part, 0, len(contentParts))
	for _, contentPart := range contentParts {
		switch contentPart.Type {
		case ai.ContentTypeText:
			if contentPart.Text != "" {
				parts = append(parts, part{Text: contentPart.Text})
			}
		case ai.ContentTypeImage:
			if contentPart.Image != nil {
				parts = append(parts, imageToPart(contentPart.Image))
			}
		}
	}
	return parts
}

// imageToPart prefers the URI reference when both URI and inline data are set.
func imageToPart(image *ai.ImageData) part {
	if image.URI != "" {
		return part{FileData: &fileData{MimeType: image.MimeType, FileURI: image.URI}}
	}
	return part{InlineData: &inlineData{MimeType: image.MimeType, Data: image.Data}}
}

func buildGenerationConfig(cfg *ai.GenerationConfig, respFmt *ai.ResponseFormat) *generationConfig {
	if cfg == nil && respFmt == nil {
		return nil
	}

	gc := &generationConfig{}

	if cfg != nil {
		if cfg.Temperature > 0 {
			t := float64(cfg.Temperature)
			gc.Temperature = &t
		}
		if cfg.TopP > 0 {
			p := float64(cfg.TopP)
			gc.TopP = &p
		}
		if cfg.MaxOutputTokens > 0 {
			gc.MaxOutputTokens = &cfg.MaxOutputTokens
		}
	}

	if respFmt != nil && respFmt.Type == responseFormatJSON {
		gc.ResponseMimeType = "application/json"
	}

	return gc
}

// geminiToGeneric maps the first candidate to an ai.ChatResponse. Thought
// parts are dropped.
func geminiToGeneric(resp generateContentResponse) *ai.ChatResponse {
	result := &ai.ChatResponse{
		Id:    resp.ResponseID,
		Model: resp.ModelVersion,
	}
	if result.Id == "" {
		result.Id = fmt.Sprintf("gemini-%d", time.Now().UnixNano())
	}

	if resp.UsageMetadata != nil {
		result.Usage = &ai.Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		}
	}

	if len(resp.Candidates) == 0 {
		result.FinishReason = "error"
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			result.FinishReason = "content_filter"
			result.Refusal = resp.PromptFeedback.BlockReason
		}
		return result
	}

	candidate := resp.Candidates[0]
	result.FinishReason = mapFinishReason(candidate.FinishReason)

	if candidate.Content != nil {
		var textParts []string
		for _, p := range candidate.Content.Parts {
			if p.Text != "" && !p.Thought {
				textParts = append(textParts, p.Text)
			}
		}
		result.Content = strings.Join(textParts, "")
	}

	if result.FinishReason == "content_filter" && result.Content == "" {
		result.Refusal = candidate.FinishReason
	}

	return result
}

func mapFinishReason(geminiReason string) string {
	switch geminiReason {
	case "STOP":
		return "stop"
	case "MAX_TOKENS":
		return "length"
	case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT", "SPII", "IMAGE_SAFETY":
		return "content_filter"
	case "":
		return ""
	default:
		return strings.ToLower(geminiReason)
	}
}
