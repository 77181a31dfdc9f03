package ai

import (
	"encoding/base64"
	"fmt"
)

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest represents a request to send a chat message
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`             // Model name or identifier
	Messages         []Message         `json:"messages"`                    // Conversation, system prompt excluded
	SystemPrompt     string            `json:"system_prompt,omitempty"`     // Optional system prompt
	ResponseFormat   *ResponseFormat   `json:"response_format,omitempty"`   // Optional response format
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"` // Optional generation configuration
}

// Message represents a single message in a conversation
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`

	// ContentParts carries multimodal input. When set, providers use it instead of Content.
	ContentParts []ContentPart `json:"content_parts,omitempty"`
}

type GenerationConfig struct {
	MaxOutputTokens int     `json:"max_output_tokens,omitempty"` // Optional max tokens for the response
	Temperature     float32 `json:"temperature,omitempty"`       // Sampling temperature [0..2]. Lower => more deterministic.
	TopP            float32 `json:"top_p,omitempty"`             // Nucleus (top-p) sampling [0..1]
}

type ResponseFormat struct {
	Type string `json:"type,omitempty"` // "text" or "json_object"
}

// ContentType identifies the kind of payload carried by a ContentPart.
type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
)

// ContentPart is one piece of a multimodal message.
type ContentPart struct {
	Type  ContentType `json:"type"`
	Text  string      `json:"text,omitempty"`
	Image *ImageData  `json:"image,omitempty"`
}

// ImageData holds an image either inline (base64 Data) or by reference (URI).
// When both are set, URI wins.
type ImageData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data,omitempty"`
	URI      string `json:"uri,omitempty"`
}

// Validate reports whether the image carries something a provider can send.
func (d *ImageData) Validate() error {
	if d == nil {
		return fmt.Errorf("image data is nil")
	}
	if d.MimeType == "" {
		return fmt.Errorf("image mime type is empty")
	}
	if d.Data == "" && d.URI == "" {
		return fmt.Errorf("image has neither inline data nor URI")
	}
	return nil
}

// NewTextPart builds a text content part.
func NewTextPart(text string) ContentPart {
	return ContentPart{Type: ContentTypeText, Text: text}
}

// NewImagePart builds an inline image part from base64-encoded data.
func NewImagePart(mimeType, base64Data string) ContentPart {
	return ContentPart{Type: ContentTypeImage, Image: &ImageData{MimeType: mimeType, Data: base64Data}}
}

// NewImagePartFromURI builds an image part referencing a remote or uploaded file.
func NewImagePartFromURI(mimeType, uri string) ContentPart {
	return ContentPart{Type: ContentTypeImage, Image: &ImageData{MimeType: mimeType, URI: uri}}
}

// NewImageData encodes raw image bytes into an inline ImageData.
func NewImageData(mimeType string, raw []byte) *ImageData {
	return &ImageData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(raw)}
}

/*
	##### PROVIDER OUTPUT #####
*/

type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// ChatResponse represents the response from a chat completion
type ChatResponse struct {
	Id           string `json:"id"`
	Model        string `json:"model"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`

	Refusal string `json:"refusal,omitempty"` // Set when the model declines (safety/policy)
}

/*
	##### ENUMS #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Model response
)
