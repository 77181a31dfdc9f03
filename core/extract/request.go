package extract

import (
	"github.com/leofalp/mealscan/nutrition"
	"github.com/leofalp/mealscan/providers/ai"
)

// Request is one extraction call.
type Request struct {
	// RawText is the model response to extract from.
	RawText string

	// Prompt is the original prompt text. Regenerations append the corrective
	// directive to it.
	Prompt string

	// Image is resent on image-mode regenerations.
	Image *ai.ImageData

	// Mode defaults to image when Image is set, text otherwise.
	Mode nutrition.Mode

	FoodName string
	Quantity string

	ExpectsSuggestion bool
	Context           *nutrition.AnalysisContext
}

func (r Request) mode() nutrition.Mode {
	if r.Mode != "" {
		return r.Mode
	}
	if r.Image != nil {
		return nutrition.ModeImage
	}
	return nutrition.ModeText
}

// WantsSuggestion reports whether a suggestion block is expected, either
// explicitly or because an analysis context was supplied.
func (r Request) WantsSuggestion() bool {
	return r.ExpectsSuggestion || r.Context != nil
}
