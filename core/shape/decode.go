package shape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrMalformedJSON is returned when the text is not a syntactically valid JSON object.
	ErrMalformedJSON = errors.New("malformed JSON")

	// ErrMissingField is returned when a required top-level field is absent or has the wrong type.
	ErrMissingField = errors.New("missing required field")
)

// Required top-level fields of a food analysis document.
const (
	FieldFoodItems   = "foodItems"
	FieldTotalMacros = "totalMacros"
	FieldSuggestion  = "suggestion"
)

// Document is a decoded analysis whose required fields have been checked:
// foodItems is an array and totalMacros is an object. Every other lookup
// goes through gjson and falls back to an explicit default.
type Document struct {
	root gjson.Result
}

// Root exposes the underlying gjson value.
func (d Document) Root() gjson.Result {
	return d.root
}

// Decode validates text as a JSON object carrying an array foodItems and an
// object totalMacros. Failures wrap ErrMalformedJSON or ErrMissingField.
func Decode(text string) (Document, error) {
	if strings.TrimSpace(text) == "" {
		return Document{}, fmt.Errorf("%w: empty input", ErrMalformedJSON)
	}

	if !gjson.Valid(text) {
		return Document{}, fmt.Errorf("%w: invalid syntax", ErrMalformedJSON)
	}

	root := gjson.Parse(text)
	if !root.IsObject() {
		return Document{}, fmt.Errorf("%w: root is %s, not an object", ErrMalformedJSON, root.Type)
	}

	if !root.Get(FieldFoodItems).IsArray() {
		return Document{}, fmt.Errorf("%w: %s must be an array", ErrMissingField, FieldFoodItems)
	}

	if !root.Get(FieldTotalMacros).IsObject() {
		return Document{}, fmt.Errorf("%w: %s must be an object", ErrMissingField, FieldTotalMacros)
	}

	return Document{root: root}, nil
}
