// Package shape turns repaired model text into a [nutrition.FoodAnalysis].
//
// [Decode] is the checked decode step: it either yields a [Document] whose
// required fields are present or an error wrapping [ErrMalformedJSON] or
// [ErrMissingField]. [Shape] then maps the document into the strict domain
// type, defaulting every missing or invalid sub-field and passing each macro
// through [Number].
package shape
