// Package gemini implements [ai.Provider] for Google's Gemini generative
// language API (generateContent).
//
// Requests are converted from [ai.ChatRequest] to Gemini's wire format: text
// parts, inline base64 images (inlineData) and URI images (fileData). A
// "json_object" response format maps to responseMimeType application/json.
// Responses are mapped back to [ai.ChatResponse]; a blocked prompt surfaces as
// [ai.ChatResponse.Refusal].
//
// [New] reads GEMINI_API_KEY, GEMINI_API_BASE_URL and GEMINI_MODEL from the
// environment; use the With* methods to configure the provider explicitly.
package gemini
