// Package ai defines the provider-agnostic request and response types used to
// talk to a hosted multimodal model. Each provider's conversion layer maps
// these types to its own wire format, keeping the extraction pipeline
// decoupled from provider-specific details.
//
// Request data flows through [ChatRequest]; a user [Message] can carry a text
// prompt and a meal photo as [ContentPart] values. Responses come back as
// [ChatResponse].
package ai
