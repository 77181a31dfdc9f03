package ai

import "context"

// Provider sends one chat request to a hosted model and returns its
// complete answer. Implementations are shared between the extraction
// pipeline and the inbox watcher, so they must be safe for concurrent use.
//
// Construction and credentials are the implementation's business; the
// pipeline only ever sends.
type Provider interface {
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)

	// Name is a short identifier used in errors and telemetry, e.g. "gemini".
	Name() string
}
