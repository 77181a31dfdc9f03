package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across different components of the system.

// --- LLM Provider Attributes ---

const (
	// AttrLLMProvider is the name of the LLM provider (e.g., "gemini")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMResponseID is the unique response identifier from the provider
	AttrLLMResponseID = "llm.response.id"

	// AttrLLMFinishReason is the reason the generation finished
	AttrLLMFinishReason = "llm.finish_reason"

	// AttrLLMTokensTotal is the total number of tokens
	AttrLLMTokensTotal = "llm.tokens.total" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMHasImage is true when the request carried an image part
	AttrLLMHasImage = "llm.request.has_image"
)

// --- HTTP Attributes ---

const (
	AttrHTTPMethod           = "http.method"
	AttrHTTPStatusCode       = "http.status_code"
	AttrHTTPURL              = "http.url"
	AttrHTTPRequestBodySize  = "http.request.body.size"
	AttrHTTPResponseBodySize = "http.response.body.size"
	AttrHTTPDuration         = "http.request.duration"
)

// --- Extraction Attributes ---

const (
	// AttrExtractMode is the request mode ("image" or "text")
	AttrExtractMode = "extract.mode"

	// AttrExtractState is the pipeline state an attempt ran in
	AttrExtractState = "extract.state"

	// AttrExtractAttempt is the zero-based attempt counter within the state
	AttrExtractAttempt = "extract.attempt"

	// AttrExtractOutcome is the terminal state ("success" or "fallback")
	AttrExtractOutcome = "extract.outcome"

	// AttrExtractAttempts is the total number of attempts made
	AttrExtractAttempts = "extract.attempts"

	// AttrExtractFoodItems is the number of food items in the result
	AttrExtractFoodItems = "extract.food_items"

	// AttrExtractExpectsSuggestion is true when a suggestion block was expected
	AttrExtractExpectsSuggestion = "extract.expects_suggestion"
)

// --- Store Attributes ---

const (
	AttrStoreUserID     = "store.user_id"
	AttrStoreAnalysisID = "store.analysis_id"
)

// --- General Attributes ---

const (
	AttrError             = "error"
	AttrDuration          = "duration"
	AttrStatus            = "status"
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	SpanExtract   = "extract.run"
	SpanStoreSave = "store.save"
)

// --- Event Names ---

const (
	EventLLMRequestStart = "llm.request.start"
	EventLLMRequestEnd   = "llm.request.end"
	EventAttemptFailed   = "extract.attempt.failed"
	EventBackoff         = "extract.backoff"
)

// --- Metric Names ---

const (
	MetricExtractCount         = "mealscan.extract.count"
	MetricExtractFallbackCount = "mealscan.extract.fallback.count"
	MetricExtractAttempts      = "mealscan.extract.attempts"
	MetricExtractRegenerations = "mealscan.extract.regenerations"
)
