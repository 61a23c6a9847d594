// Package llm defines the Provider interface for the reasoning-service
// backends used by the extraction pipeline.
//
// A provider wraps a remote or local model API (OpenAI, Anthropic, a local
// Ollama instance, ...) behind a uniform completion call. The pipeline
// treats the model as opaque: it sends a prompt, gets free text back, and
// owns all parsing and validation of that text itself.
//
// Implementations must be safe for concurrent use and must honour context
// cancellation promptly — the extractor enforces its own wall-clock timeout
// through the context it passes in.
package llm

import "context"

// Message is a single turn in the conversation sent to the model.
type Message struct {
	// Role is "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// Usage holds token accounting returned by the backend. Counts are in the
// model's native token unit and may differ between providers for the same
// text.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// CompletionRequest carries everything the model needs to produce a
// response. Messages must be non-empty.
type CompletionRequest struct {
	// SystemPrompt is a high-priority instruction injected before the
	// conversation. Providers without a dedicated system slot prepend it
	// as a "system"-role message.
	SystemPrompt string

	// Messages is the ordered conversation; the last entry drives the
	// response.
	Messages []Message

	// Temperature controls output randomness. The extractor uses a low
	// value since it wants deterministic JSON, not creativity.
	Temperature float64

	// MaxTokens caps completion length. Zero means provider default.
	MaxTokens int
}

// CompletionResponse is the model's full reply.
type CompletionResponse struct {
	// Content is the text of the reply.
	Content string

	// Usage contains token accounting for this request/response pair.
	Usage Usage
}

// Provider is the abstraction over any reasoning-service backend.
type Provider interface {
	// Complete sends req and waits for the full response. Returns an
	// error if the request fails or ctx is cancelled first.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
