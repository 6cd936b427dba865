package llm

import (
	"context"
	"time"
)

// ImagePart is one inline image reference in a multimodal request.
// URL is always a complete data-URI by the time it reaches the gateway.
type ImagePart struct {
	URL string
}

// Request describes a single model invocation
type Request struct {
	// SystemPrompt is optional; when empty no system message is sent
	SystemPrompt string

	// Text is the user message body. Images, when present, are appended
	// after the text as ordered multimodal content parts.
	Text   string
	Images []ImagePart

	MaxTokens int

	// JSONMode asks the API for a structured JSON object response.
	// Structured calls always run at temperature 0; Temperature is only
	// consulted for free-text calls.
	JSONMode    bool
	Temperature float32

	// Timeout overrides the gateway's default per-call deadline when > 0
	Timeout time.Duration
}

// Gateway is the single choke-point for calls to the external model.
//
// Invoke either returns a validated, non-empty string or a *GatewayError;
// it never returns an empty success. Every downstream component relies on
// that invariant.
type Gateway interface {
	Invoke(ctx context.Context, req Request) (string, error)
}
