package cmd

import (
	"context"
	"fmt"
)

// CompletionRequest is a single non-streaming chat completion: one system
// message followed by one user message.
type CompletionRequest struct {
	Model       string
	System      string
	User        string
	Temperature float64
	// MaxTokens caps the reply length. Zero leaves the backend default.
	MaxTokens int
}

// LLMProvider defines a backend-agnostic interface for chat completions.
// Implementations include a hosted OpenAI-compatible API, a local
// OpenAI-compatible model server and Ollama.
type LLMProvider interface {
	// Complete sends the request and returns the model's reply verbatim.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	// Available checks if the given model is served by the backend.
	Available(ctx context.Context, model string) (bool, error)
	// Name returns the provider name for display purposes.
	Name() string
}

// BackendError reports a failed completion, whatever the backend.
type BackendError struct {
	Backend    string
	Model      string
	StatusCode int
	Err        error
}

func (e *BackendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s backend (model %s) returned status %d: %v", e.Backend, e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s backend (model %s): %v", e.Backend, e.Model, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
