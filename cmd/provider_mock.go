package cmd

import (
	"context"
	"slices"
	"strings"
)

// MockLLMProvider is an in-memory LLMProvider for tests. It records every
// request and answers by prompt snippet.
type MockLLMProvider struct {
	// MockResponses maps user prompt snippets to replies.
	MockResponses map[string]string
	// DefaultResponse is returned when no snippet matches.
	DefaultResponse string
	// Models lists the served models; nil serves every model.
	Models []string
	// Err, when set, fails every Complete call.
	Err error
	// Requests holds every completion request, in order.
	Requests []CompletionRequest
}

// NewMockLLMProvider returns a mock serving every model.
func NewMockLLMProvider() *MockLLMProvider {
	return &MockLLMProvider{
		MockResponses:   make(map[string]string),
		DefaultResponse: "This is a mock reply for testing purposes.",
	}
}

// Complete implements LLMProvider.
func (m *MockLLMProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return "", m.Err
	}
	for snippet, reply := range m.MockResponses {
		if strings.Contains(req.User, snippet) {
			return reply, nil
		}
	}
	return m.DefaultResponse, nil
}

// Available implements LLMProvider.
func (m *MockLLMProvider) Available(ctx context.Context, model string) (bool, error) {
	return m.Models == nil || slices.Contains(m.Models, model), nil
}

// Name implements LLMProvider.
func (m *MockLLMProvider) Name() string {
	return "mock"
}
