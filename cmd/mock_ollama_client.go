package cmd

import (
	"context"
	"strings"

	ollama "github.com/ollama/ollama/api"
)

// MockOllamaClient is a mock implementation of OllamaClient for testing.
type MockOllamaClient struct {
	// Map of prompt snippets to mock replies
	MockResponses map[string]string
	// Default response if no match is found
	DefaultResponse string
	// Available models to return from List()
	AvailableModels []string
	// Requests records every chat request received, in order.
	Requests []*ollama.ChatRequest
	// ChatErr, when set, is returned by Chat instead of a reply.
	ChatErr error
}

// NewMockOllamaClient creates a new MockOllamaClient with default responses.
func NewMockOllamaClient() *MockOllamaClient {
	return &MockOllamaClient{
		MockResponses:   make(map[string]string),
		DefaultResponse: "This is a mock reply for testing purposes.",
		AvailableModels: []string{DefaultOllamaModel},
	}
}

// Chat implements OllamaClient.Chat for the mock.
func (m *MockOllamaClient) Chat(ctx context.Context, req *ollama.ChatRequest, fn ollama.ChatResponseFunc) error {
	m.Requests = append(m.Requests, req)
	if m.ChatErr != nil {
		return m.ChatErr
	}

	// The user prompt is the last message
	var content string
	if len(req.Messages) > 0 {
		content = req.Messages[len(req.Messages)-1].Content
	}

	reply := m.DefaultResponse
	for key, response := range m.MockResponses {
		if strings.Contains(content, key) {
			reply = response
			break
		}
	}

	return fn(ollama.ChatResponse{
		Message: ollama.Message{
			Role:    "assistant",
			Content: reply,
		},
		Done: true,
	})
}

// List implements OllamaClient.List for the mock.
func (m *MockOllamaClient) List(ctx context.Context) (*ollama.ListResponse, error) {
	models := make([]ollama.ListModelResponse, len(m.AvailableModels))
	for i, modelName := range m.AvailableModels {
		models[i] = ollama.ListModelResponse{
			Name:  modelName,
			Model: modelName,
		}
	}
	return &ollama.ListResponse{
		Models: models,
	}, nil
}
