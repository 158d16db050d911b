package cmd

import (
	"context"
	"errors"

	ollama "github.com/ollama/ollama/api"
)

// OllamaProvider implements LLMProvider using the Ollama API.
type OllamaProvider struct {
	client OllamaClient
}

// NewOllamaProvider creates a new OllamaProvider for host (empty means OLLAMA_HOST).
func NewOllamaProvider(host string) (*OllamaProvider, error) {
	client, err := NewRealOllamaClient(host)
	if err != nil {
		return nil, err
	}
	return &OllamaProvider{client: client}, nil
}

// NewOllamaProviderFromClient creates an OllamaProvider from an existing OllamaClient.
// Used for testing with MockOllamaClient.
func NewOllamaProviderFromClient(client OllamaClient) *OllamaProvider {
	return &OllamaProvider{client: client}
}

// Complete implements LLMProvider.Complete using the Ollama Chat API.
func (o *OllamaProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	falseVar := false
	options := map[string]any{
		"temperature": req.Temperature,
	}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}
	chatReq := &ollama.ChatRequest{
		Model: req.Model,
		Messages: []ollama.Message{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Options: options,
		Stream:  &falseVar,
	}

	var reply string
	err := o.client.Chat(ctx, chatReq, func(resp ollama.ChatResponse) error {
		reply += resp.Message.Content
		return nil
	})
	if err != nil {
		berr := &BackendError{Backend: o.Name(), Model: req.Model, Err: err}
		var statusErr ollama.StatusError
		if errors.As(err, &statusErr) {
			berr.StatusCode = statusErr.StatusCode
		}
		return "", berr
	}
	return reply, nil
}

// Available implements LLMProvider.Available by checking the Ollama model list.
func (o *OllamaProvider) Available(ctx context.Context, model string) (bool, error) {
	response, err := o.client.List(ctx)
	if err != nil {
		return false, err
	}
	for _, m := range response.Models {
		if m.Name == model || m.Model == model {
			return true, nil
		}
	}
	return false, nil
}

// Name implements LLMProvider.Name.
func (o *OllamaProvider) Name() string {
	return BackendOllama
}
