package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultHostedBaseURL is the DeepSeek OpenAI-compatible endpoint.
const DefaultHostedBaseURL = "https://api.deepseek.com"

// HostedProvider implements LLMProvider using the official openai-go SDK
// against any OpenAI-compatible hosted API.
type HostedProvider struct {
	client openai.Client
}

// NewHostedProvider creates a HostedProvider. apiKey is required; an empty
// baseURL selects DefaultHostedBaseURL. The SDK's own retries are disabled.
func NewHostedProvider(baseURL, apiKey string, httpClient *http.Client) (*HostedProvider, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if baseURL == "" {
		baseURL = DefaultHostedBaseURL
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &HostedProvider{client: openai.NewClient(opts...)}, nil
}

// Complete implements LLMProvider.Complete using chat completions.
func (h *HostedProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := h.client.Chat.Completions.New(ctx, params)
	if err != nil {
		berr := &BackendError{Backend: h.Name(), Model: req.Model, Err: err}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			berr.StatusCode = apiErr.StatusCode
		}
		return "", berr
	}
	if len(resp.Choices) == 0 {
		return "", &BackendError{Backend: h.Name(), Model: req.Model, Err: errors.New("empty choices")}
	}
	return resp.Choices[0].Message.Content, nil
}

// Available implements LLMProvider.Available by listing the API's models.
func (h *HostedProvider) Available(ctx context.Context, model string) (bool, error) {
	page, err := h.client.Models.List(ctx)
	if err != nil {
		return false, fmt.Errorf("listing hosted models: %w", err)
	}
	for _, m := range page.Data {
		if m.ID == model {
			return true, nil
		}
	}
	return false, nil
}

// Name implements LLMProvider.Name.
func (h *HostedProvider) Name() string {
	return BackendHosted
}
