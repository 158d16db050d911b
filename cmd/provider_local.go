package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultLocalBaseURL is where LM Studio and similar servers listen by default.
const DefaultLocalBaseURL = "http://127.0.0.1:1234"

// LocalProvider implements LLMProvider against a locally served model using the
// OpenAI-compatible chat completions API. Works with LM Studio, vLLM,
// llama.cpp server, and other compatible endpoints.
type LocalProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewLocalProvider creates a LocalProvider. An empty baseURL selects
// DefaultLocalBaseURL; apiKey is optional and only sent when set.
func NewLocalProvider(baseURL, apiKey string, client *http.Client) *LocalProvider {
	if baseURL == "" {
		baseURL = DefaultLocalBaseURL
	}
	if client == nil {
		client = &http.Client{}
	}
	return &LocalProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *chatError   `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatError struct {
	Message string `json:"message"`
}

type modelList struct {
	Data []modelEntry `json:"data"`
}

type modelEntry struct {
	ID string `json:"id"`
}

// Complete implements LLMProvider.Complete using the chat completions endpoint.
func (l *LocalProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	fail := func(status int, err error) (string, error) {
		return "", &BackendError{Backend: l.Name(), Model: req.Model, StatusCode: status, Err: err}
	}

	reqBody := chatRequest{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      false,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fail(0, fmt.Errorf("failed to marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return fail(0, fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if l.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+l.apiKey)
	}

	resp, err := l.client.Do(httpReq)
	if err != nil {
		return fail(0, fmt.Errorf("request failed: %w", err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return fail(resp.StatusCode, errors.New(strings.TrimSpace(string(respBody))))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("failed to parse response: %w", err))
	}

	if chatResp.Error != nil {
		return fail(resp.StatusCode, errors.New(chatResp.Error.Message))
	}

	if len(chatResp.Choices) == 0 {
		return fail(resp.StatusCode, errors.New("no valid response received from the model"))
	}

	return chatResp.Choices[0].Message.Content, nil
}

// Available implements LLMProvider.Available by checking the models endpoint.
func (l *LocalProvider) Available(ctx context.Context, model string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/v1/models", nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	if l.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+l.apiKey)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("local model server request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return false, nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	var models modelList
	if err := json.Unmarshal(respBody, &models); err != nil {
		return false, fmt.Errorf("failed to parse models response: %w", err)
	}

	for _, m := range models.Data {
		if m.ID == model {
			return true, nil
		}
	}
	return false, nil
}

// Name implements LLMProvider.Name.
func (l *LocalProvider) Name() string {
	return BackendLocal
}
