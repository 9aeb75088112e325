package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultOpenRouterBaseURL is the OpenAI-compatible chat completions host.
const DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterAdapter implements ProviderAdapter against the OpenRouter chat
// completions endpoint. Unlike GollmAdapter it talks HTTP directly, so
// provider failures carry real status codes and response bodies.
type OpenRouterAdapter struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// OpenRouterOption configures an OpenRouterAdapter.
type OpenRouterOption func(*OpenRouterAdapter)

// WithOpenRouterBaseURL overrides the endpoint, e.g. for tests or proxies.
func WithOpenRouterBaseURL(baseURL string) OpenRouterOption {
	return func(a *OpenRouterAdapter) { a.baseURL = baseURL }
}

// WithOpenRouterHTTPClient overrides the underlying HTTP client.
func WithOpenRouterHTTPClient(client *http.Client) OpenRouterOption {
	return func(a *OpenRouterAdapter) { a.httpClient = client }
}

// NewOpenRouterAdapter creates an adapter authenticated with apiKey.
func NewOpenRouterAdapter(apiKey string, opts ...OpenRouterOption) (*OpenRouterAdapter, error) {
	if apiKey == "" {
		return nil, &ConfigurationError{SDKError: SDKError{
			Message: "openrouter: API key is missing",
		}}
	}
	a := &OpenRouterAdapter{
		apiKey:     apiKey,
		baseURL:    DefaultOpenRouterBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Name returns the provider identifier.
func (a *OpenRouterAdapter) Name() string { return "openrouter" }

// OpenAI-compatible wire types.

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
	Stop        []string      `json:"stop,omitempty"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete sends a blocking chat completion request.
func (a *OpenRouterAdapter) Complete(ctx context.Context, req Request) (*Response, error) {
	body := chatRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stop:        req.StopSequences,
	}
	for _, msg := range req.Messages {
		body.Messages = append(body.Messages, chatMessage{Role: string(msg.Role), Content: msg.Content})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &SDKError{Message: "openrouter: failed to marshal request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, &SDKError{Message: "openrouter: failed to build request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &RequestTimeoutError{SDKError: SDKError{Message: "openrouter: request cancelled", Cause: err}}
		}
		return nil, &NetworkError{SDKError: SDKError{Message: "openrouter: request failed", Cause: err}}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{SDKError: SDKError{Message: "openrouter: failed to read response body", Cause: err}}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, ErrorFromStatusCode(resp.StatusCode,
			fmt.Sprintf("openrouter: chat completion failed with status %d", resp.StatusCode),
			a.Name(), string(raw))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &SDKError{Message: "openrouter: failed to decode response", Cause: err}
	}
	if len(parsed.Choices) == 0 {
		return nil, NewEmptyCompletionError(a.Name())
	}

	return &Response{
		ID:       parsed.ID,
		Model:    parsed.Model,
		Provider: a.Name(),
		Text:     parsed.Choices[0].Message.Content,
		Usage: Usage{
			InputTokens:  parsed.Usage.PromptTokens,
			OutputTokens: parsed.Usage.CompletionTokens,
			TotalTokens:  parsed.Usage.TotalTokens,
		},
	}, nil
}
