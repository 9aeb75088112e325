package llmclient

import (
	"context"
	"strings"
)

// Client binds a provider adapter to request defaults and a retry policy,
// and exposes the completion contract the agent loop consumes: a transcript
// plus stop sequences in, the assistant's reply text out.
type Client struct {
	adapter     ProviderAdapter
	model       string
	temperature *float64
	maxTokens   *int
	policy      RetryPolicy
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithModel sets the model identifier sent on every request.
func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ClientOption {
	return func(c *Client) { c.temperature = &t }
}

// WithMaxTokens caps the reply length.
func WithMaxTokens(n int) ClientOption {
	return func(c *Client) { c.maxTokens = &n }
}

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(p RetryPolicy) ClientOption {
	return func(c *Client) { c.policy = p }
}

// NewClient creates a Client around the given adapter.
func NewClient(adapter ProviderAdapter, opts ...ClientOption) *Client {
	c := &Client{
		adapter: adapter,
		policy:  DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends the transcript to the provider and returns the reply text.
// Retryable provider failures are retried per the client's policy; a reply
// that is empty or whitespace-only is reported as *EmptyCompletionError.
func (c *Client) Complete(ctx context.Context, transcript []Message, stopSequences []string) (string, error) {
	req := Request{
		Model:         c.model,
		Messages:      transcript,
		Temperature:   c.temperature,
		MaxTokens:     c.maxTokens,
		StopSequences: stopSequences,
	}

	resp, err := Retry(ctx, c.policy, func(ctx context.Context) (*Response, error) {
		return c.adapter.Complete(ctx, req)
	})
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(resp.Text) == "" {
		return "", NewEmptyCompletionError(c.adapter.Name())
	}
	return resp.Text, nil
}

// Close releases resources held by the underlying adapter.
func (c *Client) Close() error {
	if closer, ok := c.adapter.(Closer); ok {
		return closer.Close()
	}
	return nil
}
