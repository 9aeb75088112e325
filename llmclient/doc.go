// Package llmclient provides the completion client used by the agent loop.
// It presents a small provider-agnostic surface over concrete LLM backends:
// a transcript of role-tagged messages goes in, the assistant's reply text
// comes out.
//
// # Architecture
//
// The package is organized in three layers:
//
//   - ProviderAdapter: the interface every backend implements. Two adapters
//     ship with the package: GollmAdapter (wrapping github.com/teilomillet/gollm
//     for OpenAI, Anthropic and friends) and OpenRouterAdapter (a raw HTTP
//     client against the OpenAI-compatible chat completions endpoint).
//   - Retry: linear-backoff retry over retryable provider failures
//     (rate limits, server faults, network errors). Client errors fail
//     immediately.
//   - Client: binds an adapter to a model, temperature, token limit, and a
//     RetryPolicy, and exposes Complete(ctx, transcript, stopSequences).
//
// # Errors
//
// All failures are classified into a small taxonomy rooted at SDKError.
// ProviderError carries the provider name, HTTP status, and response body.
// A reply that arrives successfully but contains only whitespace is reported
// as *EmptyCompletionError, which is never retried here; the agent loop
// resolves it through its fallback policy instead.
//
// # Quick Start
//
//	adapter, _ := llmclient.NewOpenRouterAdapter(apiKey)
//	client := llmclient.NewClient(adapter,
//	    llmclient.WithModel("openai/gpt-4o-mini"),
//	    llmclient.WithRetryPolicy(llmclient.DefaultRetryPolicy()),
//	)
//
//	reply, err := client.Complete(ctx, []llmclient.Message{
//	    llmclient.SystemMessage("You are terse."),
//	    llmclient.UserMessage("What is 2+2?"),
//	}, nil)
package llmclient
