// Package search provides web search backends and the agent-facing Search
// tool built on top of them.
//
// Available backends:
//
//   - DuckDuckGo: free, no API key required (scrapes lite.duckduckgo.com)
//   - Brave: requires an API key sent via X-Subscription-Token
//   - Multi: fans a query out to several backends concurrently
package search

import (
	"context"
	"fmt"
	"strings"
)

// Result is a single web search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Backend executes a web search query.
type Backend interface {
	// Name identifies the backend in logs and errors.
	Name() string

	// Search returns results for a query, best first.
	Search(ctx context.Context, query string) ([]Result, error)
}

// DefaultMaxResults caps how many results the tool reports per query.
const DefaultMaxResults = 5

// Tool adapts a Backend to the agent loop's tool contract.
type Tool struct {
	backend    Backend
	maxResults int
}

// NewTool wraps a backend as the agent's Search tool. maxResults <= 0 uses
// DefaultMaxResults.
func NewTool(backend Backend, maxResults int) *Tool {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Tool{backend: backend, maxResults: maxResults}
}

func (t *Tool) Name() string { return "Search" }

func (t *Tool) Description() string {
	return "Searches the web. Input is a search query; returns titles, URLs and snippets of the top results."
}

// Invoke runs the query and renders results as a numbered list. An empty
// result set is reported as text, not as an error: the model can reason
// about it and reformulate.
func (t *Tool) Invoke(ctx context.Context, input string) (string, error) {
	query := strings.TrimSpace(input)
	if query == "" {
		return "", fmt.Errorf("search query is empty")
	}

	results, err := t.backend.Search(ctx, query)
	if err != nil {
		return "", fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		return fmt.Sprintf("No results found for %q.", query), nil
	}
	if len(results) > t.maxResults {
		results = results[:t.maxResults]
	}
	return FormatResults(results), nil
}

// FormatResults renders results as a numbered list suitable for an
// observation.
func FormatResults(results []Result) string {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, r.Title, r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", r.Snippet)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
