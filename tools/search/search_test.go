package search

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubBackend struct {
	name    string
	results []Result
	err     error
	queries []string
}

func (s *stubBackend) Name() string { return s.name }

func (s *stubBackend) Search(ctx context.Context, query string) ([]Result, error) {
	s.queries = append(s.queries, query)
	return s.results, s.err
}

func TestToolFormatsResults(t *testing.T) {
	backend := &stubBackend{name: "stub", results: []Result{
		{Title: "Go", URL: "https://go.dev", Snippet: "The Go programming language"},
		{Title: "Docs", URL: "https://go.dev/doc"},
	}}
	tool := NewTool(backend, 0)

	out, err := tool.Invoke(context.Background(), "  golang  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.queries[0] != "golang" {
		t.Errorf("expected trimmed query, got %q", backend.queries[0])
	}
	for _, want := range []string{"1. Go", "https://go.dev", "The Go programming language", "2. Docs"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestToolCapsResultCount(t *testing.T) {
	results := make([]Result, 10)
	for i := range results {
		results[i] = Result{Title: "t", URL: "https://example.com/" + string(rune('a'+i))}
	}
	tool := NewTool(&stubBackend{results: results}, 3)

	out, err := tool.Invoke(context.Background(), "q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "4.") {
		t.Errorf("expected at most 3 results:\n%s", out)
	}
}

func TestToolEmptyResultsIsNotAnError(t *testing.T) {
	tool := NewTool(&stubBackend{}, 0)

	out, err := tool.Invoke(context.Background(), "obscure query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No results found") {
		t.Errorf("expected no-results text, got %q", out)
	}
}

func TestToolRejectsEmptyQuery(t *testing.T) {
	tool := NewTool(&stubBackend{}, 0)
	if _, err := tool.Invoke(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestToolPropagatesBackendError(t *testing.T) {
	tool := NewTool(&stubBackend{err: errors.New("boom")}, 0)
	if _, err := tool.Invoke(context.Background(), "q"); err == nil {
		t.Fatal("expected backend error to propagate")
	}
}

func TestMultiInterleavesAndDeduplicates(t *testing.T) {
	a := &stubBackend{name: "a", results: []Result{
		{Title: "a1", URL: "https://x/1"},
		{Title: "a2", URL: "https://x/2"},
	}}
	b := &stubBackend{name: "b", results: []Result{
		{Title: "b1", URL: "https://x/1"}, // duplicate of a1
		{Title: "b2", URL: "https://x/3"},
		{Title: "b3", URL: "https://x/4"},
	}}

	merged, err := NewMulti(a, b).Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var urls []string
	for _, r := range merged {
		urls = append(urls, r.URL)
	}
	want := []string{"https://x/1", "https://x/2", "https://x/3", "https://x/4"}
	if len(urls) != len(want) {
		t.Fatalf("expected %v, got %v", want, urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], urls[i])
		}
	}
}

func TestMultiToleratesPartialFailure(t *testing.T) {
	ok := &stubBackend{name: "ok", results: []Result{{Title: "t", URL: "https://x/1"}}}
	broken := &stubBackend{name: "broken", err: errors.New("down")}

	merged, err := NewMulti(ok, broken).Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("expected partial success, got %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("expected 1 result, got %d", len(merged))
	}
}

func TestMultiFailsWhenAllBackendsFail(t *testing.T) {
	a := &stubBackend{name: "a", err: errors.New("down")}
	b := &stubBackend{name: "b", err: errors.New("also down")}

	if _, err := NewMulti(a, b).Search(context.Background(), "q"); err == nil {
		t.Fatal("expected error when every backend fails")
	}
}
