package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const liteResultsPage = `
<html><body><table>
<tr><td><a rel="nofollow" class='result-link' href="https://go.dev/">The Go Programming Language</a></td></tr>
<tr><td class='result-snippet'>Build simple, secure, scalable systems with Go</td></tr>
<tr><td><a rel="nofollow" class='result-link' href="https://go.dev/doc/">Documentation &amp; Tutorials</a></td></tr>
<tr><td class='result-snippet'>Learn <b>Go</b> from the official docs</td></tr>
</table></body></html>`

func TestDuckDuckGoParsesLitePage(t *testing.T) {
	var gotQuery, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		r.ParseForm()
		gotQuery = r.FormValue("q")
		w.Write([]byte(liteResultsPage))
	}))
	defer server.Close()

	d := NewDuckDuckGo(
		WithDuckDuckGoEndpoint(server.URL),
		WithDuckDuckGoInterval(0),
	)
	results, err := d.Search(context.Background(), "golang")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("expected POST, got %s", gotMethod)
	}
	if gotQuery != "golang" {
		t.Errorf("expected query forwarded, got %q", gotQuery)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].URL != "https://go.dev/" || results[0].Title != "The Go Programming Language" {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if results[0].Snippet != "Build simple, secure, scalable systems with Go" {
		t.Errorf("unexpected snippet: %q", results[0].Snippet)
	}
	// Entities decoded, inner tags stripped.
	if results[1].Title != "Documentation & Tutorials" {
		t.Errorf("expected decoded title, got %q", results[1].Title)
	}
	if results[1].Snippet != "Learn Go from the official docs" {
		t.Errorf("expected stripped snippet, got %q", results[1].Snippet)
	}
}

func TestDuckDuckGoNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	d := NewDuckDuckGo(
		WithDuckDuckGoEndpoint(server.URL),
		WithDuckDuckGoInterval(0),
	)
	if _, err := d.Search(context.Background(), "golang"); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestParseAnyLinksFallback(t *testing.T) {
	page := `
<html><body>
<a href="/internal">Internal navigation link</a>
<a href="https://duckduckgo.com/about">About DuckDuckGo pages</a>
<a href="https://example.com/article">A real external article</a>
<a href="https://example.com/article">A real external article</a>
</body></html>`

	results := parseLiteResults(page)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d: %+v", len(results), results)
	}
	if results[0].URL != "https://example.com/article" {
		t.Errorf("unexpected result: %+v", results[0])
	}
}
