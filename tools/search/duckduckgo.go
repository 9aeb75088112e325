package search

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
)

const (
	ddgDefaultEndpoint = "https://lite.duckduckgo.com/lite/"
	ddgUserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// DuckDuckGo scrapes DuckDuckGo's lite HTML interface. No API key is
// required, but the endpoint tolerates roughly one query per second, so all
// requests through one instance are paced.
type DuckDuckGo struct {
	client   *http.Client
	endpoint string
	interval time.Duration

	mu   sync.Mutex
	last time.Time
}

// DuckDuckGoOption configures a DuckDuckGo backend.
type DuckDuckGoOption func(*DuckDuckGo)

// WithDuckDuckGoHTTPClient overrides the default HTTP client.
func WithDuckDuckGoHTTPClient(client *http.Client) DuckDuckGoOption {
	return func(d *DuckDuckGo) { d.client = client }
}

// WithDuckDuckGoEndpoint overrides the lite endpoint URL.
func WithDuckDuckGoEndpoint(endpoint string) DuckDuckGoOption {
	return func(d *DuckDuckGo) { d.endpoint = endpoint }
}

// WithDuckDuckGoInterval overrides the minimum spacing between requests.
func WithDuckDuckGoInterval(interval time.Duration) DuckDuckGoOption {
	return func(d *DuckDuckGo) { d.interval = interval }
}

// NewDuckDuckGo creates a DuckDuckGo backend with a modest timeout and a
// one-second request interval.
func NewDuckDuckGo(opts ...DuckDuckGoOption) *DuckDuckGo {
	d := &DuckDuckGo{
		client:   &http.Client{Timeout: 15 * time.Second},
		endpoint: ddgDefaultEndpoint,
		interval: time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// pace blocks until the instance interval since the previous request has
// elapsed, or the context expires.
func (d *DuckDuckGo) pace(ctx context.Context) error {
	d.mu.Lock()
	wait := time.Until(d.last.Add(d.interval))
	if wait > 0 {
		d.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		d.mu.Lock()
	}
	d.last = time.Now()
	d.mu.Unlock()
	return nil
}

// Search posts the query to the lite HTML page and parses the result table.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]Result, error) {
	if err := d.pace(ctx); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", ddgUserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo http %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return parseLiteResults(string(body)), nil
}

var (
	// The lite page marks result anchors with class "result-link" and
	// snippets with a "result-snippet" table cell. Attribute order varies.
	ddgLinkPattern    = regexp.MustCompile(`<a[^>]*class=['"]result-link['"][^>]*href=['"]([^'"]+)['"][^>]*>([^<]+)</a>`)
	ddgLinkPatternAlt = regexp.MustCompile(`<a[^>]*href=['"]([^'"]+)['"][^>]*class=['"]result-link['"][^>]*>([^<]+)</a>`)
	ddgSnippetPattern = regexp.MustCompile(`<td[^>]*class=['"]result-snippet['"][^>]*>(.*?)</td>`)
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
)

func parseLiteResults(page string) []Result {
	matches := ddgLinkPattern.FindAllStringSubmatch(page, -1)
	if len(matches) == 0 {
		matches = ddgLinkPatternAlt.FindAllStringSubmatch(page, -1)
	}
	snippets := ddgSnippetPattern.FindAllStringSubmatch(page, -1)

	var results []Result
	for i, m := range matches {
		title := stripTags(m[2])
		link := strings.TrimSpace(m[1])
		if link == "" || title == "" {
			continue
		}
		snippet := ""
		if i < len(snippets) {
			snippet = stripTags(snippets[i][1])
		}
		results = append(results, Result{Title: title, URL: link, Snippet: snippet})
	}
	if len(results) == 0 {
		results = parseAnyLinks(page)
	}
	return results
}

// parseAnyLinks is a fallback for layout drift: collect external-looking
// anchors, deduplicated by URL.
func parseAnyLinks(page string) []Result {
	linkPattern := regexp.MustCompile(`<a[^>]+href=['"]([^'"]+)['"][^>]*>([^<]+)</a>`)
	seen := make(map[string]bool)

	var results []Result
	for _, m := range linkPattern.FindAllStringSubmatch(page, -1) {
		link := strings.TrimSpace(m[1])
		title := stripTags(m[2])
		if strings.Contains(link, "duckduckgo.com") ||
			strings.HasPrefix(link, "/") ||
			strings.HasPrefix(link, "#") ||
			strings.HasPrefix(link, "javascript:") {
			continue
		}
		if len(title) < 5 || seen[link] {
			continue
		}
		seen[link] = true
		results = append(results, Result{Title: title, URL: link})
	}
	return results
}

func stripTags(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}
