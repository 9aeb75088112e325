package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const braveDefaultEndpoint = "https://api.search.brave.com/res/v1/web/search"

// braveMaxAttempts bounds how often a rate-limited request is retried
// before the 429 is surfaced to the caller.
const braveMaxAttempts = 3

// braveGate serialises requests for one API key so that all Brave instances
// sharing a key together respect the 1 req/s plan limit.
type braveGate struct {
	mu      sync.Mutex
	readyAt time.Time
}

var (
	braveGatesMu sync.Mutex
	braveGates   = map[string]*braveGate{}
)

func braveGateFor(apiKey string) *braveGate {
	braveGatesMu.Lock()
	defer braveGatesMu.Unlock()
	g, ok := braveGates[apiKey]
	if !ok {
		g = &braveGate{}
		braveGates[apiKey] = g
	}
	return g
}

// acquire blocks until the next request may fire and returns with the gate
// held. The caller must release(delay) after reading the response headers.
// readyAt is re-checked after every sleep: another caller may have pushed
// the window further out while this one was waiting.
func (g *braveGate) acquire(ctx context.Context) error {
	g.mu.Lock()
	for {
		wait := time.Until(g.readyAt)
		if wait <= 0 {
			return nil
		}
		g.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		g.mu.Lock()
	}
}

func (g *braveGate) release(delay time.Duration) {
	g.readyAt = time.Now().Add(delay)
	g.mu.Unlock()
}

// Brave queries the Brave Search API. An API key is required.
type Brave struct {
	apiKey   string
	client   *http.Client
	endpoint string
}

// BraveOption configures a Brave backend.
type BraveOption func(*Brave)

// WithBraveHTTPClient overrides the default HTTP client.
func WithBraveHTTPClient(client *http.Client) BraveOption {
	return func(b *Brave) { b.client = client }
}

// WithBraveEndpoint overrides the API endpoint URL.
func WithBraveEndpoint(endpoint string) BraveOption {
	return func(b *Brave) { b.endpoint = endpoint }
}

// NewBrave constructs a Brave backend.
func NewBrave(apiKey string, opts ...BraveOption) *Brave {
	b := &Brave{
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 10 * time.Second},
		endpoint: braveDefaultEndpoint,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Brave) Name() string { return "brave" }

// Search executes a Brave query. Concurrent calls sharing an API key are
// serialised through a shared per-key gate; a 429 response is retried after
// the delay the rate-limit headers ask for.
func (b *Brave) Search(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(b.apiKey) == "" {
		return nil, errors.New("brave: API key is missing")
	}
	endpoint := b.endpoint + "?q=" + url.QueryEscape(query)
	gate := braveGateFor(b.apiKey)

	var resp *http.Response
	for attempt := 1; ; attempt++ {
		if err := gate.acquire(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			gate.release(0)
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Subscription-Token", b.apiKey)

		resp, err = b.client.Do(req)
		if err != nil {
			gate.release(time.Second)
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			gate.release(braveNextDelay(resp.Header))
			break
		}
		wait := braveResetDelay(resp.Header)
		resp.Body.Close()
		gate.release(wait)
		if attempt >= braveMaxAttempts {
			return nil, fmt.Errorf("brave http 429: still rate limited after %d attempts", attempt)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brave http %d", resp.StatusCode)
	}

	var payload struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(payload.Web.Results))
	for _, r := range payload.Web.Results {
		results = append(results, Result{Title: r.Title, URL: r.URL, Snippet: r.Description})
	}
	return results, nil
}

// braveResetDelay reads X-RateLimit-Reset after a 429. The header is a
// comma-separated list of reset times in seconds; the smallest applies.
func braveResetDelay(h http.Header) time.Duration {
	raw := h.Get("X-RateLimit-Reset")
	if raw == "" {
		return time.Second
	}
	min := -1
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			continue
		}
		if min < 0 || n < min {
			min = n
		}
	}
	if min <= 0 {
		return time.Second
	}
	return time.Duration(min) * time.Second
}

// braveNextDelay paces the next caller off X-RateLimit-Remaining, whose
// first comma-separated field is the per-second bucket.
func braveNextDelay(h http.Header) time.Duration {
	raw := h.Get("X-RateLimit-Remaining")
	if raw == "" {
		return time.Second
	}
	perSecond, err := strconv.Atoi(strings.TrimSpace(strings.SplitN(raw, ",", 2)[0]))
	if err != nil || perSecond <= 0 {
		return time.Second
	}
	return 0
}
