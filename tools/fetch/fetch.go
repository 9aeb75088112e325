// Package fetch provides the agent's Fetch tool: it downloads a web page
// and reduces it to plain text small enough for a model transcript.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// DefaultMaxBytes bounds the extracted text, keeping observations from
// swamping the transcript.
const DefaultMaxBytes = 32 * 1024

const fetchUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Fetcher downloads URLs and extracts readable text.
type Fetcher struct {
	client   *http.Client
	maxBytes int
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = client }
}

// WithMaxBytes overrides the extracted-text size cap.
func WithMaxBytes(n int) FetcherOption {
	return func(f *Fetcher) { f.maxBytes = n }
}

// WithTimeout overrides the HTTP client timeout. Non-positive values keep
// the default.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// New creates a Fetcher with a modest timeout.
func New(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{Timeout: 15 * time.Second},
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads the URL, strips HTML to plain text, and truncates to the
// configured cap. Only http and https URLs are accepted.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", errors.New("fetch url is empty")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported url scheme %q", parsed.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trimmed, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch http %d", resp.StatusCode)
	}

	// Read at most maxBytes*4 of raw HTML; markup usually shrinks a lot
	// when stripped, and unbounded reads are a liability on huge pages.
	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(f.maxBytes)*4))
	if err != nil {
		return "", err
	}

	text := ExtractText(string(body))
	if len(text) > f.maxBytes {
		text = text[:f.maxBytes] + "\n[TRUNCATED]"
	}
	return text, nil
}

var (
	reScript     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	reStyle      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	reNav        = regexp.MustCompile(`(?is)<nav[^>]*>.*?</nav>`)
	reHeader     = regexp.MustCompile(`(?is)<header[^>]*>.*?</header>`)
	reFooter     = regexp.MustCompile(`(?is)<footer[^>]*>.*?</footer>`)
	reTags       = regexp.MustCompile(`<[^>]+>`)
	reWhitespace = regexp.MustCompile(`[ \t]+`)
	reBlankLines = regexp.MustCompile(`\n{3,}`)
)

// ExtractText strips scripts, styles and boilerplate sections, removes the
// remaining tags, decodes entities, and collapses whitespace.
func ExtractText(page string) string {
	s := reScript.ReplaceAllString(page, "")
	s = reStyle.ReplaceAllString(s, "")
	s = reNav.ReplaceAllString(s, "")
	s = reHeader.ReplaceAllString(s, "")
	s = reFooter.ReplaceAllString(s, "")
	s = reTags.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = reWhitespace.ReplaceAllString(s, " ")

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	s = strings.Join(lines, "\n")
	s = reBlankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Tool adapts a Fetcher to the agent loop's tool contract.
type Tool struct {
	fetcher *Fetcher
}

// NewTool wraps a fetcher as the agent's Fetch tool.
func NewTool(fetcher *Fetcher) *Tool {
	return &Tool{fetcher: fetcher}
}

func (t *Tool) Name() string { return "Fetch" }

func (t *Tool) Description() string {
	return "Downloads a web page. Input is a URL; returns the page's readable text."
}

func (t *Tool) Invoke(ctx context.Context, input string) (string, error) {
	return t.fetcher.Fetch(ctx, input)
}
