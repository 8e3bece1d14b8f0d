package content

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"ArticlePress/internal/ports"
)

const maxExcerptRunes = 2000

// ReadabilityFetcher extracts the readable text of a story page for use as
// prompt grounding. Pages that defeat extraction yield an error; the pipeline
// treats that as "no excerpt" and proceeds with the headline alone.
type ReadabilityFetcher struct {
	client *http.Client
}

var _ ports.ContentFetcher = (*ReadabilityFetcher)(nil)

// NewReadabilityFetcher wires an HTTP client; defaults to a 20 second timeout.
func NewReadabilityFetcher(client *http.Client) *ReadabilityFetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &ReadabilityFetcher{client: client}
}

// Excerpt downloads the page and returns its extracted text, truncated to a
// prompt-sized excerpt.
func (f *ReadabilityFetcher) Excerpt(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid page url %s: %w", pageURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "ArticlePress/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned %s", resp.Status)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("extract content: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no readable content at %s", pageURL)
	}

	runes := []rune(text)
	if len(runes) > maxExcerptRunes {
		text = string(runes[:maxExcerptRunes])
	}
	return text, nil
}
