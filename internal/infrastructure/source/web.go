package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ArticlePress/internal/domain"
	"ArticlePress/internal/ports"
)

// WebSource scrapes headline anchors from a page using a configured CSS
// selector. It covers tech-news sites without a usable feed.
type WebSource struct {
	name     string
	pageURL  string
	selector string
	maxItems int
	client   *http.Client
}

var _ ports.NewsSource = (*WebSource)(nil)

// NewWebSource wires a page and the selector matching its headline links;
// selector defaults to "a" and maxItems to 20.
func NewWebSource(name, pageURL, selector string, maxItems int, client *http.Client) *WebSource {
	if selector == "" {
		selector = "a"
	}
	if maxItems <= 0 {
		maxItems = 20
	}
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &WebSource{
		name:     name,
		pageURL:  pageURL,
		selector: selector,
		maxItems: maxItems,
		client:   client,
	}
}

// Name identifies the source in logs and aggregated items.
func (w *WebSource) Name() string {
	return w.name
}

// Fetch downloads the page and extracts headline links matching the
// selector, deduplicated by resolved URL.
func (w *WebSource) Fetch(ctx context.Context) ([]domain.NewsItem, error) {
	doc, err := w.fetchDocument(ctx)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(w.pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page url %s: %w", w.pageURL, err)
	}

	items := make([]domain.NewsItem, 0, w.maxItems)
	seen := map[string]struct{}{}

	doc.Find(w.selector).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Text())
		href, _ := sel.Attr("href")
		if href == "" {
			href, _ = sel.Find("a").First().Attr("href")
		}
		if title == "" || href == "" {
			return true
		}

		resolved, err := base.Parse(href)
		if err != nil {
			return true
		}
		link := resolved.String()
		if _, ok := seen[link]; ok {
			return true
		}
		seen[link] = struct{}{}

		items = append(items, domain.NewsItem{
			ID:       link,
			Title:    title,
			URL:      link,
			Source:   w.name,
			PostedAt: time.Now().UTC(),
		})
		return len(items) < w.maxItems
	})

	return items, nil
}

func (w *WebSource) fetchDocument(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "ArticlePress/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", w.name, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}
