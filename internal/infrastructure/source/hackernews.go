package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"ArticlePress/internal/domain"
	"ArticlePress/internal/ports"
)

const defaultHNBaseURL = "https://hacker-news.firebaseio.com/v0"

// HackerNewsSource reads the top-stories ranking and hydrates each story
// through the item endpoint. Item calls go through a rate limiter so a large
// maxItems does not hammer the API.
type HackerNewsSource struct {
	name     string
	baseURL  string
	maxItems int
	client   *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
}

var _ ports.NewsSource = (*HackerNewsSource)(nil)

// NewHackerNewsSource wires the API base URL; baseURL defaults to the public
// Firebase endpoint and maxItems to 30.
func NewHackerNewsSource(name, baseURL string, maxItems int, client *http.Client, logger *slog.Logger) *HackerNewsSource {
	if baseURL == "" {
		baseURL = defaultHNBaseURL
	}
	if maxItems <= 0 {
		maxItems = 30
	}
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &HackerNewsSource{
		name:     name,
		baseURL:  baseURL,
		maxItems: maxItems,
		client:   client,
		limiter:  rate.NewLimiter(rate.Limit(10), 1),
		logger:   logger,
	}
}

// Name identifies the source in logs and aggregated items.
func (h *HackerNewsSource) Name() string {
	return h.name
}

// Fetch returns the hydrated top stories. Stories without a title or an
// external URL (job posts, Ask HN threads) are skipped, and a failed item
// hydration drops that one story only.
func (h *HackerNewsSource) Fetch(ctx context.Context) ([]domain.NewsItem, error) {
	var ids []int64
	if err := h.getJSON(ctx, h.baseURL+"/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("top stories: %w", err)
	}
	if len(ids) > h.maxItems {
		ids = ids[:h.maxItems]
	}

	items := make([]domain.NewsItem, 0, len(ids))
	for _, id := range ids {
		if err := h.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var story struct {
			ID          int64  `json:"id"`
			Title       string `json:"title"`
			URL         string `json:"url"`
			Score       int    `json:"score"`
			Descendants int    `json:"descendants"`
			Time        int64  `json:"time"`
		}
		endpoint := fmt.Sprintf("%s/item/%d.json", h.baseURL, id)
		if err := h.getJSON(ctx, endpoint, &story); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if h.logger != nil {
				h.logger.Warn("story hydration failed, skipping", "id", id, "error", err)
			}
			continue
		}
		if story.Title == "" || story.URL == "" {
			continue
		}

		items = append(items, domain.NewsItem{
			ID:       fmt.Sprintf("hn_%d", story.ID),
			Title:    story.Title,
			URL:      story.URL,
			Source:   h.name,
			Points:   story.Score,
			Comments: story.Descendants,
			PostedAt: time.Unix(story.Time, 0).UTC(),
		})
	}

	return items, nil
}

func (h *HackerNewsSource) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hacker news returned %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
