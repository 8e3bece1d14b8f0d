package source

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"ArticlePress/internal/domain"
	"ArticlePress/internal/ports"
)

// RSSSource pulls stories from an RSS or Atom feed. Feeds carry no vote
// counts, so Points and Comments stay zero and ranking among feed items falls
// back to keyword relevance alone.
type RSSSource struct {
	name     string
	feedURL  string
	maxItems int
	parser   *gofeed.Parser
}

var _ ports.NewsSource = (*RSSSource)(nil)

// NewRSSSource wires a feed endpoint; maxItems defaults to 20.
func NewRSSSource(name, feedURL string, maxItems int) *RSSSource {
	if maxItems <= 0 {
		maxItems = 20
	}
	return &RSSSource{
		name:     name,
		feedURL:  feedURL,
		maxItems: maxItems,
		parser:   gofeed.NewParser(),
	}
}

// Name identifies the source in logs and aggregated items.
func (r *RSSSource) Name() string {
	return r.name
}

// Fetch parses the feed and maps entries to news items, capped at maxItems.
func (r *RSSSource) Fetch(ctx context.Context) ([]domain.NewsItem, error) {
	feed, err := r.parser.ParseURLWithContext(r.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", r.feedURL, err)
	}

	items := make([]domain.NewsItem, 0, r.maxItems)
	for _, entry := range feed.Items {
		if len(items) >= r.maxItems {
			break
		}
		if entry.Title == "" || entry.Link == "" {
			continue
		}

		postedAt := time.Now().UTC()
		if entry.PublishedParsed != nil {
			postedAt = entry.PublishedParsed.UTC()
		}

		id := entry.GUID
		if id == "" {
			id = entry.Link
		}

		items = append(items, domain.NewsItem{
			ID:       id,
			Title:    entry.Title,
			URL:      entry.Link,
			Source:   r.name,
			PostedAt: postedAt,
		})
	}

	return items, nil
}
