package aggregate

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"ArticlePress/internal/domain"
	"ArticlePress/internal/ports"
	"ArticlePress/internal/scoring"
)

// Limits bounds the aggregated list.
type Limits struct {
	MaxNewsItems      int
	MinRelevanceScore int
}

// Aggregator fetches candidate stories from every configured source, scores
// them against the interest profile and produces a ranked shortlist.
type Aggregator struct {
	sources []ports.NewsSource
	profile domain.InterestProfile
	limits  Limits
	logger  *slog.Logger
}

// New wires sources with the scoring profile and list limits.
func New(sources []ports.NewsSource, profile domain.InterestProfile, limits Limits, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		sources: sources,
		profile: profile,
		limits:  limits,
		logger:  logger,
	}
}

// Aggregate fetches all sources concurrently, merges their items, scores and
// filters them, and returns the shortlist sorted by relevance then points.
// A failing source yields zero items and never aborts the other sources.
func (a *Aggregator) Aggregate(ctx context.Context) []domain.ScoredNewsItem {
	var (
		mu     sync.Mutex
		merged []domain.NewsItem
		wg     sync.WaitGroup
	)

	for _, source := range a.sources {
		wg.Add(1)
		go func(src ports.NewsSource) {
			defer wg.Done()

			items, err := src.Fetch(ctx)
			if err != nil {
				a.warn("source fetch failed", "source", src.Name(), "error", err)
				return
			}

			a.debug("source fetched", "source", src.Name(), "count", len(items))
			mu.Lock()
			merged = append(merged, items...)
			mu.Unlock()
		}(source)
	}
	wg.Wait()

	scored := make([]domain.ScoredNewsItem, 0, len(merged))
	for _, item := range merged {
		relevance := scoring.Score(item, a.profile)
		if relevance < a.limits.MinRelevanceScore {
			continue
		}
		scored = append(scored, domain.ScoredNewsItem{NewsItem: item, Relevance: relevance})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Relevance != scored[j].Relevance {
			return scored[i].Relevance > scored[j].Relevance
		}
		return scored[i].Points > scored[j].Points
	})

	if a.limits.MaxNewsItems > 0 && len(scored) > a.limits.MaxNewsItems {
		scored = scored[:a.limits.MaxNewsItems]
	}

	a.debug("aggregation done", "fetched", len(merged), "kept", len(scored))
	return scored
}

func (a *Aggregator) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}

func (a *Aggregator) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
