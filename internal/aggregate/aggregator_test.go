package aggregate

import (
	"context"
	"fmt"
	"testing"

	"ArticlePress/internal/domain"
	"ArticlePress/internal/ports"
)

type stubSource struct {
	name  string
	items []domain.NewsItem
	err   error
}

var _ ports.NewsSource = (*stubSource)(nil)

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context) ([]domain.NewsItem, error) {
	return s.items, s.err
}

func testProfile() domain.InterestProfile {
	return domain.InterestProfile{
		High:   []string{"AI"},
		Medium: []string{"blockchain"},
		Low:    []string{"automation"},
	}
}

func TestAggregateSortsByRelevanceThenPoints(t *testing.T) {
	t.Parallel()

	src := &stubSource{name: "stub", items: []domain.NewsItem{
		{ID: "1", Title: "automation note", Points: 10},          // relevance 1
		{ID: "2", Title: "AI launch", Points: 50},                // relevance 3
		{ID: "3", Title: "blockchain pilot", Points: 200},        // relevance 3 (2+1 hot)
		{ID: "4", Title: "AI blockchain automation", Points: 10}, // relevance 6
	}}

	agg := New([]ports.NewsSource{src}, testProfile(), Limits{MaxNewsItems: 10, MinRelevanceScore: 1}, nil)
	got := agg.Aggregate(context.Background())

	if len(got) != 4 {
		t.Fatalf("expected 4 items, got %d", len(got))
	}

	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		if cur.Relevance > prev.Relevance {
			t.Fatalf("relevance not non-increasing at %d: %d > %d", i, cur.Relevance, prev.Relevance)
		}
		if cur.Relevance == prev.Relevance && cur.Points > prev.Points {
			t.Fatalf("points not non-increasing within relevance tie at %d", i)
		}
	}

	if got[0].ID != "4" {
		t.Fatalf("expected highest-relevance item first, got %s", got[0].ID)
	}
}

func TestAggregateFiltersAndTruncates(t *testing.T) {
	t.Parallel()

	var items []domain.NewsItem
	for i := 0; i < 10; i++ {
		items = append(items, domain.NewsItem{ID: fmt.Sprintf("ai-%d", i), Title: "AI story", Points: i})
	}
	items = append(items, domain.NewsItem{ID: "dull", Title: "nothing relevant"})

	agg := New([]ports.NewsSource{&stubSource{name: "stub", items: items}},
		testProfile(), Limits{MaxNewsItems: 5, MinRelevanceScore: 3}, nil)
	got := agg.Aggregate(context.Background())

	if len(got) != 5 {
		t.Fatalf("expected truncation to 5 items, got %d", len(got))
	}
	for _, item := range got {
		if item.Relevance < 3 {
			t.Fatalf("item %s below min relevance: %d", item.ID, item.Relevance)
		}
		if item.ID == "dull" {
			t.Fatalf("irrelevant item survived filtering")
		}
	}
}

func TestAggregateIsolatesSourceFailures(t *testing.T) {
	t.Parallel()

	broken := &stubSource{name: "broken", err: fmt.Errorf("connection refused")}
	healthy := &stubSource{name: "healthy", items: []domain.NewsItem{
		{ID: "ok", Title: "AI works", Points: 0},
	}}

	agg := New([]ports.NewsSource{broken, healthy}, testProfile(), Limits{MaxNewsItems: 10, MinRelevanceScore: 1}, nil)
	got := agg.Aggregate(context.Background())

	if len(got) != 1 || got[0].ID != "ok" {
		t.Fatalf("expected healthy source to survive broken sibling, got %+v", got)
	}
}
