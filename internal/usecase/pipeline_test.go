package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ArticlePress/internal/aggregate"
	"ArticlePress/internal/domain"
	"ArticlePress/internal/generate"
	"ArticlePress/internal/ports"
	"ArticlePress/internal/store"
)

type stubSource struct {
	items []domain.NewsItem
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Fetch(ctx context.Context) ([]domain.NewsItem, error) {
	return s.items, nil
}

type stubBackend struct {
	prompts []string
}

func (b *stubBackend) Generate(ctx context.Context, model, prompt string) (ports.GenerationResponse, error) {
	b.prompts = append(b.prompts, prompt)
	return ports.GenerationResponse{Response: strings.Repeat("好", 600)}, nil
}

type failingFetcher struct{}

func (failingFetcher) Excerpt(ctx context.Context, pageURL string) (string, error) {
	return "", errors.New("paywalled")
}

func testPipeline(t *testing.T, fetcher ports.ContentFetcher) (*Pipeline, *stubBackend) {
	t.Helper()

	source := &stubSource{items: []domain.NewsItem{
		{ID: "hn_1", Title: "AI assistant runs fully on-premise", URL: "https://example.com/a", Source: "stub", Points: 200},
		{ID: "hn_2", Title: "Gossip roundup", URL: "https://example.com/b", Source: "stub"},
	}}
	aggregator := aggregate.New(
		[]ports.NewsSource{source},
		domain.InterestProfile{High: []string{"AI"}, Exclude: []string{"gossip"}},
		aggregate.Limits{MaxNewsItems: 20, MinRelevanceScore: 3},
		nil,
	)

	backend := &stubBackend{}
	prompts := generate.NewPromptBuilder(generate.Style{Author: "tester"}, generate.Persona{})
	generator := generate.New(backend, prompts, []string{"m1"}, 500, time.Minute, nil)

	docs := store.New(t.TempDir(), "tester", nil)

	return NewPipeline(PipelineDeps{
		Aggregator: aggregator,
		Fetcher:    fetcher,
		Generator:  generator,
		Store:      docs,
	}), backend
}

func TestComposeTopFiltersAndSaves(t *testing.T) {
	t.Parallel()

	pipeline, _ := testPipeline(t, nil)

	path, err := pipeline.ComposeTop(context.Background())
	if err != nil {
		t.Fatalf("ComposeTop: %v", err)
	}
	if path == "" {
		t.Fatalf("expected a saved document")
	}

	header, body, err := store.ReadDocument(path)
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if title, _ := header.Get("title"); title != "AI assistant runs fully on-premise" {
		t.Fatalf("composed the wrong story: %q", title)
	}
	if !strings.Contains(body, "好") {
		t.Fatalf("body lost the generated text")
	}
}

func TestComposeProceedsWithoutExcerpt(t *testing.T) {
	t.Parallel()

	pipeline, backend := testPipeline(t, failingFetcher{})

	item := domain.ScoredNewsItem{
		NewsItem:  domain.NewsItem{ID: "hn_1", Title: "AI news", URL: "https://example.com/a", Source: "stub"},
		Relevance: 6,
	}
	if _, err := pipeline.Compose(context.Background(), item); err != nil {
		t.Fatalf("Compose must survive a fetch failure: %v", err)
	}
	if len(backend.prompts) != 1 {
		t.Fatalf("backend invoked %d times, want 1", len(backend.prompts))
	}
	if strings.Contains(backend.prompts[0], "新聞摘要") {
		t.Fatalf("prompt carries an excerpt section despite fetch failure")
	}
}

func TestComposeTopEmptyShortlist(t *testing.T) {
	t.Parallel()

	aggregator := aggregate.New(nil, domain.InterestProfile{}, aggregate.Limits{MinRelevanceScore: 5}, nil)
	pipeline := NewPipeline(PipelineDeps{Aggregator: aggregator})

	path, err := pipeline.ComposeTop(context.Background())
	if err != nil {
		t.Fatalf("ComposeTop: %v", err)
	}
	if path != "" {
		t.Fatalf("expected no document for an empty shortlist, got %q", path)
	}
}
