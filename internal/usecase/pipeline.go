package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"ArticlePress/internal/aggregate"
	"ArticlePress/internal/domain"
	"ArticlePress/internal/generate"
	"ArticlePress/internal/ports"
	"ArticlePress/internal/publish"
	"ArticlePress/internal/store"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Aggregator *aggregate.Aggregator
	Fetcher    ports.ContentFetcher
	Generator  *generate.Generator
	Store      *store.Store
	Publisher  *publish.Orchestrator
	Logger     *slog.Logger
}

// Pipeline implements the news-to-article workflow: aggregate a shortlist,
// compose an article for a chosen story, and hand finished documents to the
// publish orchestrator.
type Pipeline struct {
	aggregator *aggregate.Aggregator
	fetcher    ports.ContentFetcher
	generator  *generate.Generator
	store      *store.Store
	publisher  *publish.Orchestrator
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		aggregator: deps.Aggregator,
		fetcher:    deps.Fetcher,
		generator:  deps.Generator,
		store:      deps.Store,
		publisher:  deps.Publisher,
		logger:     deps.Logger,
	}
}

// Shortlist aggregates and ranks the current stories across all sources.
func (p *Pipeline) Shortlist(ctx context.Context) []domain.ScoredNewsItem {
	if p.aggregator == nil {
		return nil
	}
	return p.aggregator.Aggregate(ctx)
}

// Compose generates an article for one story and saves it, returning the
// document path. The page excerpt is best effort: when extraction fails the
// prompt falls back to the headline alone.
func (p *Pipeline) Compose(ctx context.Context, item domain.ScoredNewsItem) (string, error) {
	run := uuid.NewString()
	p.info("composing article", "run", run, "title", item.Title, "relevance", item.Relevance)

	var excerpt string
	if p.fetcher != nil {
		text, err := p.fetcher.Excerpt(ctx, item.URL)
		if err != nil {
			p.warn("excerpt unavailable, using headline only", "run", run, "url", item.URL, "error", err)
		} else {
			excerpt = text
		}
	}

	draft, err := p.generator.Generate(ctx, item, excerpt)
	if err != nil {
		return "", fmt.Errorf("generate article: %w", err)
	}

	path, err := p.store.Save(draft)
	if err != nil {
		return "", fmt.Errorf("save article: %w", err)
	}

	p.info("article saved", "run", run, "path", path, "model", draft.Model)
	return path, nil
}

// ComposeTop runs one unattended cycle: aggregate, pick the highest-ranked
// story, compose. An empty shortlist is not an error; it returns "".
func (p *Pipeline) ComposeTop(ctx context.Context) (string, error) {
	shortlist := p.Shortlist(ctx)
	if len(shortlist) == 0 {
		p.info("no stories above the relevance threshold")
		return "", nil
	}
	return p.Compose(ctx, shortlist[0])
}

// Publish dispatches a saved document to the requested platforms.
func (p *Pipeline) Publish(ctx context.Context, documentPath string, platforms []string, opts map[string]publish.Options) map[string]domain.PublishResult {
	return p.publisher.PublishAll(ctx, documentPath, platforms, opts)
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
