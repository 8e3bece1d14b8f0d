package app

import (
	"log/slog"

	"ArticlePress/internal/aggregate"
	"ArticlePress/internal/config"
	"ArticlePress/internal/generate"
	"ArticlePress/internal/infrastructure/content"
	"ArticlePress/internal/infrastructure/llm"
	"ArticlePress/internal/infrastructure/scheduler"
	"ArticlePress/internal/infrastructure/secret"
	"ArticlePress/internal/infrastructure/source"
	"ArticlePress/internal/logging"
	"ArticlePress/internal/ports"
	"ArticlePress/internal/publish"
	"ArticlePress/internal/store"
	"ArticlePress/internal/usecase"
)

// Application wires configuration to the use cases and adapters.
type Application struct {
	Cfg       config.Config
	Logger    *slog.Logger
	Pipeline  *usecase.Pipeline
	Scheduler *usecase.Scheduler
	Medium    *publish.MediumAdapter
}

// New builds a runnable application instance from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	sources := make([]ports.NewsSource, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		switch sc.Type {
		case "hn":
			sources = append(sources, source.NewHackerNewsSource(
				sc.Name, sc.URL, sc.MaxItems, nil, baseLogger.With("component", "source.hn")))
		case "rss":
			sources = append(sources, source.NewRSSSource(sc.Name, sc.URL, sc.MaxItems))
		case "web":
			sources = append(sources, source.NewWebSource(sc.Name, sc.URL, sc.Selector, sc.MaxItems, nil))
		default:
			baseLogger.Warn("unknown source type skipped", "name", sc.Name, "type", sc.Type)
		}
	}

	aggregator := aggregate.New(
		sources,
		cfg.Interests.Profile(),
		aggregate.Limits{
			MaxNewsItems:      cfg.Fetch.MaxNewsItems,
			MinRelevanceScore: cfg.Fetch.MinRelevanceScore,
		},
		baseLogger.With("component", "aggregate"),
	)

	persona, err := generate.LoadPersona(cfg.Article.PersonaPath)
	if err != nil {
		baseLogger.Warn("persona unavailable, generating without style material", "error", err)
	}
	prompts := generate.NewPromptBuilder(generate.Style{
		Author:          cfg.Article.Author,
		OpeningHooks:    cfg.Article.OpeningHooks,
		EmphasisPhrases: cfg.Article.EmphasisPhrases,
		ClosingPhrases:  cfg.Article.ClosingPhrases,
	}, persona)

	generator := generate.New(
		llm.NewOllamaClient(cfg.AI),
		prompts,
		cfg.AI.Models,
		cfg.AI.MinRunes,
		cfg.AI.Timeout(),
		baseLogger.With("component", "generate"),
	)

	docs := store.New(cfg.Paths.Output, cfg.Article.Author, baseLogger.With("component", "store"))

	medium := publish.NewMediumAdapter(
		cfg.Platforms.Medium.BaseURL,
		cfg.Platforms.Medium.TagKeywords,
		secret.NewKeyringStore(),
		baseLogger.With("component", "publish.medium"),
	)

	sub := cfg.Platforms.Substack
	registry := publish.NewRegistry()
	registry.Register(medium)
	registry.Register(publish.NewSubstackAdapter(
		sub.ComposerURL(), sub.DashboardURL(), sub.LoginDeadline(), sub.ReviewWindow(),
		baseLogger.With("component", "publish.substack"),
	))
	registry.Register(publish.NewManualAdapter(
		sub.ComposerURL(), sub.DashboardURL(),
		baseLogger.With("component", "publish.manual"),
	))

	orchestrator := publish.NewOrchestrator(registry, docs, baseLogger.With("component", "publish"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Aggregator: aggregator,
		Fetcher:    content.NewReadabilityFetcher(nil),
		Generator:  generator,
		Store:      docs,
		Publisher:  orchestrator,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	runs := usecase.NewScheduler(
		scheduler.NewCronScheduler(cfg.Scheduler.CronExpression),
		pipeline,
		baseLogger.With("component", "scheduler"),
	)

	return &Application{
		Cfg:       cfg,
		Logger:    baseLogger,
		Pipeline:  pipeline,
		Scheduler: runs,
		Medium:    medium,
	}
}
