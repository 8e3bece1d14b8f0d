package ports

import (
	"context"
	"time"

	"ArticlePress/internal/domain"
)

// NewsSource pulls candidate stories from one upstream provider.
type NewsSource interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.NewsItem, error)
}

// ContentFetcher retrieves a readable plain-text excerpt of a story page.
type ContentFetcher interface {
	Excerpt(ctx context.Context, pageURL string) (string, error)
}

// GenerationResponse is the raw backend answer for one model invocation.
// Thinking carries the optional reasoning trace some models emit.
type GenerationResponse struct {
	Response string
	Thinking string
}

// TextGenerator invokes the generation backend with a single model.
type TextGenerator interface {
	Generate(ctx context.Context, model, prompt string) (GenerationResponse, error)
}

// SecretStore resolves credentials from the operating system secret store.
type SecretStore interface {
	Get(service string) (string, error)
}

// Scheduler controls when unattended pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
