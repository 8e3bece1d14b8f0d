package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"ArticlePress/internal/domain"
	"ArticlePress/internal/ports"
)

// ErrExhausted reports that every model candidate failed to produce an
// acceptable article.
var ErrExhausted = errors.New("all model candidates exhausted")

// Lines of the thinking field are spliced in only when they contain the
// target script. Replaceable via WithScriptPattern; this is a content
// heuristic, not a protocol guarantee.
var defaultScriptPattern = regexp.MustCompile(`[\x{4e00}-\x{9fa5}]`)

// Generator drives the model fallback chain against the generation backend.
type Generator struct {
	backend  ports.TextGenerator
	prompts  *PromptBuilder
	models   []string
	minRunes int
	timeout  time.Duration
	script   *regexp.Regexp
	logger   *slog.Logger
}

// New builds a generator over an ordered model candidate list.
func New(backend ports.TextGenerator, prompts *PromptBuilder, models []string, minRunes int, timeout time.Duration, logger *slog.Logger) *Generator {
	if minRunes <= 0 {
		minRunes = 500
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Generator{
		backend:  backend,
		prompts:  prompts,
		models:   models,
		minRunes: minRunes,
		timeout:  timeout,
		script:   defaultScriptPattern,
		logger:   logger,
	}
}

// WithScriptPattern replaces the secondary-extraction line filter.
func (g *Generator) WithScriptPattern(pattern *regexp.Regexp) *Generator {
	if pattern != nil {
		g.script = pattern
	}
	return g
}

// Generate tries each model candidate in order with a bounded timeout and
// returns the first accepted draft. A candidate that fails transport, parse
// or the minimum-length acceptance check is logged and skipped, never
// retried. Exhausting the chain returns ErrExhausted.
func (g *Generator) Generate(ctx context.Context, item domain.ScoredNewsItem, excerpt string) (domain.Draft, error) {
	if len(g.models) == 0 {
		return domain.Draft{}, fmt.Errorf("no model candidates configured: %w", ErrExhausted)
	}

	prompt := g.prompts.Build(item, excerpt)

	for _, model := range g.models {
		text, err := g.tryModel(ctx, model, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return domain.Draft{}, ctx.Err()
			}
			g.warn("model candidate failed", "model", model, "error", err)
			continue
		}

		g.info("draft accepted", "model", model, "runes", utf8.RuneCountInString(text))
		return domain.Draft{Text: text, Item: item, Model: model}, nil
	}

	return domain.Draft{}, ErrExhausted
}

func (g *Generator) tryModel(ctx context.Context, model, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.backend.Generate(callCtx, model, prompt)
	if err != nil {
		return "", err
	}

	text := g.extract(resp)
	if utf8.RuneCountInString(text) <= g.minRunes {
		return "", fmt.Errorf("generated text too short (%d runes)", utf8.RuneCountInString(text))
	}
	return text, nil
}

// extract prefers the primary response field. When that is absent or under
// the minimum length, target-script lines of the thinking field are spliced
// together and used only if the splice is longer than the primary output.
func (g *Generator) extract(resp ports.GenerationResponse) string {
	content := resp.Response

	if utf8.RuneCountInString(content) < g.minRunes && resp.Thinking != "" {
		var kept []string
		for _, line := range strings.Split(resp.Thinking, "\n") {
			if g.script.MatchString(line) {
				kept = append(kept, line)
			}
		}
		spliced := strings.Join(kept, "\n")
		if utf8.RuneCountInString(spliced) > utf8.RuneCountInString(content) {
			content = spliced
		}
	}

	return content
}

func (g *Generator) info(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Info(msg, args...)
	}
}

func (g *Generator) warn(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Warn(msg, args...)
	}
}
