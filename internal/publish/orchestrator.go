package publish

import (
	"context"
	"log/slog"
	"time"

	"ArticlePress/internal/domain"
	"ArticlePress/internal/store"
)

// Orchestrator dispatches one document to a set of platforms and records the
// outcome of each success in the document header. Platforms are attempted in
// the order given; one platform's failure never aborts another's attempt.
type Orchestrator struct {
	registry *Registry
	docs     *store.Store
	logger   *slog.Logger
	now      func() time.Time
}

// NewOrchestrator wires the adapter registry with the document store used
// for publication-state write-back.
func NewOrchestrator(registry *Registry, docs *store.Store, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		docs:     docs,
		logger:   logger,
		now:      time.Now,
	}
}

// PublishAll attempts every requested platform and returns the per-platform
// results. Successful platforms get their published fields written into the
// document header afterwards, one serialized update per success.
func (o *Orchestrator) PublishAll(ctx context.Context, documentPath string, platforms []string, opts map[string]Options) map[string]domain.PublishResult {
	results := make(map[string]domain.PublishResult, len(platforms))

	for _, name := range platforms {
		adapter, err := o.registry.Resolve(name)
		if err != nil {
			o.warn("unknown platform", "platform", name, "error", err)
			results[name] = domain.PublishResult{Success: false, Err: err.Error()}
			continue
		}

		o.info("publishing", "platform", name, "document", documentPath)
		result, err := adapter.Publish(ctx, documentPath, opts[name])
		if err != nil {
			o.warn("publish failed", "platform", name, "error", err)
			results[name] = domain.PublishResult{Success: false, Err: err.Error()}
			continue
		}

		results[name] = result
	}

	for _, name := range platforms {
		result := results[name]
		if !result.Success {
			continue
		}

		updates := []store.Field{
			{Key: "status", Value: "published"},
			{Key: "published_url", Value: result.URL},
			{Key: "platform", Value: name},
			{Key: "published_at", Value: o.now().UTC().Format(time.RFC3339)},
		}
		if err := o.docs.UpdateMetadata(documentPath, updates); err != nil {
			o.warn("metadata update failed", "platform", name, "error", err)
		}
	}

	return results
}

// AllSucceeded reports whether every requested platform succeeded; the CLI
// turns this into the process exit code.
func AllSucceeded(results map[string]domain.PublishResult) bool {
	for _, result := range results {
		if !result.Success {
			return false
		}
	}
	return len(results) > 0
}

func (o *Orchestrator) info(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Info(msg, args...)
	}
}

func (o *Orchestrator) warn(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Warn(msg, args...)
	}
}
