package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ArticlePress/internal/domain"
)

// Adapter error taxonomy. Each is fatal to one platform's attempt only; the
// orchestrator captures it in that platform's result.
var (
	// ErrMissingCredential means no bearer credential resolved from any
	// configured source.
	ErrMissingCredential = errors.New("no credential resolved")
	// ErrAuth means the platform rejected the credential.
	ErrAuth = errors.New("platform authentication failed")
	// ErrAuthRequired means an interactive login is needed but no human can
	// intervene (headless session).
	ErrAuthRequired = errors.New("authentication required")
)

// APIError carries the error payload returned by a platform API.
type APIError struct {
	Platform string
	Payload  []APIErrorItem
}

// APIErrorItem is a single entry of a platform error payload.
type APIErrorItem struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (e *APIError) Error() string {
	msgs := make([]string, 0, len(e.Payload))
	for _, item := range e.Payload {
		msgs = append(msgs, fmt.Sprintf("%s (code %d)", item.Message, item.Code))
	}
	return fmt.Sprintf("%s api error: %s", e.Platform, strings.Join(msgs, "; "))
}

// Options is the per-platform configuration bundle passed to an adapter.
// Recognized keys are documented per adapter; unknown fields are ignored.
type Options struct {
	// Medium: explicit bearer token, highest-priority credential source.
	Token string
	// Medium: publish publicly instead of the default draft status.
	Public bool
	// Medium: suppress follower notification.
	NoNotify bool

	// Substack: run the browser without a visible window. Interactive login
	// is impossible in this mode.
	Headless bool
	// Substack: skip the human observation window after staging content.
	AutoPublish bool
}

// Publisher is the uniform publish contract every platform adapter
// implements, regardless of the underlying mechanism.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, documentPath string, opts Options) (domain.PublishResult, error)
}

// Registry maps platform names to their adapters.
type Registry struct {
	adapters map[string]Publisher
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: map[string]Publisher{}}
}

// Register adds or replaces a platform adapter.
func (r *Registry) Register(p Publisher) {
	if r.adapters == nil {
		r.adapters = map[string]Publisher{}
	}
	r.adapters[p.Name()] = p
}

// Resolve returns the adapter for a platform or an error if it is absent.
func (r *Registry) Resolve(name string) (Publisher, error) {
	if p, ok := r.adapters[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("platform %s is not registered", name)
}

// Platforms lists the registered platform names.
func (r *Registry) Platforms() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	return names
}
