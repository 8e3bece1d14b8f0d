package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"ArticlePress/internal/domain"
	"ArticlePress/internal/ports"
	"ArticlePress/internal/store"
)

const (
	mediumTokenEnv       = "MEDIUM_TOKEN"
	mediumKeyringService = "medium-integration-token"
	maxMediumTags        = 5
)

// MediumUser is the identity payload of the /me endpoint.
type MediumUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	URL      string `json:"url"`
}

// MediumAdapter publishes through the Medium REST API with bearer auth.
//
// Recognized options: Token (explicit credential), Public (publish publicly
// instead of draft), NoNotify (skip follower notification).
type MediumAdapter struct {
	baseURL  string
	keywords []string
	secrets  ports.SecretStore
	client   *http.Client
	logger   *slog.Logger
}

var _ Publisher = (*MediumAdapter)(nil)

// NewMediumAdapter wires the API base URL, the body-scan tag keywords and
// the OS secret store used as the last credential source.
func NewMediumAdapter(baseURL string, keywords []string, secrets ports.SecretStore, logger *slog.Logger) *MediumAdapter {
	return &MediumAdapter{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		keywords: keywords,
		secrets:  secrets,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

// Name identifies the platform inside the registry.
func (m *MediumAdapter) Name() string {
	return "medium"
}

// Publish resolves a credential, fetches the account identity, derives tags
// and publish status, and creates the post.
func (m *MediumAdapter) Publish(ctx context.Context, documentPath string, opts Options) (domain.PublishResult, error) {
	token, err := m.resolveToken(opts)
	if err != nil {
		return domain.PublishResult{}, err
	}

	header, body, err := store.ReadDocument(documentPath)
	if err != nil {
		return domain.PublishResult{}, err
	}

	user, err := m.Identity(ctx, token)
	if err != nil {
		return domain.PublishResult{}, err
	}

	status := "draft"
	if opts.Public {
		status = "public"
	}

	payload := map[string]any{
		"title":           store.Title(header, body),
		"contentFormat":   "markdown",
		"content":         body,
		"tags":            extractTags(header, body, m.keywords),
		"publishStatus":   status,
		"notifyFollowers": !opts.NoNotify,
	}

	var created struct {
		Data struct {
			ID            string `json:"id"`
			URL           string `json:"url"`
			PublishStatus string `json:"publishStatus"`
		} `json:"data"`
		Errors []APIErrorItem `json:"errors"`
	}
	endpoint := fmt.Sprintf("%s/users/%s/posts", m.baseURL, user.ID)
	if err := m.post(ctx, endpoint, token, payload, &created); err != nil {
		return domain.PublishResult{}, err
	}
	if len(created.Errors) > 0 {
		return domain.PublishResult{}, &APIError{Platform: "medium", Payload: created.Errors}
	}

	if m.logger != nil {
		m.logger.Info("medium post created",
			"url", created.Data.URL, "status", created.Data.PublishStatus)
	}

	return domain.PublishResult{Success: true, URL: created.Data.URL, Method: "api"}, nil
}

// Identity fetches the account behind the token. An error payload means the
// token is invalid or expired.
func (m *MediumAdapter) Identity(ctx context.Context, token string) (MediumUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/me", nil)
	if err != nil {
		return MediumUser{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := m.client.Do(req)
	if err != nil {
		return MediumUser{}, fmt.Errorf("identity call: %w", err)
	}
	defer resp.Body.Close()

	var identity struct {
		Data   MediumUser     `json:"data"`
		Errors []APIErrorItem `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return MediumUser{}, fmt.Errorf("decode identity: %w", err)
	}
	if len(identity.Errors) > 0 {
		return MediumUser{}, fmt.Errorf("%w: %s", ErrAuth,
			(&APIError{Platform: "medium", Payload: identity.Errors}).Error())
	}

	return identity.Data, nil
}

// ResolveToken exposes the credential chain for the token-check command.
func (m *MediumAdapter) ResolveToken(opts Options) (string, error) {
	return m.resolveToken(opts)
}

// CheckToken resolves a credential and echoes the account it belongs to.
func (m *MediumAdapter) CheckToken(ctx context.Context, opts Options) (MediumUser, error) {
	token, err := m.resolveToken(opts)
	if err != nil {
		return MediumUser{}, err
	}
	return m.Identity(ctx, token)
}

// resolveToken follows the credential order: explicit option, environment
// variable, OS secret store.
func (m *MediumAdapter) resolveToken(opts Options) (string, error) {
	if opts.Token != "" {
		return opts.Token, nil
	}
	if token := os.Getenv(mediumTokenEnv); token != "" {
		return token, nil
	}
	if m.secrets != nil {
		if token, err := m.secrets.Get(mediumKeyringService); err == nil && token != "" {
			return token, nil
		}
	}
	return "", fmt.Errorf("medium: %w (set %s or store the %s secret)",
		ErrMissingCredential, mediumTokenEnv, mediumKeyringService)
}

func (m *MediumAdapter) post(ctx context.Context, endpoint, token string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("post request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("medium returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}

// extractTags keeps frontmatter-declared tags first, then scans the body for
// the configured keywords; the first five unique tags survive.
func extractTags(header *store.Header, body string, keywords []string) []string {
	tags := make([]string, 0, maxMediumTags)
	seen := map[string]bool{}

	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] || len(tags) >= maxMediumTags {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	if declared, ok := header.Get("tags"); ok {
		declared = strings.Trim(declared, "[]")
		for _, tag := range strings.Split(declared, ",") {
			add(tag)
		}
	}

	for _, keyword := range keywords {
		if strings.Contains(body, keyword) {
			add(keyword)
		}
	}

	return tags
}
