package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"ArticlePress/internal/domain"
)

const maxSlugRunes = 50

var slugExpr = regexp.MustCompile(`[^a-z0-9\x{4e00}-\x{9fa5}]+`)

// Field is one metadata update applied in order, so appended keys land in a
// deterministic position.
type Field struct {
	Key   string
	Value string
}

// Store persists generated articles as frontmatter documents. The header is
// the single source of publication truth; there is no separate database.
type Store struct {
	dir    string
	author string
	logger *slog.Logger
	now    func() time.Time
}

// New wires the output directory and the author recorded at creation.
func New(dir, author string, logger *slog.Logger) *Store {
	return &Store{dir: dir, author: author, logger: logger, now: time.Now}
}

// Save writes the draft with its creation header and returns the document
// path. The file name combines the current date with a slug of the title.
func (s *Store) Save(draft domain.Draft) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	item := draft.Item
	name := fmt.Sprintf("%s_%s.md", s.now().Format("2006-01-02"), slugify(item.Title))
	path := filepath.Join(s.dir, name)

	header := NewHeader()
	header.Set("title", item.Title)
	header.Set("source", item.Source)
	header.Set("source_url", item.URL)
	header.Set("generated_at", s.now().UTC().Format(time.RFC3339))
	header.Set("relevance", fmt.Sprintf("%d/10", item.Relevance))
	header.Set("author", s.author)

	content := renderDocument(header, strings.TrimSpace(draft.Text))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("article saved", "path", path, "model", draft.Model)
	}
	return path, nil
}

// UpdateMetadata rewrites the document header in place, overwriting existing
// keys and appending new ones. Applying identical updates twice yields a
// byte-identical file.
func (s *Store) UpdateMetadata(path string, updates []Field) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	header, body, err := splitDocument(string(raw))
	if err != nil {
		return fmt.Errorf("document %s: %w", path, err)
	}

	for _, field := range updates {
		header.Set(field.Key, field.Value)
	}

	if err := os.WriteFile(path, []byte(renderDocument(header, body)), 0o644); err != nil {
		return fmt.Errorf("rewrite document: %w", err)
	}
	return nil
}

// ReadDocument returns the parsed header and body of a stored document.
func ReadDocument(path string) (*Header, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read document: %w", err)
	}
	header, body, err := splitDocument(string(raw))
	if err != nil {
		return nil, "", fmt.Errorf("document %s: %w", path, err)
	}
	return header, body, nil
}

// Title resolves the document title: the header value when present,
// otherwise the first body line stripped of its Markdown heading marker.
func Title(header *Header, body string) string {
	if title, ok := header.Get("title"); ok && title != "" {
		return title
	}
	first, _, _ := strings.Cut(body, "\n")
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(first), "#"))
}

func slugify(title string) string {
	slug := slugExpr.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.Trim(slug, "-")

	runes := []rune(slug)
	if len(runes) > maxSlugRunes {
		slug = string(runes[:maxSlugRunes])
	}
	if slug == "" {
		slug = "article"
	}
	return slug
}
