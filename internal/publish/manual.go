package publish

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"ArticlePress/internal/domain"
	"ArticlePress/internal/store"
)

// ManualAdapter is the degenerate Substack adapter used when browser
// automation is unavailable or undesired: it writes the body to a side file,
// renders an HTML copy, and logs the operator steps. It conforms to the same
// publish contract; success means the material is ready for manual posting.
type ManualAdapter struct {
	composerURL  string
	dashboardURL string
	logger       *slog.Logger
}

var _ Publisher = (*ManualAdapter)(nil)

// NewManualAdapter wires the publication endpoints referenced in the
// operator instructions.
func NewManualAdapter(composerURL, dashboardURL string, logger *slog.Logger) *ManualAdapter {
	return &ManualAdapter{composerURL: composerURL, dashboardURL: dashboardURL, logger: logger}
}

// Name identifies the platform inside the registry.
func (m *ManualAdapter) Name() string {
	return "substack-manual"
}

// Publish prepares the side files and prints the manual posting steps.
func (m *ManualAdapter) Publish(ctx context.Context, documentPath string, opts Options) (domain.PublishResult, error) {
	header, body, err := store.ReadDocument(documentPath)
	if err != nil {
		return domain.PublishResult{}, err
	}
	title := store.Title(header, body)

	sidePath := sideFilePath(documentPath, "_substack_content.md")
	if err := os.WriteFile(sidePath, []byte(body+"\n"), 0o644); err != nil {
		return domain.PublishResult{}, fmt.Errorf("write side file: %w", err)
	}

	htmlPath := sideFilePath(documentPath, "_substack.html")
	if err := os.WriteFile(htmlPath, []byte(markdownToHTML(body)), 0o644); err != nil {
		return domain.PublishResult{}, fmt.Errorf("write html side file: %w", err)
	}

	m.info("manual publish prepared",
		"title", title,
		"content", sidePath,
		"html", htmlPath,
		"composer", m.composerURL,
	)
	fmt.Printf("\n手動發佈步驟:\n")
	fmt.Printf("1. 開啟: %s\n", m.composerURL)
	fmt.Printf("2. 輸入標題: %s\n", title)
	fmt.Printf("3. 複製並貼上文章內容 (已儲存到 %s)\n", sidePath)
	fmt.Printf("4. 檢查格式後點擊 Publish 或 Save as draft\n")
	fmt.Printf("發佈後可在 %s 查看\n\n", m.dashboardURL)

	return domain.PublishResult{Success: true, URL: m.dashboardURL, Method: "manual"}, nil
}

func sideFilePath(documentPath, suffix string) string {
	if strings.HasSuffix(documentPath, ".md") {
		return strings.TrimSuffix(documentPath, ".md") + suffix
	}
	return documentPath + suffix
}

var (
	h3Expr     = regexp.MustCompile(`(?m)^### (.+)$`)
	h2Expr     = regexp.MustCompile(`(?m)^## (.+)$`)
	h1Expr     = regexp.MustCompile(`(?m)^# (.+)$`)
	boldExpr   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicExpr = regexp.MustCompile(`\*(.+?)\*`)
	linkExpr   = regexp.MustCompile(`\[(.+?)\]\((.+?)\)`)
	quoteExpr  = regexp.MustCompile(`(?m)^> (.+)$`)
	codeExpr   = regexp.MustCompile("`(.+?)`")
)

// markdownToHTML performs the small Markdown subset conversion the composer
// accepts when pasting HTML.
func markdownToHTML(markdown string) string {
	html := markdown
	html = h3Expr.ReplaceAllString(html, "<h3>$1</h3>")
	html = h2Expr.ReplaceAllString(html, "<h2>$1</h2>")
	html = h1Expr.ReplaceAllString(html, "<h1>$1</h1>")
	html = boldExpr.ReplaceAllString(html, "<strong>$1</strong>")
	html = italicExpr.ReplaceAllString(html, "<em>$1</em>")
	html = linkExpr.ReplaceAllString(html, `<a href="$2">$1</a>`)
	html = quoteExpr.ReplaceAllString(html, "<blockquote>$1</blockquote>")
	html = codeExpr.ReplaceAllString(html, "<code>$1</code>")

	paragraphs := strings.Split(html, "\n\n")
	for i, p := range paragraphs {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" && !strings.HasPrefix(trimmed, "<") {
			paragraphs[i] = "<p>" + p + "</p>"
		}
	}
	return strings.Join(paragraphs, "\n")
}

func (m *ManualAdapter) info(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Info(msg, args...)
	}
}
