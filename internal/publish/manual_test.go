package publish

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManualPublishWritesSideFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "2026-08-30_文章.md")
	content := "---\ntitle: 手動測試\n---\n\n# 手動測試\n\n第一段。\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write article: %v", err)
	}

	adapter := NewManualAdapter(
		"https://pub.substack.com/publish/post/new",
		"https://pub.substack.com/publish",
		nil,
	)
	result, err := adapter.Publish(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !result.Success || result.Method != "manual" {
		t.Fatalf("unexpected result %+v", result)
	}

	side, err := os.ReadFile(filepath.Join(dir, "2026-08-30_文章_substack_content.md"))
	if err != nil {
		t.Fatalf("side file missing: %v", err)
	}
	if strings.Contains(string(side), "title:") {
		t.Fatalf("side file kept the metadata header: %q", side)
	}
	if !strings.Contains(string(side), "第一段。") {
		t.Fatalf("side file lost the body: %q", side)
	}

	html, err := os.ReadFile(filepath.Join(dir, "2026-08-30_文章_substack.html"))
	if err != nil {
		t.Fatalf("html side file missing: %v", err)
	}
	if !strings.Contains(string(html), "<h1>手動測試</h1>") {
		t.Fatalf("heading not converted: %q", html)
	}
}

func TestMarkdownToHTML(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"heading", "## 段落標題", "<h2>段落標題</h2>"},
		{"bold", "這是**重點**文字", "<strong>重點</strong>"},
		{"link", "[來源](https://example.com)", `<a href="https://example.com">來源</a>`},
		{"quote", "> 引述內容", "<blockquote>引述內容</blockquote>"},
		{"code", "使用 `go test` 指令", "<code>go test</code>"},
		{"paragraph", "純文字段落", "<p>純文字段落</p>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := markdownToHTML(tc.in)
			if !strings.Contains(got, tc.want) {
				t.Fatalf("markdownToHTML(%q) = %q, want substring %q", tc.in, got, tc.want)
			}
		})
	}
}
