package publish

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"ArticlePress/internal/store"
)

type stubSecrets struct {
	values map[string]string
}

func (s *stubSecrets) Get(service string) (string, error) {
	if value, ok := s.values[service]; ok {
		return value, nil
	}
	return "", errors.New("not found")
}

func writeArticle(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "2026-08-30_test.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write article: %v", err)
	}
	return path
}

func mediumServer(t *testing.T, onPost func(payload map[string]any)) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			json.NewEncoder(w).Encode(map[string]any{
				"errors": []map[string]any{{"message": "Token was invalid.", "code": 6003}},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"id": "user-1", "username": "tester"},
		})
	})
	mux.HandleFunc("/users/user-1/posts", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode post payload: %v", err)
		}
		if onPost != nil {
			onPost(payload)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"id":            "post-1",
				"url":           "https://medium.com/@tester/post-1",
				"publishStatus": payload["publishStatus"],
			},
		})
	})
	return httptest.NewServer(mux)
}

func TestMediumPublishCreatesDraft(t *testing.T) {
	var got map[string]any
	server := mediumServer(t, func(payload map[string]any) { got = payload })
	defer server.Close()

	path := writeArticle(t, "---\ntitle: AI 新聞\n---\n\n今天談 LLM 的進展。\n")

	adapter := NewMediumAdapter(server.URL, []string{"LLM", "Kubernetes"}, nil, nil)
	result, err := adapter.Publish(context.Background(), path, Options{Token: "good-token"})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !result.Success || result.Method != "api" {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.URL != "https://medium.com/@tester/post-1" {
		t.Fatalf("unexpected url %q", result.URL)
	}

	if got["title"] != "AI 新聞" {
		t.Errorf("title = %v", got["title"])
	}
	if got["publishStatus"] != "draft" {
		t.Errorf("publishStatus = %v, want draft by default", got["publishStatus"])
	}
	if got["contentFormat"] != "markdown" {
		t.Errorf("contentFormat = %v", got["contentFormat"])
	}
	if got["notifyFollowers"] != true {
		t.Errorf("notifyFollowers = %v, want true by default", got["notifyFollowers"])
	}
}

func TestMediumPublishPublicNoNotify(t *testing.T) {
	var got map[string]any
	server := mediumServer(t, func(payload map[string]any) { got = payload })
	defer server.Close()

	path := writeArticle(t, "# 標題\n\n內文。\n")

	adapter := NewMediumAdapter(server.URL, nil, nil, nil)
	if _, err := adapter.Publish(context.Background(), path, Options{
		Token: "good-token", Public: true, NoNotify: true,
	}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got["publishStatus"] != "public" {
		t.Errorf("publishStatus = %v", got["publishStatus"])
	}
	if got["notifyFollowers"] != false {
		t.Errorf("notifyFollowers = %v", got["notifyFollowers"])
	}
}

func TestMediumPublishBadToken(t *testing.T) {
	server := mediumServer(t, nil)
	defer server.Close()

	path := writeArticle(t, "# 標題\n\n內文。\n")

	adapter := NewMediumAdapter(server.URL, nil, nil, nil)
	_, err := adapter.Publish(context.Background(), path, Options{Token: "stale"})
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
}

func TestMediumResolveTokenChain(t *testing.T) {
	adapter := NewMediumAdapter("https://api.medium.com/v1", nil, &stubSecrets{
		values: map[string]string{mediumKeyringService: "from-keyring"},
	}, nil)

	if token, err := adapter.ResolveToken(Options{Token: "explicit"}); err != nil || token != "explicit" {
		t.Fatalf("explicit token: %q, %v", token, err)
	}

	t.Setenv(mediumTokenEnv, "from-env")
	if token, err := adapter.ResolveToken(Options{}); err != nil || token != "from-env" {
		t.Fatalf("env token: %q, %v", token, err)
	}

	t.Setenv(mediumTokenEnv, "")
	if token, err := adapter.ResolveToken(Options{}); err != nil || token != "from-keyring" {
		t.Fatalf("keyring token: %q, %v", token, err)
	}
}

func TestMediumResolveTokenMissing(t *testing.T) {
	t.Setenv(mediumTokenEnv, "")

	adapter := NewMediumAdapter("https://api.medium.com/v1", nil, &stubSecrets{}, nil)
	if _, err := adapter.ResolveToken(Options{}); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestExtractTags(t *testing.T) {
	t.Parallel()

	header := store.NewHeader()
	header.Set("tags", "[AI, 開源]")

	body := "討論 LLM 與 Kubernetes 還有 Rust 以及 WebAssembly 的文章"
	keywords := []string{"LLM", "Kubernetes", "Rust", "WebAssembly", "AI"}

	tags := extractTags(header, body, keywords)
	if len(tags) != maxMediumTags {
		t.Fatalf("got %d tags, want %d: %v", len(tags), maxMediumTags, tags)
	}
	if tags[0] != "AI" || tags[1] != "開源" {
		t.Fatalf("declared tags not first: %v", tags)
	}
	for _, tag := range tags[2:] {
		if tag == "AI" {
			t.Fatalf("duplicate tag survived: %v", tags)
		}
	}
}
