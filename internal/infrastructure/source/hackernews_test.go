package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func hnTestServer(t *testing.T, ids []int64, stories map[int64]map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/topstories.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ids)
	})
	mux.HandleFunc("/item/", func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/item/"), ".json")
		var id int64
		fmt.Sscanf(raw, "%d", &id)
		story, ok := stories[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(story)
	})
	return httptest.NewServer(mux)
}

func TestHackerNewsFetch(t *testing.T) {
	t.Parallel()

	server := hnTestServer(t,
		[]int64{1, 2, 3, 4},
		map[int64]map[string]any{
			1: {"id": 1, "title": "Go 1.26 released", "url": "https://go.dev/blog", "score": 250, "descendants": 80, "time": 1767000000},
			2: {"id": 2, "title": "Ask HN: anyone?", "score": 10}, // no url, skipped
			3: {"id": 3, "url": "https://example.com"},            // no title, skipped
			4: {"id": 4, "title": "LLM on a laptop", "url": "https://example.com/llm", "score": 42, "time": 1767000100},
		})
	defer server.Close()

	src := NewHackerNewsSource("Hacker News", server.URL, 10, server.Client(), nil)
	items, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %+v", len(items), items)
	}
	first := items[0]
	if first.ID != "hn_1" {
		t.Errorf("ID = %q, want hn_1", first.ID)
	}
	if first.Points != 250 || first.Comments != 80 {
		t.Errorf("popularity = %d/%d", first.Points, first.Comments)
	}
	if first.Source != "Hacker News" {
		t.Errorf("Source = %q", first.Source)
	}
	if items[1].ID != "hn_4" {
		t.Errorf("second item = %q, want hn_4", items[1].ID)
	}
}

func TestHackerNewsFetchHonorsMaxItems(t *testing.T) {
	t.Parallel()

	stories := map[int64]map[string]any{}
	ids := make([]int64, 0, 5)
	for i := int64(1); i <= 5; i++ {
		ids = append(ids, i)
		stories[i] = map[string]any{
			"id": i, "title": fmt.Sprintf("Story %d", i),
			"url": fmt.Sprintf("https://example.com/%d", i),
		}
	}
	server := hnTestServer(t, ids, stories)
	defer server.Close()

	src := NewHackerNewsSource("Hacker News", server.URL, 2, server.Client(), nil)
	items, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
}

func TestHackerNewsFetchSkipsBrokenItem(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/topstories.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]int64{1, 2, 3})
	})
	mux.HandleFunc("/item/", func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/item/"), ".json")
		var id int64
		fmt.Sscanf(raw, "%d", &id)
		if id == 2 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id": id, "title": fmt.Sprintf("Story %d", id),
			"url": fmt.Sprintf("https://example.com/%d", id),
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	src := NewHackerNewsSource("Hacker News", server.URL, 10, server.Client(), nil)
	items, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch must survive one broken item: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want the 2 healthy stories: %+v", len(items), items)
	}
	if items[0].ID != "hn_1" || items[1].ID != "hn_3" {
		t.Fatalf("wrong survivors: %+v", items)
	}
}

func TestHackerNewsFetchUpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	src := NewHackerNewsSource("Hacker News", server.URL, 5, server.Client(), nil)
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error on upstream failure")
	}
}
