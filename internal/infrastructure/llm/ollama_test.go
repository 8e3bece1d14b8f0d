package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ArticlePress/internal/config"
)

func TestOllamaGenerate(t *testing.T) {
	t.Parallel()

	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"response": "生成的文章內容",
			"thinking": "模型的推理過程",
		})
	}))
	defer server.Close()

	client := NewOllamaClient(config.AIConfig{
		OllamaURL:   server.URL,
		Temperature: 0.7,
		TopP:        0.9,
		NumPredict:  2500,
	})

	answer, err := client.Generate(context.Background(), "qwen2.5:14b", "寫一篇文章")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if answer.Response != "生成的文章內容" {
		t.Errorf("Response = %q", answer.Response)
	}
	if answer.Thinking != "模型的推理過程" {
		t.Errorf("Thinking = %q", answer.Thinking)
	}

	if got["model"] != "qwen2.5:14b" {
		t.Errorf("model = %v", got["model"])
	}
	if got["stream"] != false {
		t.Errorf("stream = %v, want false", got["stream"])
	}
	options, _ := got["options"].(map[string]any)
	if options["num_predict"] != float64(2500) {
		t.Errorf("num_predict = %v", options["num_predict"])
	}
}

func TestOllamaGenerateBackendError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewOllamaClient(config.AIConfig{OllamaURL: server.URL})
	if _, err := client.Generate(context.Background(), "missing:1b", "prompt"); err == nil {
		t.Fatalf("expected error on backend failure")
	}
}

func TestOllamaGenerateMalformedResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewOllamaClient(config.AIConfig{OllamaURL: server.URL})
	if _, err := client.Generate(context.Background(), "qwen2.5:14b", "prompt"); err == nil {
		t.Fatalf("expected error on malformed response")
	}
}
