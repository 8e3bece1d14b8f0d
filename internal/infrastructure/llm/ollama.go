package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ArticlePress/internal/config"
	"ArticlePress/internal/ports"
)

// OllamaClient implements ports.TextGenerator against the Ollama generate
// endpoint. It always requests non-streaming responses.
type OllamaClient struct {
	endpoint    string
	temperature float64
	topP        float64
	numPredict  int
	httpClient  *http.Client
}

var _ ports.TextGenerator = (*OllamaClient)(nil)

// NewOllamaClient builds a client from configuration. The HTTP client carries
// no timeout of its own; callers bound each invocation through the context.
func NewOllamaClient(cfg config.AIConfig) *OllamaClient {
	return &OllamaClient{
		endpoint:    cfg.OllamaURL,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		numPredict:  cfg.NumPredict,
		httpClient:  &http.Client{},
	}
}

// Generate posts the prompt to the backend with the given model and returns
// the primary response text plus the optional reasoning trace.
func (c *OllamaClient) Generate(ctx context.Context, model, prompt string) (ports.GenerationResponse, error) {
	if c.endpoint == "" {
		return ports.GenerationResponse{}, fmt.Errorf("ollama client misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model":  model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": c.temperature,
			"top_p":       c.topP,
			"num_predict": c.numPredict,
		},
	})
	if err != nil {
		return ports.GenerationResponse{}, fmt.Errorf("marshal generate payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return ports.GenerationResponse{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.GenerationResponse{}, fmt.Errorf("generate call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return ports.GenerationResponse{}, fmt.Errorf("ollama error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var answer struct {
		Response string `json:"response"`
		Thinking string `json:"thinking"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return ports.GenerationResponse{}, fmt.Errorf("decode generate response: %w", err)
	}

	return ports.GenerationResponse{
		Response: answer.Response,
		Thinking: answer.Thinking,
	}, nil
}
