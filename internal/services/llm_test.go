package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/ytblog/internal/shared"
	"github.com/openai/openai-go/option"
)

func completionServer(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected /chat/completions, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer API key, got %q", got)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if body["model"] != "test-model" {
			t.Errorf("expected model test-model, got %v", body["model"])
		}
		if msgs, ok := body["messages"].([]any); !ok || len(msgs) != 2 {
			t.Errorf("expected system and user messages, got %v", body["messages"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOpenAICompleter(t *testing.T) {
	t.Run("Requires API Key", func(t *testing.T) {
		_, err := NewOpenAICompleter(shared.LLMConfig{APIKeyEnv: "GROQ_API_KEY"}, nil)
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		c, err := NewOpenAICompleter(shared.LLMConfig{APIKey: "k"}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if c.Model() != DefaultLLMModel {
			t.Errorf("expected default model, got %s", c.Model())
		}
	})

	t.Run("Complete", func(t *testing.T) {
		server := completionServer(t, "the analysis", http.StatusOK)
		c, err := NewOpenAICompleter(shared.LLMConfig{
			BaseURL:     server.URL,
			Model:       "test-model",
			APIKey:      "test-key",
			Temperature: 0.2,
		}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := c.Complete(context.Background(), "system", "prompt")
		if err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if got != "the analysis" {
			t.Errorf("Complete() = %q", got)
		}
	})

	t.Run("Upstream Error", func(t *testing.T) {
		server := completionServer(t, "", http.StatusBadRequest)
		c, _ := NewOpenAICompleter(shared.LLMConfig{
			BaseURL: server.URL,
			Model:   "test-model",
			APIKey:  "test-key",
		}, nil, option.WithMaxRetries(0))

		if _, err := c.Complete(context.Background(), "system", "prompt"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}
