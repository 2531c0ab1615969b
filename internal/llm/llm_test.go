package llm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewDisabledWithoutProvider(t *testing.T) {
	g, err := New(Config{}, nil, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := g.Generate(context.Background(), Request{Prompt: "hola"}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestNewDisabledWithoutAPIKey(t *testing.T) {
	g, err := New(Config{Provider: "openai"}, nil, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.Name() != "disabled" {
		t.Errorf("gateway = %q, want disabled", g.Name())
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New(Config{Provider: "oracle", APIKey: "k"}, nil, testLogger()); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestAnthropicGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Errorf("missing version header")
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": "Claro, con gusto."}},
		})
	}))
	defer srv.Close()

	g := newAnthropicGateway(Config{
		APIKey:  "test-key",
		Model:   "test-model",
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	}, nil, testLogger())

	got, err := g.Generate(context.Background(), Request{System: "eres un bot", Prompt: "hola"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Claro, con gusto." {
		t.Errorf("answer = %q", got)
	}
}

func TestAnthropicGatewayAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"type": "rate_limit_error", "message": "slow down"},
		})
	}))
	defer srv.Close()

	g := newAnthropicGateway(Config{APIKey: "k", Model: "m", BaseURL: srv.URL}, nil, testLogger())
	if _, err := g.Generate(context.Background(), Request{Prompt: "hola"}); err == nil {
		t.Error("expected error on 429")
	}
}

func TestCacheKeyNormalizes(t *testing.T) {
	if cacheKey("¿Tienen Envío?") != cacheKey("¿tienen envio?") {
		t.Error("cache key should fold case and accents")
	}
	if cacheKey("hola") == cacheKey("adios") {
		t.Error("distinct prompts collide")
	}
}
