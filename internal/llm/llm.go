// Package llm generates free-form replies for questions the knowledge base
// cannot answer. It sits at the very end of the response pipeline and the
// bot must keep working when it is unconfigured or down.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bot-pedidos/internal/metrics"
)

// ErrNotConfigured is returned when no provider is set up. Callers treat it
// as "skip the LLM", not as a failure.
var ErrNotConfigured = errors.New("llm: no provider configured")

// Request is a single generation call.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Gateway is a text generation backend.
type Gateway interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// Config selects and parameterizes the provider.
type Config struct {
	Provider  string
	APIKey    string
	Model     string
	BaseURL   string
	Timeout   time.Duration
	MaxTokens int
}

// New builds the gateway for the configured provider. Supported providers
// are openai, groq (OpenAI-compatible) and anthropic; anything else yields
// the disabled gateway.
func New(cfg Config, m *metrics.Metrics, logger *slog.Logger) (Gateway, error) {
	if cfg.Provider == "" || cfg.Provider == "disabled" {
		return disabledGateway{}, nil
	}
	if cfg.APIKey == "" {
		logger.Warn("llm provider set but api key missing, generation disabled", "provider", cfg.Provider)
		return disabledGateway{}, nil
	}

	switch cfg.Provider {
	case "openai":
		return newOpenAIGateway(cfg, "openai", "", m, logger), nil
	case "groq":
		return newOpenAIGateway(cfg, "groq", groqBaseURL, m, logger), nil
	case "anthropic":
		return newAnthropicGateway(cfg, m, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

type disabledGateway struct{}

func (disabledGateway) Generate(ctx context.Context, req Request) (string, error) {
	return "", ErrNotConfigured
}

func (disabledGateway) Name() string { return "disabled" }

func observe(m *metrics.Metrics, provider, status string, start time.Time) {
	if m == nil {
		return
	}
	m.LLMRequests.WithLabelValues(provider, status).Inc()
	m.LLMLatency.WithLabelValues(provider, status).Observe(time.Since(start).Seconds())
}
