package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"bot-pedidos/internal/metrics"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// openAIGateway speaks the OpenAI chat completions API. Groq exposes the
// same wire format, so it reuses this gateway with a different base URL.
type openAIGateway struct {
	client   openai.Client
	name     string
	model    string
	timeout  time.Duration
	maxTok   int
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func newOpenAIGateway(cfg Config, name, defaultBaseURL string, m *metrics.Metrics, logger *slog.Logger) *openAIGateway {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &openAIGateway{
		client:  openai.NewClient(opts...),
		name:    name,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		maxTok:  cfg.MaxTokens,
		metrics: m,
		logger:  logger.With("component", "llm", "provider", name),
	}
}

func (g *openAIGateway) Name() string { return g.name }

func (g *openAIGateway) Generate(ctx context.Context, req Request) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	params := openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = g.maxTok
	}
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		observe(g.metrics, g.name, "error", start)
		return "", fmt.Errorf("chat completion: %w", err)
	}
	observe(g.metrics, g.name, "ok", start)

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
