package llm

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"time"

	"bot-pedidos/internal/cache"
	"bot-pedidos/internal/util"
)

// Cached wraps a gateway with a Redis answer cache keyed on the normalized
// prompt. Repeat questions skip the provider entirely.
type Cached struct {
	inner  Gateway
	redis  *cache.Redis
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wires the cache around a gateway.
func NewCached(inner Gateway, redis *cache.Redis, ttl time.Duration, logger *slog.Logger) *Cached {
	return &Cached{
		inner:  inner,
		redis:  redis,
		ttl:    ttl,
		logger: logger.With("component", "llm_cache"),
	}
}

func (c *Cached) Name() string { return c.inner.Name() }

func (c *Cached) Generate(ctx context.Context, req Request) (string, error) {
	key := cacheKey(req.Prompt)

	var cached string
	found, err := c.redis.GetJSON(ctx, key, &cached)
	if err != nil {
		c.logger.Warn("cache lookup failed", "error", err)
	} else if found {
		return cached, nil
	}

	answer, err := c.inner.Generate(ctx, req)
	if err != nil {
		return "", err
	}

	if err := c.redis.SetJSON(ctx, key, answer, c.ttl); err != nil {
		c.logger.Warn("cache store failed", "error", err)
	}
	return answer, nil
}

func cacheKey(prompt string) string {
	sum := md5.Sum([]byte(util.Normalize(prompt)))
	return "llm:answer:" + hex.EncodeToString(sum[:])
}
