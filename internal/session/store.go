package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bot-pedidos/internal/cache"
)

// Store persists sessions and reply dedup markers in Redis.
type Store struct {
	redis      *cache.Redis
	logger     *slog.Logger
	sessionTTL time.Duration
	dedupTTL   time.Duration
}

// NewStore wires a session store over the shared Redis client.
func NewStore(redis *cache.Redis, sessionTTL, dedupTTL time.Duration, logger *slog.Logger) *Store {
	return &Store{
		redis:      redis,
		logger:     logger.With("component", "session"),
		sessionTTL: sessionTTL,
		dedupTTL:   dedupTTL,
	}
}

func sessionKey(phone string) string { return "session:" + phone }
func dedupKey(msgID string) string   { return "dedup:" + msgID }

// Get loads the session for a phone number. A nil session with nil error
// means none exists, typically because the TTL lapsed.
func (s *Store) Get(ctx context.Context, phone string) (*Session, error) {
	var sess Session
	found, err := s.redis.GetJSON(ctx, sessionKey(phone), &sess)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &sess, nil
}

// Put saves the session and refreshes its TTL.
func (s *Store) Put(ctx context.Context, sess *Session) error {
	if err := s.redis.SetJSON(ctx, sessionKey(sess.Phone), sess, s.sessionTTL); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// Delete removes a session, resetting the user to a fresh conversation.
func (s *Store) Delete(ctx context.Context, phone string) error {
	if err := s.redis.Delete(ctx, sessionKey(phone)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ReplySeen reports whether a provider message ID was already processed and,
// if so, returns the reply that was rendered the first time.
func (s *Store) ReplySeen(ctx context.Context, msgID string) (string, bool, error) {
	var reply string
	found, err := s.redis.GetJSON(ctx, dedupKey(msgID), &reply)
	if err != nil {
		return "", false, fmt.Errorf("check dedup: %w", err)
	}
	return reply, found, nil
}

// RememberReply marks a provider message ID as processed, keeping the reply
// so redeliveries can be answered without re-running the conversation.
func (s *Store) RememberReply(ctx context.Context, msgID, reply string) error {
	if err := s.redis.SetJSON(ctx, dedupKey(msgID), reply, s.dedupTTL); err != nil {
		return fmt.Errorf("remember reply: %w", err)
	}
	return nil
}
