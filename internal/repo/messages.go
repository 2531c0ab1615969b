package repo

import (
	"context"
	"fmt"
	"time"
)

// InsertMessage appends an entry to the conversation log.
func (r *PostgresRepository) InsertMessage(ctx context.Context, msg MessageRecord) error {
	const q = `
INSERT INTO messages (user_id, direction, type, content, external_id)
VALUES ($1, $2, $3, $4, $5);
`
	if _, err := r.pool.Exec(ctx, q, msg.UserID, msg.Direction, msg.Type, msg.Content, msg.ExternalID); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListRecentMessages returns the newest log entries for a user.
func (r *PostgresRepository) ListRecentMessages(ctx context.Context, userID string, limit int) ([]MessageRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const q = `
SELECT user_id, direction, type, content, external_id, created_at
FROM messages
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2;
`
	rows, err := r.pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent messages: %w", err)
	}
	defer rows.Close()

	var msgs []MessageRecord
	for rows.Next() {
		var m MessageRecord
		if err := rows.Scan(&m.UserID, &m.Direction, &m.Type, &m.Content, &m.ExternalID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return msgs, nil
}

// MessageStats counts logged messages since the given time.
func (r *PostgresRepository) MessageStats(ctx context.Context, since time.Time) (*MessageStats, error) {
	const q = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE direction = 'inbound'),
       COUNT(*) FILTER (WHERE direction = 'outbound')
FROM messages
WHERE created_at >= $1;
`
	var stats MessageStats
	if err := r.pool.QueryRow(ctx, q, since).Scan(&stats.TotalMessages, &stats.InboundMessages, &stats.OutboundMessages); err != nil {
		return nil, fmt.Errorf("message stats: %w", err)
	}
	return &stats, nil
}
