package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// UpsertUserByPhone stores or refreshes the user identified by phone number.
// The boolean reports whether a new row was created.
func (r *PostgresRepository) UpsertUserByPhone(ctx context.Context, phone string) (*User, bool, error) {
	const q = `
INSERT INTO users (phone, updated_at)
VALUES ($1, NOW())
ON CONFLICT (phone) DO UPDATE SET updated_at = NOW()
RETURNING id, phone, name, email, created_at, updated_at, (xmax = 0) AS inserted;
`
	row := r.pool.QueryRow(ctx, q, phone)

	var u User
	var inserted bool
	if err := row.Scan(&u.ID, &u.Phone, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt, &inserted); err != nil {
		return nil, false, fmt.Errorf("upsert user: %w", err)
	}
	return &u, inserted, nil
}

// GetUserByPhone returns the user with the given phone number.
func (r *PostgresRepository) GetUserByPhone(ctx context.Context, phone string) (*User, error) {
	const q = `
SELECT id, phone, name, email, created_at, updated_at
FROM users
WHERE phone = $1
LIMIT 1;
`
	row := r.pool.QueryRow(ctx, q, phone)
	var u User
	if err := row.Scan(&u.ID, &u.Phone, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by phone: %w", err)
	}
	return &u, nil
}

// UpdateUserName records the name a user volunteered in conversation.
func (r *PostgresRepository) UpdateUserName(ctx context.Context, phone, name string) error {
	const q = `UPDATE users SET name = $2, updated_at = NOW() WHERE phone = $1;`
	ct, err := r.pool.Exec(ctx, q, phone, name)
	if err != nil {
		return fmt.Errorf("update user name: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUsers returns the most recently created users.
func (r *PostgresRepository) ListUsers(ctx context.Context, limit int) ([]User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	const q = `
SELECT id, phone, name, email, created_at, updated_at
FROM users
ORDER BY created_at DESC
LIMIT $1;
`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Phone, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}
