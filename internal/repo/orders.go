package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, order_ref, user_id, items, subtotal, delivery_fee, total,
       delivery_address, payment_method, status, created_at, confirmed_at, delivered_at, updated_at`

// InsertOrder creates a new order record.
func (r *PostgresRepository) InsertOrder(ctx context.Context, order Order) (*Order, error) {
	if order.Status == "" {
		order.Status = OrderStatusPending
	}
	if !ValidOrderStatus(order.Status) {
		return nil, fmt.Errorf("insert order: unknown status %q", order.Status)
	}
	items, err := json.Marshal(order.Items)
	if err != nil {
		return nil, fmt.Errorf("marshal order items: %w", err)
	}

	const q = `
INSERT INTO orders (order_ref, user_id, items, subtotal, delivery_fee, total,
                    delivery_address, payment_method, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at, updated_at;
`
	err = r.pool.QueryRow(ctx, q,
		order.OrderRef,
		order.UserID,
		items,
		order.Subtotal,
		order.DeliveryFee,
		order.Total,
		order.DeliveryAddress,
		order.PaymentMethod,
		order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return &order, nil
}

// GetOrderByRef returns the order with the given public reference.
func (r *PostgresRepository) GetOrderByRef(ctx context.Context, ref string) (*Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE order_ref = $1 LIMIT 1;`
	order, err := scanOrder(r.pool.QueryRow(ctx, q, ref))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order by ref: %w", err)
	}
	return order, nil
}

// LatestOrderByPhone returns the newest non-cancelled order for a user.
func (r *PostgresRepository) LatestOrderByPhone(ctx context.Context, phone string) (*Order, error) {
	q := `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = (SELECT id FROM users WHERE phone = $1)
  AND status <> 'cancelled'
ORDER BY created_at DESC
LIMIT 1;`
	order, err := scanOrder(r.pool.QueryRow(ctx, q, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("latest order by phone: %w", err)
	}
	return order, nil
}

// ListOrders returns orders newest first, optionally filtered by status.
func (r *PostgresRepository) ListOrders(ctx context.Context, status string, limit int) ([]Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	q := `
SELECT ` + orderColumns + `
FROM orders
WHERE ($1 = '' OR status = $1)
ORDER BY created_at DESC
LIMIT $2;`
	rows, err := r.pool.Query(ctx, q, status, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

// ListOrdersByPhone returns all orders placed by a user.
func (r *PostgresRepository) ListOrdersByPhone(ctx context.Context, phone string) ([]Order, error) {
	q := `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = (SELECT id FROM users WHERE phone = $1)
ORDER BY created_at DESC;`
	rows, err := r.pool.Query(ctx, q, phone)
	if err != nil {
		return nil, fmt.Errorf("list orders by phone: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

// UpdateOrderStatus advances an order through its lifecycle. Backwards moves
// and updates to delivered or cancelled orders are rejected.
func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, ref, status string) (*Order, error) {
	if !ValidOrderStatus(status) {
		return nil, fmt.Errorf("update order status: unknown status %q", status)
	}

	var updated *Order
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		q := `SELECT ` + orderColumns + ` FROM orders WHERE order_ref = $1 FOR UPDATE;`
		current, err := scanOrder(tx.QueryRow(ctx, q, ref))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("lock order: %w", err)
		}
		if !CanTransition(current.Status, status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
		}

		const update = `
UPDATE orders
SET status = $2,
    confirmed_at = CASE WHEN $2 = 'confirmed' THEN NOW() ELSE confirmed_at END,
    delivered_at = CASE WHEN $2 = 'delivered' THEN NOW() ELSE delivered_at END,
    updated_at = NOW()
WHERE order_ref = $1
RETURNING ` + orderColumns + `;`
		updated, err = scanOrder(tx.QueryRow(ctx, update, ref, status))
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// OrderStats aggregates counts for the admin summary endpoint.
func (r *PostgresRepository) OrderStats(ctx context.Context) (*OrderStats, error) {
	const q = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE status = 'pending'),
       COUNT(*) FILTER (WHERE status IN ('confirmed', 'preparing', 'delivering')),
       COUNT(*) FILTER (WHERE status = 'delivered'),
       COALESCE(SUM(total) FILTER (WHERE status = 'delivered'), 0)
FROM orders;
`
	var stats OrderStats
	if err := r.pool.QueryRow(ctx, q).Scan(
		&stats.TotalOrders,
		&stats.PendingOrders,
		&stats.ConfirmedOrders,
		&stats.DeliveredOrders,
		&stats.TotalRevenue,
	); err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}
	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var order Order
	var items []byte
	if err := row.Scan(
		&order.ID,
		&order.OrderRef,
		&order.UserID,
		&items,
		&order.Subtotal,
		&order.DeliveryFee,
		&order.Total,
		&order.DeliveryAddress,
		&order.PaymentMethod,
		&order.Status,
		&order.CreatedAt,
		&order.ConfirmedAt,
		&order.DeliveredAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	}
	return &order, nil
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	var orders []Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}
