package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// -- Users --

func (r *SQLiteRepository) UpsertUserByPhone(ctx context.Context, phone string) (*User, bool, error) {
	existing, err := r.GetUserByPhone(ctx, phone)
	switch {
	case err == nil:
		const touch = `UPDATE users SET updated_at = CURRENT_TIMESTAMP WHERE phone = ?;`
		if _, err := r.db.ExecContext(ctx, touch, phone); err != nil {
			return nil, false, fmt.Errorf("touch user: %w", err)
		}
		return existing, false, nil
	case errors.Is(err, ErrNotFound):
		const insert = `
INSERT INTO users (id, phone)
VALUES (?, ?)
RETURNING id, phone, name, email, created_at, updated_at;
`
		row := r.db.QueryRowContext(ctx, insert, uuid.NewString(), phone)
		var u User
		if err := row.Scan(&u.ID, &u.Phone, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, false, fmt.Errorf("insert user: %w", err)
		}
		return &u, true, nil
	default:
		return nil, false, err
	}
}

func (r *SQLiteRepository) GetUserByPhone(ctx context.Context, phone string) (*User, error) {
	const q = `
SELECT id, phone, name, email, created_at, updated_at
FROM users
WHERE phone = ?
LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, phone)
	var u User
	if err := row.Scan(&u.ID, &u.Phone, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by phone: %w", err)
	}
	return &u, nil
}

func (r *SQLiteRepository) UpdateUserName(ctx context.Context, phone, name string) error {
	const q = `UPDATE users SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE phone = ?;`
	ct, err := r.db.ExecContext(ctx, q, name, phone)
	if err != nil {
		return fmt.Errorf("update user name: %w", err)
	}
	if n, _ := ct.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListUsers(ctx context.Context, limit int) ([]User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	const q = `
SELECT id, phone, name, email, created_at, updated_at
FROM users
ORDER BY created_at DESC
LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, limit)
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

// -- Products --

func (r *SQLiteRepository) ListProducts(ctx context.Context, category string, onlyAvailable bool) ([]Product, error) {
	const q = `
SELECT id, product_id, category, name, description, price, available, created_at, updated_at
FROM products
WHERE (? = '' OR category = ?)
  AND (NOT ? OR available)
ORDER BY category, price, name;
`
	rows, err := r.db.QueryContext(ctx, q, category, category, onlyAvailable)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.ProductID, &p.Category, &p.Name, &p.Description, &p.Price, &p.Available, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *SQLiteRepository) SetProductAvailability(ctx context.Context, productID string, available bool) error {
	const q = `UPDATE products SET available = ?, updated_at = CURRENT_TIMESTAMP WHERE product_id = ?;`
	ct, err := r.db.ExecContext(ctx, q, available, productID)
	if err != nil {
		return fmt.Errorf("set product availability: %w", err)
	}
	if n, _ := ct.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// -- Orders --

const sqliteOrderColumns = `id, order_ref, user_id, items, subtotal, delivery_fee, total,
       delivery_address, payment_method, status, created_at, confirmed_at, delivered_at, updated_at`

func (r *SQLiteRepository) InsertOrder(ctx context.Context, order Order) (*Order, error) {
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
INSERT INTO orders (id, order_ref, user_id, items, subtotal, delivery_fee, total,
                    delivery_address, payment_method, status)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, created_at, updated_at;
`
	err = r.db.QueryRowContext(ctx, q,
		uuid.NewString(),
		order.OrderRef,
		order.UserID,
		string(items),
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

func (r *SQLiteRepository) GetOrderByRef(ctx context.Context, ref string) (*Order, error) {
	q := `SELECT ` + sqliteOrderColumns + ` FROM orders WHERE order_ref = ? LIMIT 1;`
	order, err := scanSQLiteOrder(r.db.QueryRowContext(ctx, q, ref))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order by ref: %w", err)
	}
	return order, nil
}

func (r *SQLiteRepository) LatestOrderByPhone(ctx context.Context, phone string) (*Order, error) {
	q := `
SELECT ` + sqliteOrderColumns + `
FROM orders
WHERE user_id = (SELECT id FROM users WHERE phone = ?)
  AND status <> 'cancelled'
ORDER BY created_at DESC
LIMIT 1;`
	order, err := scanSQLiteOrder(r.db.QueryRowContext(ctx, q, phone))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("latest order by phone: %w", err)
	}
	return order, nil
}

func (r *SQLiteRepository) ListOrders(ctx context.Context, status string, limit int) ([]Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	q := `
SELECT ` + sqliteOrderColumns + `
FROM orders
WHERE (? = '' OR status = ?)
ORDER BY created_at DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, status, status, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	return collectSQLiteOrders(rows)
}

func (r *SQLiteRepository) ListOrdersByPhone(ctx context.Context, phone string) ([]Order, error) {
	q := `
SELECT ` + sqliteOrderColumns + `
FROM orders
WHERE user_id = (SELECT id FROM users WHERE phone = ?)
ORDER BY created_at DESC;`
	rows, err := r.db.QueryContext(ctx, q, phone)
	if err != nil {
		return nil, fmt.Errorf("list orders by phone: %w", err)
	}
	defer rows.Close()
	return collectSQLiteOrders(rows)
}

func (r *SQLiteRepository) UpdateOrderStatus(ctx context.Context, ref, status string) (*Order, error) {
	if !ValidOrderStatus(status) {
		return nil, fmt.Errorf("update order status: unknown status %q", status)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	q := `SELECT ` + sqliteOrderColumns + ` FROM orders WHERE order_ref = ? LIMIT 1;`
	current, err := scanSQLiteOrder(tx.QueryRowContext(ctx, q, ref))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}
	if !CanTransition(current.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
	}

	update := `
UPDATE orders
SET status = ?,
    confirmed_at = CASE WHEN ? = 'confirmed' THEN CURRENT_TIMESTAMP ELSE confirmed_at END,
    delivered_at = CASE WHEN ? = 'delivered' THEN CURRENT_TIMESTAMP ELSE delivered_at END,
    updated_at = CURRENT_TIMESTAMP
WHERE order_ref = ?
RETURNING ` + sqliteOrderColumns + `;`
	updated, err := scanSQLiteOrder(tx.QueryRowContext(ctx, update, status, status, status, ref))
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return updated, nil
}

func (r *SQLiteRepository) OrderStats(ctx context.Context) (*OrderStats, error) {
	const q = `
SELECT COUNT(*),
       COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(CASE WHEN status IN ('confirmed', 'preparing', 'delivering') THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(CASE WHEN status = 'delivered' THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(CASE WHEN status = 'delivered' THEN total ELSE 0 END), 0)
FROM orders;
`
	var stats OrderStats
	if err := r.db.QueryRowContext(ctx, q).Scan(
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

// -- Messages --

func (r *SQLiteRepository) InsertMessage(ctx context.Context, msg MessageRecord) error {
	const q = `
INSERT INTO messages (id, user_id, direction, type, content, external_id)
VALUES (?, ?, ?, ?, ?, ?);
`
	if _, err := r.db.ExecContext(ctx, q, uuid.NewString(), msg.UserID, msg.Direction, msg.Type, msg.Content, msg.ExternalID); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListRecentMessages(ctx context.Context, userID string, limit int) ([]MessageRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const q = `
SELECT user_id, direction, type, content, external_id, created_at
FROM messages
WHERE user_id = ?
ORDER BY created_at DESC
LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
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

func (r *SQLiteRepository) MessageStats(ctx context.Context, since time.Time) (*MessageStats, error) {
	const q = `
SELECT COUNT(*),
       COALESCE(SUM(CASE WHEN direction = 'inbound' THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(CASE WHEN direction = 'outbound' THEN 1 ELSE 0 END), 0)
FROM messages
WHERE created_at >= ?;
`
	var stats MessageStats
	if err := r.db.QueryRowContext(ctx, q, since).Scan(&stats.TotalMessages, &stats.InboundMessages, &stats.OutboundMessages); err != nil {
		return nil, fmt.Errorf("message stats: %w", err)
	}
	return &stats, nil
}

// -- Helpers --

func scanSQLiteOrder(row rowScanner) (*Order, error) {
	var order Order
	var items []byte
	var confirmedAt, deliveredAt sql.NullTime
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
		&confirmedAt,
		&deliveredAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if confirmedAt.Valid {
		order.ConfirmedAt = &confirmedAt.Time
	}
	if deliveredAt.Valid {
		order.DeliveredAt = &deliveredAt.Time
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	}
	return &order, nil
}

func collectSQLiteOrders(rows *sql.Rows) ([]Order, error) {
	var orders []Order
	for rows.Next() {
		order, err := scanSQLiteOrder(rows)
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
