package repo

import (
	"context"
	"fmt"
)

// ListProducts returns catalog items, optionally filtered by category and
// availability. Results are ordered for stable menu rendering.
func (r *PostgresRepository) ListProducts(ctx context.Context, category string, onlyAvailable bool) ([]Product, error) {
	const q = `
SELECT id, product_id, category, name, description, price, available, created_at, updated_at
FROM products
WHERE ($1 = '' OR category = $1)
  AND (NOT $2 OR available)
ORDER BY category, price, name;
`
	rows, err := r.pool.Query(ctx, q, category, onlyAvailable)
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

// SetProductAvailability toggles whether a product can be ordered.
func (r *PostgresRepository) SetProductAvailability(ctx context.Context, productID string, available bool) error {
	const q = `UPDATE products SET available = $2, updated_at = NOW() WHERE product_id = $1;`
	ct, err := r.pool.Exec(ctx, q, productID, available)
	if err != nil {
		return fmt.Errorf("set product availability: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
