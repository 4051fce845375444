package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type InventoryRepo struct{ db sqlx.ExtContext }

func NewInventoryRepo(db sqlx.ExtContext) *InventoryRepo { return &InventoryRepo{db: db} }

// Adjust adds delta (negative reserves, positive releases) to a product's
// stock in a single conditional update. It reports false, without error,
// when the product is missing or the result would drop below zero.
func (r *InventoryRepo) Adjust(ctx context.Context, productID string, delta int) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE products
		SET stock = stock + ?
		WHERE id = ? AND stock + ? >= 0
	`), delta, productID, delta)
	if err != nil {
		return false, fmt.Errorf("adjust stock %s: %w", productID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("adjust stock %s: %w", productID, err)
	}
	return n == 1, nil
}

// Stock returns the current available quantity for a product.
func (r *InventoryRepo) Stock(ctx context.Context, productID string) (int, error) {
	var qty int
	err := sqlx.GetContext(ctx, r.db, &qty, r.db.Rebind(`SELECT stock FROM products WHERE id = ?`), productID)
	if err != nil {
		return 0, notFound(err, "product", productID)
	}
	return qty, nil
}
