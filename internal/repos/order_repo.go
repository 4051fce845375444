package repos

import (
	"context"
	"fmt"

	"crm/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db sqlx.ExtContext }

func NewOrderRepo(db sqlx.ExtContext) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `id, items_json, total, client_id, owner_user_id, status, created_at`

// Create inserts a new order document.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	o.CreatedAt = now()
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
	  INSERT INTO orders
	    (id, items_json, total, client_id, owner_user_id, status, created_at)
	  VALUES
	    (?,  ?,          ?,     ?,         ?,             ?,      ?)
	`), o.ID, o.Items, o.Total, o.ClientID, o.Owner, string(o.Status), o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := sqlx.GetContext(ctx, r.db, &o, r.db.Rebind(`SELECT `+orderCols+` FROM orders WHERE id = ?`), id); err != nil {
		return nil, notFound(err, "order", id)
	}
	return &o, nil
}

// GetForUpdate reads the order and, on Postgres, row-locks it until the
// surrounding transaction ends. sqlite already serializes writers.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	q := `SELECT ` + orderCols + ` FROM orders WHERE id = ?`
	if r.db.DriverName() == driverPostgres {
		q += ` FOR UPDATE`
	}
	var o domain.Order
	if err := sqlx.GetContext(ctx, r.db, &o, r.db.Rebind(q), id); err != nil {
		return nil, notFound(err, "order", id)
	}
	return &o, nil
}

// Update persists the mutable parts of an order: items, total, client and
// status. Owner and created_at stay as they were.
func (r *OrderRepo) Update(ctx context.Context, o *domain.Order) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE orders SET items_json = ?, total = ?, client_id = ?, status = ? WHERE id = ?`),
		o.Items, o.Total, o.ClientID, string(o.Status), o.ID)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("order", o.ID)
	}
	return nil
}

func (r *OrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	out := []domain.Order{}
	err := sqlx.SelectContext(ctx, r.db, &out, `SELECT `+orderCols+` FROM orders ORDER BY created_at DESC`)
	return out, err
}

// ListByOwner returns orders placed by one salesperson, newest first.
func (r *OrderRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	out := []domain.Order{}
	err := sqlx.SelectContext(ctx, r.db, &out,
		r.db.Rebind(`SELECT `+orderCols+` FROM orders WHERE owner_user_id = ? ORDER BY created_at DESC`), ownerID)
	return out, err
}
