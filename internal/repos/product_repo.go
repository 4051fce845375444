package repos

import (
	"context"
	"fmt"

	"crm/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db sqlx.ExtContext }

func NewProductRepo(db sqlx.ExtContext) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
  SELECT id, name, stock, price, created_at
  FROM products
  ORDER BY LOWER(name)
`)
	return out, err
}

func (r *ProductRepo) Get(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.db, &p, r.db.Rebind(`
  SELECT id, name, stock, price, created_at
  FROM products
  WHERE id = ?
`), id)
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	return &p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	p.CreatedAt = now()
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO products(id, name, stock, price, created_at) VALUES(?, ?, ?, ?, ?)`),
		p.ID, p.Name, p.Stock, p.Price, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ExistsError{Kind: "product", Field: "id", Value: p.ID}
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update replaces name, price and stock level. Setting stock here is the
// restock path; order reservations go through InventoryRepo.Adjust.
func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE products SET name = ?, stock = ?, price = ? WHERE id = ?`),
		p.Name, p.Stock, p.Price, p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("product", p.ID)
	}
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("product", id)
	}
	return nil
}
