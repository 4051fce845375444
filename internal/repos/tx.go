package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Tx bundles the repositories that take part in an order transaction, all
// bound to the same *sqlx.Tx.
type Tx struct {
	Clients   *ClientRepo
	Products  *ProductRepo
	Orders    *OrderRepo
	Inventory *InventoryRepo
}

// WithTx runs fn inside one transaction. fn's error rolls everything back.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *Tx) error) error {
	sqlTx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = sqlTx.Rollback() }()

	tx := &Tx{
		Clients:   NewClientRepo(sqlTx),
		Products:  NewProductRepo(sqlTx),
		Orders:    NewOrderRepo(sqlTx),
		Inventory: NewInventoryRepo(sqlTx),
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
