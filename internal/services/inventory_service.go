package services

import (
	"context"
	"errors"
	"time"

	"crm/internal/domain"
	applog "crm/internal/log"
	"crm/internal/repos"
	"crm/internal/validate"

	"github.com/jmoiron/sqlx"
)

// Delta is a signed stock change for one product. Negative reserves,
// positive releases.
type Delta struct {
	ProductID string
	Delta     int
	// Dropped marks a release of a product the order no longer holds.
	Dropped bool
}

// InventoryService owns every change to product stock. Changes are
// conditional updates applied inside a transaction, so stock never drops
// below zero even with concurrent orders.
type InventoryService struct {
	DB      *sqlx.DB
	Retries int
	Timeout time.Duration
}

func NewInventoryService(db *sqlx.DB, retries int, timeout time.Duration) *InventoryService {
	return &InventoryService{DB: db, Retries: retries, Timeout: timeout}
}

// InTx runs fn in one transaction bounded by the storage timeout, retrying
// the whole transaction on transient write conflicts. Business errors are
// returned as-is on the first attempt.
func (s *InventoryService) InTx(ctx context.Context, action string, fn func(ctx context.Context, tx *repos.Tx) error) error {
	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()

	var err error
	for attempt := 0; ; attempt++ {
		err = repos.WithTx(ctx, s.DB, func(tx *repos.Tx) error { return fn(ctx, tx) })
		if err == nil || !repos.IsConflict(err) || attempt >= s.Retries {
			break
		}
		applog.Info(nil, "ledger.retry", map[string]any{"op": action, "attempt": attempt + 1})
		select {
		case <-ctx.Done():
			return fault(action, ctx.Err(), nil)
		case <-time.After(backoff(attempt)):
		}
	}
	return fault(action, err, nil)
}

func backoff(attempt int) time.Duration {
	return time.Duration(attempt+1) * 10 * time.Millisecond
}

// Reserve takes qty units of a product out of stock.
func (s *InventoryService) Reserve(ctx context.Context, productID string, qty int) error {
	if !validate.Qty(qty) {
		return domain.Invalid("quantity must be between 1 and %d", validate.MaxQty)
	}
	return s.Adjust(ctx, productID, -qty)
}

// Adjust applies a signed delta to a product's stock on its own.
func (s *InventoryService) Adjust(ctx context.Context, productID string, delta int) error {
	if _, ok := validate.ID(productID); !ok {
		return domain.Invalid("invalid product id")
	}
	return s.InTx(ctx, "ledger.adjust", func(ctx context.Context, tx *repos.Tx) error {
		return s.ApplyBatch(ctx, tx, []Delta{{ProductID: productID, Delta: delta}})
	})
}

// ApplyBatch applies deltas in order within the caller's transaction and
// stops at the first one that cannot be applied. The caller rolls back.
func (s *InventoryService) ApplyBatch(ctx context.Context, tx *repos.Tx, deltas []Delta) error {
	for _, d := range deltas {
		if d.Delta == 0 {
			continue
		}
		ok, err := tx.Inventory.Adjust(ctx, d.ProductID, d.Delta)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		// zero rows: either the product is gone or stock is short
		p, err := tx.Products.Get(ctx, d.ProductID)
		if err != nil {
			if d.Dropped && d.Delta > 0 && errors.Is(err, domain.ErrNotFound) {
				// nothing to give back to a deleted product
				applog.Info(nil, "ledger.release.skipped", map[string]any{"product_id": d.ProductID, "qty": d.Delta})
				continue
			}
			return err
		}
		return &domain.StockError{ProductID: p.ID, ProductName: p.Name, Requested: -d.Delta, Available: p.Stock}
	}
	return nil
}

// Availability reads the current stock of one product.
func (s *InventoryService) Availability(ctx context.Context, productID string) (domain.Availability, error) {
	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()

	p, err := repos.NewProductRepo(s.DB).Get(ctx, productID)
	if err != nil {
		return domain.Availability{}, fault("ledger.availability", err, map[string]any{"product_id": productID})
	}
	return domain.Availability{ProductID: p.ID, Name: p.Name, Stock: p.Stock}, nil
}

// stockDeltas computes what must move between the ledger and an order when
// it changes from (prev, prevStatus) to (next, nextStatus). An order whose
// status does not hold stock counts as holding nothing. Products are
// visited in next's item order first, then products dropped from prev.
func stockDeltas(prev domain.LineItems, prevStatus domain.Status, next domain.LineItems, nextStatus domain.Status) []Delta {
	before := map[string]int{}
	if prevStatus.Holds() {
		before = prev.Quantities()
	}
	after := map[string]int{}
	if nextStatus.Holds() {
		after = next.Quantities()
	}

	var out []Delta
	seen := map[string]bool{}
	visit := func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		if d := before[id] - after[id]; d != 0 {
			out = append(out, Delta{ProductID: id, Delta: d, Dropped: after[id] == 0})
		}
	}
	for _, it := range next {
		visit(it.ProductID)
	}
	for _, it := range prev {
		visit(it.ProductID)
	}
	return out
}
