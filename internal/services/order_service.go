package services

import (
	"context"
	"time"

	"crm/internal/domain"
	"crm/internal/repos"
	"crm/internal/validate"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// OrderInput is both the create draft and the amendment. On amend, empty
// fields keep the order's current value.
type OrderInput struct {
	Items    []domain.LineItem `json:"items"`
	Total    *float64          `json:"total"`
	ClientID string            `json:"clientId"`
	Status   string            `json:"status"`
}

type OrderService struct {
	DB      *sqlx.DB
	Ledger  *InventoryService
	Timeout time.Duration
}

func NewOrderService(db *sqlx.DB, ledger *InventoryService, timeout time.Duration) *OrderService {
	return &OrderService{DB: db, Ledger: ledger, Timeout: timeout}
}

func checkItems(items []domain.LineItem) (domain.LineItems, error) {
	out := make(domain.LineItems, 0, len(items))
	sums := make(map[string]int, len(items))
	for i, it := range items {
		id, ok := validate.ID(it.ProductID)
		if !ok {
			return nil, domain.Invalid("item %d: invalid product id", i+1)
		}
		if !validate.Qty(it.Quantity) {
			return nil, domain.Invalid("item %d: quantity must be between 1 and %d", i+1, validate.MaxQty)
		}
		// both terms are <= MaxQty, so the sum cannot wrap
		if sums[id] += it.Quantity; sums[id] > validate.MaxQty {
			return nil, domain.Invalid("product %s: total quantity exceeds %d", id, validate.MaxQty)
		}
		out = append(out, domain.LineItem{ProductID: id, Quantity: it.Quantity})
	}
	return out, nil
}

func checkTotal(t *float64) error {
	if t != nil && *t < 0 {
		return domain.Invalid("total cannot be negative")
	}
	return nil
}

// Create reserves stock for every line item and stores the order, all in
// one transaction. If any item cannot be reserved nothing is kept.
func (s *OrderService) Create(ctx context.Context, in OrderInput, actor domain.Identity) (*domain.Order, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("an order needs at least one item")
	}
	items, err := checkItems(in.Items)
	if err != nil {
		return nil, err
	}
	clientID, ok := validate.ID(in.ClientID)
	if !ok {
		return nil, domain.Invalid("invalid client id")
	}
	if err := checkTotal(in.Total); err != nil {
		return nil, err
	}
	status, ok := domain.ParseStatus(in.Status)
	if !ok {
		return nil, domain.Invalid("unknown order status %q", in.Status)
	}
	if status == "" {
		status = domain.StatusPending
	}

	o := &domain.Order{
		ID:       uuid.NewString(),
		Items:    items,
		ClientID: clientID,
		Owner:    actor.ID,
		Status:   status,
	}
	if in.Total != nil {
		o.Total = *in.Total
	}

	err = s.Ledger.InTx(ctx, "order.create", func(ctx context.Context, tx *repos.Tx) error {
		c, err := tx.Clients.Get(ctx, clientID)
		if err != nil {
			return err
		}
		if err := AuthorizeOwner(c, actor); err != nil {
			return err
		}
		if err := s.Ledger.ApplyBatch(ctx, tx, stockDeltas(nil, o.Status, o.Items, o.Status)); err != nil {
			return err
		}
		return tx.Orders.Create(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Amend rewrites an order and moves stock by the difference between what
// the order held and what it holds now. The actor must own both the order
// and the client it ends up assigned to.
func (s *OrderService) Amend(ctx context.Context, orderID string, in OrderInput, actor domain.Identity) (*domain.Order, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	orderID, ok := validate.ID(orderID)
	if !ok {
		return nil, domain.Invalid("invalid order id")
	}
	var items domain.LineItems
	if len(in.Items) > 0 {
		var err error
		if items, err = checkItems(in.Items); err != nil {
			return nil, err
		}
	}
	if err := checkTotal(in.Total); err != nil {
		return nil, err
	}
	status, ok := domain.ParseStatus(in.Status)
	if !ok {
		return nil, domain.Invalid("unknown order status %q", in.Status)
	}

	var out *domain.Order
	err := s.Ledger.InTx(ctx, "order.amend", func(ctx context.Context, tx *repos.Tx) error {
		prev, err := tx.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		next := *prev
		if items != nil {
			next.Items = items
		}
		if in.Total != nil {
			next.Total = *in.Total
		}
		if status != "" {
			next.Status = status
		}
		if id := in.ClientID; id != "" {
			if next.ClientID, ok = validate.ID(id); !ok {
				return domain.Invalid("invalid client id")
			}
		}
		if !domain.CanTransition(prev.Status, next.Status) {
			return domain.Invalid("an order cannot go from %s to %s", prev.Status, next.Status)
		}

		if err := AuthorizeOwner(prev, actor); err != nil {
			return err
		}
		c, err := tx.Clients.Get(ctx, next.ClientID)
		if err != nil {
			return err
		}
		if err := AuthorizeOwner(c, actor); err != nil {
			return err
		}

		deltas := stockDeltas(prev.Items, prev.Status, next.Items, next.Status)
		if err := s.Ledger.ApplyBatch(ctx, tx, deltas); err != nil {
			return err
		}
		if err := tx.Orders.Update(ctx, &next); err != nil {
			return err
		}
		out = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *OrderService) Get(ctx context.Context, id string, actor domain.Identity) (*domain.Order, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()

	o, err := repos.NewOrderRepo(s.DB).Get(ctx, id)
	if err != nil {
		return nil, fault("order.get", err, map[string]any{"order_id": id})
	}
	if err := AuthorizeOwner(o, actor); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()

	out, err := repos.NewOrderRepo(s.DB).List(ctx)
	return out, fault("order.list", err, nil)
}

// ListMine returns only the orders the actor placed.
func (s *OrderService) ListMine(ctx context.Context, actor domain.Identity) ([]domain.Order, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()

	out, err := repos.NewOrderRepo(s.DB).ListByOwner(ctx, actor.ID)
	return out, fault("order.list_mine", err, map[string]any{"user_id": actor.ID})
}
