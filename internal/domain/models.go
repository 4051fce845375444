package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Owned is any record that belongs to exactly one salesperson.
type Owned interface {
	OwnerID() string
	// Ref names the record for error messages: kind and id.
	Ref() (string, string)
}

type Product struct {
	ID        string  `db:"id" json:"id"`
	Name      string  `db:"name" json:"name"`
	Stock     int     `db:"stock" json:"stock"`
	Price     float64 `db:"price" json:"price"`
	CreatedAt string  `db:"created_at" json:"createdAt"`
}

type Client struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Surname   string `db:"surname" json:"surname"`
	Branch    string `db:"branch" json:"branch"`
	Email     string `db:"email" json:"email"`
	Phone     string `db:"phone" json:"phone,omitempty"`
	TanksP    string `db:"tanks_p" json:"tanksP,omitempty"`
	VolumeP   string `db:"volume_p" json:"volumeP,omitempty"`
	TanksT    string `db:"tanks_t" json:"tanksT,omitempty"`
	VolumeT   string `db:"volume_t" json:"volumeT,omitempty"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	Owner     string `db:"owner_user_id" json:"ownerUserId"`
}

func (c *Client) OwnerID() string       { return c.Owner }
func (c *Client) Ref() (string, string) { return "client", c.ID }

// LineItem is one (product, quantity) pair of an order.
type LineItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// LineItems is stored as a JSON document column on the order row.
type LineItems []LineItem

func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		l = LineItems{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *LineItems) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*l = LineItems{}
		return nil
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("line items: unsupported column type %T", src)
	}
	return json.Unmarshal(b, l)
}

// Quantities folds the items into per-product totals. A product listed twice
// counts once with its quantities summed.
func (l LineItems) Quantities() map[string]int {
	out := make(map[string]int, len(l))
	for _, it := range l {
		out[it.ProductID] += it.Quantity
	}
	return out
}

type Order struct {
	ID        string    `db:"id" json:"id"`
	Items     LineItems `db:"items_json" json:"items"`
	Total     float64   `db:"total" json:"total"`
	ClientID  string    `db:"client_id" json:"clientId"`
	Owner     string    `db:"owner_user_id" json:"ownerUserId"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt string    `db:"created_at" json:"createdAt"`
}

func (o *Order) OwnerID() string       { return o.Owner }
func (o *Order) Ref() (string, string) { return "order", o.ID }

// Availability is the ledger's view of one product.
type Availability struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
}
