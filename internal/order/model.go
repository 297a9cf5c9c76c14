package order

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/tienda-ecom/internal/apperr"
	"github.com/MikeMC777/tienda-ecom/internal/cart"
	"github.com/MikeMC777/tienda-ecom/internal/catalog"
)

var (
	ErrNoOwner  = apperr.New(apperr.KindInvalidState, "cart has no owning user")
	ErrNotFound = apperr.New(apperr.KindNotFound, "order not found")
)

// Order is an immutable snapshot of a cart. ID stays nil until the order is
// persisted.
type Order struct {
	ID        *int64
	User      cart.Owner
	CreatedAt time.Time

	items []catalog.Item
	total decimal.Decimal
}

// CreateFromCart snapshots c's items and total. The cart is left as is.
func CreateFromCart(c *cart.Cart, now time.Time) (*Order, error) {
	if c == nil || c.Owner == nil {
		return nil, ErrNoOwner
	}
	items := make([]catalog.Item, len(c.Items))
	copy(items, c.Items)
	return &Order{
		User:      *c.Owner,
		CreatedAt: now.UTC(),
		items:     items,
		total:     c.Total(),
	}, nil
}

// Restore rebuilds a persisted order.
func Restore(id int64, owner cart.Owner, items []catalog.Item, total decimal.Decimal, createdAt time.Time) *Order {
	cp := make([]catalog.Item, len(items))
	copy(cp, items)
	return &Order{ID: &id, User: owner, CreatedAt: createdAt, items: cp, total: total}
}

// Items returns a copy of the snapshot.
func (o *Order) Items() []catalog.Item {
	cp := make([]catalog.Item, len(o.items))
	copy(cp, o.items)
	return cp
}

func (o *Order) Total() decimal.Decimal { return o.total }

type orderJSON struct {
	ID        *int64          `json:"id"`
	User      cart.Owner      `json:"user"`
	Items     []catalog.Item  `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

func (o *Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(orderJSON{ID: o.ID, User: o.User, Items: o.Items(), Total: o.total, CreatedAt: o.CreatedAt})
}

func (o *Order) UnmarshalJSON(b []byte) error {
	var raw orderJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	o.ID, o.User, o.CreatedAt = raw.ID, raw.User, raw.CreatedAt
	o.items, o.total = raw.Items, raw.Total
	return nil
}
