// Package cart implements the cart aggregate: an ordered sequence of item
// references, one entry per unit, whose total is always derived from the
// entries.
package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/tienda-ecom/internal/apperr"
	"github.com/MikeMC777/tienda-ecom/internal/catalog"
)

// MaxQuantity caps the units a single AddItem call may append.
const MaxQuantity = 1000

var (
	ErrNotFound        = apperr.New(apperr.KindNotFound, "cart not found")
	ErrItemNotInCart   = apperr.New(apperr.KindNotFound, "item not in cart")
	ErrInvalidQuantity = apperr.New(apperr.KindValidation, "quantity out of range")
)

// Owner is the back-reference to the user holding the cart. It is used for
// lookups and attribution only.
type Owner struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type Cart struct {
	ID    int64
	Items []catalog.Item
	Owner *Owner
}

func New() *Cart { return &Cart{Items: []catalog.Item{}} }

// Total is the exact sum of the contained item prices.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Price)
	}
	return total
}

// DisplayTotal rounds for presentation only.
func (c *Cart) DisplayTotal() string { return c.Total().StringFixed(2) }

// AddItem appends quantity references to it, 1 <= quantity <= MaxQuantity.
func (c *Cart) AddItem(it catalog.Item, quantity int) error {
	if quantity <= 0 || quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	for i := 0; i < quantity; i++ {
		c.Items = append(c.Items, it)
	}
	return nil
}

// RemoveItem drops up to quantity entries matching it.ID, newest first. It
// returns ErrItemNotInCart, leaving the cart untouched, when nothing matches.
func (c *Cart) RemoveItem(it catalog.Item, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if c.Count(it.ID) == 0 {
		return ErrItemNotInCart
	}
	kept := make([]catalog.Item, len(c.Items))
	n := len(c.Items)
	removed := 0
	for i := len(c.Items) - 1; i >= 0; i-- {
		if removed < quantity && c.Items[i].ID == it.ID {
			removed++
			continue
		}
		n--
		kept[n] = c.Items[i]
	}
	c.Items = kept[n:]
	return nil
}

// Count reports how many entries reference itemID.
func (c *Cart) Count(itemID int64) int {
	n := 0
	for _, it := range c.Items {
		if it.ID == itemID {
			n++
		}
	}
	return n
}

type cartJSON struct {
	ID    int64           `json:"id"`
	Items []catalog.Item  `json:"items"`
	Total decimal.Decimal `json:"total"`
	User  *Owner          `json:"user,omitempty"`
}

func (c *Cart) MarshalJSON() ([]byte, error) {
	items := c.Items
	if items == nil {
		items = []catalog.Item{}
	}
	return json.Marshal(cartJSON{ID: c.ID, Items: items, Total: c.Total(), User: c.Owner})
}

func (c *Cart) UnmarshalJSON(b []byte) error {
	var raw cartJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	c.ID, c.Items, c.Owner = raw.ID, raw.Items, raw.User
	return nil
}
