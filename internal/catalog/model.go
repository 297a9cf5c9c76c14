// Package catalog is the registry of purchasable items.
package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/tienda-ecom/internal/apperr"
)

var ErrNotFound = apperr.New(apperr.KindNotFound, "item not found")

// Item is shared by reference between carts and orders and never mutated by them.
type Item struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"17.99"`
}
