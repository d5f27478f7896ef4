package cart

import (
	"errors"

	"github.com/example/storefront/internal/domain/product"
	"github.com/shopspring/decimal"
)

var ErrInvalidItem = errors.New("cart item id is required")

// LineItem is one row of the user's cart as returned by the backend.
type LineItem struct {
	ID       int             `json:"id"`
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Subtotal is unit price times quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Product.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Total sums every line's subtotal. It is for display only; the backend
// computes the amount charged when the order is placed.
func Total(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(li.Subtotal())
	}
	return total
}

// Count is the number of units across all lines.
func Count(items []LineItem) int {
	n := 0
	for _, li := range items {
		n += li.Quantity
	}
	return n
}

// Adjustment is the backend call a quantity change turns into.
type Adjustment struct {
	ItemID   int
	Quantity int
	Remove   bool
}

// Adjust maps a requested quantity to an update, or to a removal when it
// drops below one. A zero quantity is never persisted.
func Adjust(itemID, quantity int) (Adjustment, error) {
	if itemID <= 0 {
		return Adjustment{}, ErrInvalidItem
	}
	if quantity < 1 {
		return Adjustment{ItemID: itemID, Remove: true}, nil
	}
	return Adjustment{ItemID: itemID, Quantity: quantity}, nil
}
