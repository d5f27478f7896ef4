package product

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Product mirrors the backend's product resource.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
}

// IDString is the identifier as used in routes and form values.
func (p Product) IDString() string {
	return strconv.Itoa(p.ID)
}

// GroupByCategory buckets products by category, keeping backend order inside each bucket.
// Buckets come back in Categories order; categories outside the enum follow in first-seen order.
func GroupByCategory(products []Product) []Group {
	seen := make(map[Category]bool, len(Categories))
	for _, c := range Categories {
		seen[c] = true
	}
	order := append([]Category{}, Categories...)
	buckets := make(map[Category][]Product)
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			order = append(order, p.Category)
		}
		buckets[p.Category] = append(buckets[p.Category], p)
	}

	var groups []Group
	for _, c := range order {
		if items := buckets[c]; len(items) > 0 {
			groups = append(groups, Group{Category: c, Products: items})
		}
	}
	return groups
}

// Group is one category section of a listing.
type Group struct {
	Category Category
	Products []Product
}
