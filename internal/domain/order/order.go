package order

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/storefront/internal/domain/product"
	"github.com/shopspring/decimal"
)

// Status is an order's shipping status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var ErrUnknownStatus = errors.New("unknown shipping status")

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusShipped, StatusDelivered, StatusCancelled}

// validTransitions mirrors the lifecycle the backend enforces. The storefront
// never blocks a submission on it; it only uses it to annotate choices.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := validTransitions[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

// Label is the capitalized display name.
func (s Status) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Terminal reports whether no further transition exists.
func (s Status) Terminal() bool {
	next, ok := validTransitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo checks the lifecycle edge from s to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range validTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Item is one product line of a placed order. Price is the unit price.
type Item struct {
	Product     product.Product `json:"product"`
	Quantity    int             `json:"quantity"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
}

func (i Item) Name() string {
	if i.ProductName != "" {
		return i.ProductName
	}
	return i.Product.Name
}

func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order mirrors the backend order resource.
type Order struct {
	ID             int             `json:"id"`
	User           string          `json:"user"`
	Items          []Item          `json:"items"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CreatedAt      time.Time       `json:"created_at"`
	ShippingStatus Status          `json:"shipping_status"`
}

// SortNewestFirst orders by creation time, most recent first. Ties keep
// backend order.
func SortNewestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

// Row is one rendered line of the order history table. Order-level cells
// are emitted on the first row of each order only, spanning Span rows.
type Row struct {
	Order *Order
	Item  Item
	First bool
	Span  int
}

// Rows flattens orders into one row per line item. An order without items
// still gets a single row so it stays visible.
func Rows(orders []Order) []Row {
	var rows []Row
	for i := range orders {
		o := &orders[i]
		if len(o.Items) == 0 {
			rows = append(rows, Row{Order: o, First: true, Span: 1})
			continue
		}
		for j, it := range o.Items {
			rows = append(rows, Row{Order: o, Item: it, First: j == 0, Span: len(o.Items)})
		}
	}
	return rows
}
