// Package dashboard loads and summarizes what the admin dashboard shows.
package dashboard

import (
	"context"
	"sort"

	"github.com/example/storefront/internal/backend"
	"github.com/example/storefront/internal/domain/customer"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/product"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Source is the part of the backend the dashboard reads.
type Source interface {
	ListCustomers(ctx context.Context, token, search string) ([]customer.Customer, error)
	SearchProducts(ctx context.Context, token, search string) ([]product.Product, error)
	ListAllOrders(ctx context.Context, token string, filter backend.OrderFilter) ([]order.Order, error)
}

// Data is one consistent load of the three admin collections.
type Data struct {
	Customers []customer.Customer `json:"customers"`
	Products  []product.Product   `json:"products"`
	Orders    []order.Order       `json:"orders"`
}

// Load fetches customers, products and orders concurrently. Any failure fails
// the whole load and cancels the other requests.
func Load(ctx context.Context, src Source, token string, f Filters) (*Data, error) {
	var data Data
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		customers, err := src.ListCustomers(ctx, token, f.CustomerSearch)
		data.Customers = customers
		return err
	})
	g.Go(func() error {
		products, err := src.SearchProducts(ctx, token, f.ProductSearch)
		data.Products = products
		return err
	})
	g.Go(func() error {
		orders, err := src.ListAllOrders(ctx, token, f.orderFilter())
		data.Orders = orders
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	order.SortNewestFirst(data.Orders)
	return &data, nil
}

type CategoryRevenue struct {
	Category product.Category `json:"category"`
	Label    string           `json:"label"`
	Revenue  decimal.Decimal  `json:"revenue"`
	Units    int              `json:"units"`
}

type StatusCount struct {
	Status  order.Status `json:"status"`
	Label   string       `json:"label"`
	Count   int          `json:"count"`
	Percent int          `json:"percent"`
}

// Summary holds the dashboard's derived figures.
type Summary struct {
	TotalCustomers    int               `json:"total_customers"`
	TotalOrders       int               `json:"total_orders"`
	TotalRevenue      decimal.Decimal   `json:"total_revenue"`
	RevenueByCategory []CategoryRevenue `json:"revenue_by_category"`
	OrdersByStatus    []StatusCount     `json:"orders_by_status"`
}

// Summarize derives the dashboard figures from a load. Revenue by category
// comes from order line items, so it reflects what was sold rather than what
// is listed. Every known category and status is present, in enum order, so
// chart series stay stable between loads; unknown values follow, sorted.
func Summarize(d *Data) Summary {
	s := Summary{TotalRevenue: decimal.Zero}
	if d == nil {
		return s
	}
	s.TotalCustomers = len(d.Customers)
	s.TotalOrders = len(d.Orders)

	revenue := make(map[product.Category]decimal.Decimal)
	units := make(map[product.Category]int)
	statuses := make(map[order.Status]int)
	for _, o := range d.Orders {
		s.TotalRevenue = s.TotalRevenue.Add(o.TotalAmount)
		statuses[o.ShippingStatus]++
		for _, item := range o.Items {
			c := item.Product.Category
			revenue[c] = revenue[c].Add(item.Subtotal())
			units[c] += item.Quantity
		}
	}

	for _, c := range categoryOrder(revenue) {
		s.RevenueByCategory = append(s.RevenueByCategory, CategoryRevenue{
			Category: c,
			Label:    c.Label(),
			Revenue:  revenue[c],
			Units:    units[c],
		})
	}
	for _, st := range statusOrder(statuses) {
		sc := StatusCount{Status: st, Label: st.Label(), Count: statuses[st]}
		if s.TotalOrders > 0 {
			sc.Percent = sc.Count * 100 / s.TotalOrders
		}
		s.OrdersByStatus = append(s.OrdersByStatus, sc)
	}
	return s
}

func categoryOrder(seen map[product.Category]decimal.Decimal) []product.Category {
	out := append([]product.Category{}, product.Categories...)
	var extra []product.Category
	for c := range seen {
		if !c.Valid() {
			extra = append(extra, c)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}

func statusOrder(seen map[order.Status]int) []order.Status {
	out := append([]order.Status{}, order.Statuses...)
	known := make(map[order.Status]bool, len(out))
	for _, s := range out {
		known[s] = true
	}
	var extra []order.Status
	for s := range seen {
		if !known[s] {
			extra = append(extra, s)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}
