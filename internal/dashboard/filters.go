package dashboard

import (
	"net/url"
	"strings"
	"time"

	"github.com/example/storefront/internal/backend"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/validation"
)

const dateLayout = "2006-01-02"

// Filters are the admin dashboard's search fields.
type Filters struct {
	CustomerSearch string
	ProductSearch  string
	OrderSearch    string
	Status         order.Status
	Date           string
}

// ParseFilters reads filters from a query string. An invalid status or date
// is reported as a field error and left out of the returned filters.
func ParseFilters(q url.Values) (Filters, validation.FieldErrors) {
	errs := validation.FieldErrors{}
	f := Filters{
		CustomerSearch: strings.TrimSpace(q.Get("customer_search")),
		ProductSearch:  strings.TrimSpace(q.Get("product_search")),
		OrderSearch:    strings.TrimSpace(q.Get("order_search")),
	}

	if s := strings.TrimSpace(q.Get("status")); s != "" {
		status, err := order.ParseStatus(s)
		if err != nil {
			errs.Add("status", "Select a valid shipping status.")
		} else {
			f.Status = status
		}
	}
	if d := strings.TrimSpace(q.Get("date")); d != "" {
		if _, err := time.Parse(dateLayout, d); err != nil {
			errs.Add("date", "Enter a date as YYYY-MM-DD.")
		} else {
			f.Date = d
		}
	}
	return f, errs
}

// Query encodes f back into the query string ParseFilters reads.
func (f Filters) Query() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("customer_search", f.CustomerSearch)
	set("product_search", f.ProductSearch)
	set("order_search", f.OrderSearch)
	set("status", string(f.Status))
	set("date", f.Date)
	return q
}

func (f Filters) orderFilter() backend.OrderFilter {
	return backend.OrderFilter{Search: f.OrderSearch, Status: f.Status, CreatedAt: f.Date}
}
