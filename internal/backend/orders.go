package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/example/storefront/internal/domain/order"
)

// PlaceOrder turns the current cart into an order. The request has no body;
// the backend builds the order from the cart it holds.
func (c *Client) PlaceOrder(ctx context.Context, token string) error {
	return c.sendJSON(ctx, http.MethodPost, "place-order/", token, struct{}{}, nil)
}

func (c *Client) UserOrders(ctx context.Context, token string) ([]order.Order, error) {
	var orders []order.Order
	if err := c.getJSON(ctx, "user-orders/", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, token string, id int) (*order.Order, error) {
	var o order.Order
	if err := c.getJSON(ctx, fmt.Sprintf("order/%d/", id), token, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// OrderFilter narrows the admin order listing. Empty fields are sent empty,
// which the backend treats as "no filter".
type OrderFilter struct {
	Search    string
	Status    order.Status
	CreatedAt string
}

func (f OrderFilter) query() url.Values {
	return url.Values{
		"search":          {f.Search},
		"shipping_status": {string(f.Status)},
		"created_at":      {f.CreatedAt},
	}
}

func (c *Client) ListAllOrders(ctx context.Context, token string, filter OrderFilter) ([]order.Order, error) {
	var orders []order.Order
	if err := c.getJSON(ctx, "all-orders/", token, filter.query(), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus replaces the order's shipping status.
func (c *Client) UpdateOrderStatus(ctx context.Context, token string, id int, status order.Status) (*order.Order, error) {
	var o order.Order
	body := map[string]order.Status{"shipping_status": status}
	if err := c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("order/%d/", id), token, body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}
