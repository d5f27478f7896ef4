package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/example/storefront/internal/domain/cart"
)

// ViewCart returns the session user's cart lines. A user who never added
// anything has no cart on the backend (404); that is an empty cart.
func (c *Client) ViewCart(ctx context.Context, token string) ([]cart.LineItem, error) {
	var items []cart.LineItem
	if err := c.getJSON(ctx, "view-cart/", token, nil, &items); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return []cart.LineItem{}, nil
		}
		return nil, err
	}
	return items, nil
}

func (c *Client) AddToCart(ctx context.Context, token string, productID int) error {
	body := map[string]int{"product_id": productID}
	return c.sendJSON(ctx, http.MethodPost, "add-to-cart/", token, body, nil)
}

func (c *Client) UpdateCartItem(ctx context.Context, token string, itemID, quantity int) error {
	body := map[string]int{"quantity": quantity}
	return c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("cart-item/%d/", itemID), token, body, nil)
}

func (c *Client) RemoveCartItem(ctx context.Context, token string, itemID int) error {
	return c.sendJSON(ctx, http.MethodDelete, fmt.Sprintf("cart-item/%d/", itemID), token, nil, nil)
}

// ApplyAdjustment performs the update or removal an Adjustment describes.
func (c *Client) ApplyAdjustment(ctx context.Context, token string, adj cart.Adjustment) error {
	if adj.Remove {
		return c.RemoveCartItem(ctx, token, adj.ItemID)
	}
	return c.UpdateCartItem(ctx, token, adj.ItemID, adj.Quantity)
}
