package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/example/storefront/internal/domain/product"
)

// ListProducts returns the public catalog.
func (c *Client) ListProducts(ctx context.Context) ([]product.Product, error) {
	var products []product.Product
	if err := c.getJSON(ctx, "getProducts/", "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ProductsByCategory returns the public catalog filtered to one category.
func (c *Client) ProductsByCategory(ctx context.Context, category product.Category) ([]product.Product, error) {
	var products []product.Product
	query := url.Values{"category": {string(category)}}
	if err := c.getJSON(ctx, "getProducts/", "", query, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches one product. A missing product yields ErrNotFound.
func (c *Client) GetProduct(ctx context.Context, id int) (*product.Product, error) {
	var p product.Product
	if err := c.getJSON(ctx, fmt.Sprintf("product/%d/", id), "", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SearchProducts is the admin product listing with a name search.
func (c *Client) SearchProducts(ctx context.Context, token, search string) ([]product.Product, error) {
	var products []product.Product
	if err := c.getJSON(ctx, "products/", token, url.Values{"search": {search}}, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct submits a new product as multipart, with an optional image.
func (c *Client) CreateProduct(ctx context.Context, token string, form product.Form, image *Upload) (*product.Product, error) {
	var p product.Product
	if err := c.sendMultipart(ctx, http.MethodPost, "products/", token, form.Fields(), "image", image, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct partially updates an existing product.
func (c *Client) UpdateProduct(ctx context.Context, token string, form product.Form, image *Upload) (*product.Product, error) {
	if !form.Editing() {
		return nil, errors.New("update product: missing id")
	}
	var p product.Product
	path := fmt.Sprintf("products/%d/", form.ID)
	if err := c.sendMultipart(ctx, http.MethodPatch, path, token, form.Fields(), "image", image, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, token string, id int) error {
	return c.sendJSON(ctx, http.MethodDelete, fmt.Sprintf("products/%d/", id), token, nil, nil)
}
