package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/example/storefront/internal/domain/contact"
	"github.com/example/storefront/internal/domain/customer"
)

// Tokens is the bearer pair issued at login.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (c *Client) Login(ctx context.Context, creds customer.Credentials) (*Tokens, error) {
	var tokens Tokens
	if err := c.sendJSON(ctx, http.MethodPost, "login/", "", creds, &tokens); err != nil {
		return nil, err
	}
	if tokens.Access == "" {
		return nil, fmt.Errorf("login: %w: empty access token", ErrUnavailable)
	}
	return &tokens, nil
}

func (c *Client) Register(ctx context.Context, reg customer.Registration) (*customer.Customer, error) {
	var created customer.Customer
	if err := c.sendJSON(ctx, http.MethodPost, "register/", "", reg, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Logout invalidates the refresh token on the backend.
func (c *Client) Logout(ctx context.Context, accessToken, refreshToken string) error {
	body := map[string]string{"refresh": refreshToken}
	return c.sendJSON(ctx, http.MethodPost, "logout/", accessToken, body, nil)
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.sendJSON(ctx, http.MethodPost, "request-password-reset/", "", map[string]string{"email": email}, nil)
}

// ResetPassword confirms a new password against the uid/token pair from the emailed link.
func (c *Client) ResetPassword(ctx context.Context, uid, token, password string) error {
	path := fmt.Sprintf("reset-password/%s/%s/", url.PathEscape(uid), url.PathEscape(token))
	return c.sendJSON(ctx, http.MethodPost, path, "", map[string]string{"password": password}, nil)
}

// GetCustomer returns the record of the token's owner.
func (c *Client) GetCustomer(ctx context.Context, token string) (*customer.Customer, error) {
	var cust customer.Customer
	if err := c.getJSON(ctx, "customer/", token, nil, &cust); err != nil {
		return nil, err
	}
	return &cust, nil
}

// UpdateCustomer partially updates the token owner's record with the given
// changed fields and an optional new profile picture.
func (c *Client) UpdateCustomer(ctx context.Context, token string, changes map[string]string, picture *Upload) (*customer.Customer, error) {
	var cust customer.Customer
	if err := c.sendMultipart(ctx, http.MethodPatch, "customer/", token, changes, "profile_picture", picture, &cust); err != nil {
		return nil, err
	}
	return &cust, nil
}

// ListCustomers is the admin customer listing with a name search.
func (c *Client) ListCustomers(ctx context.Context, token, search string) ([]customer.Customer, error) {
	var customers []customer.Customer
	if err := c.getJSON(ctx, "customers/", token, url.Values{"search": {search}}, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (c *Client) SubmitContact(ctx context.Context, msg contact.Message) error {
	return c.sendJSON(ctx, http.MethodPost, "contact/", "", msg, nil)
}
