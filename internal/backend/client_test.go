package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/customer"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL + "/api")
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ============================================
// Construction
// ============================================

func TestNew_RejectsNonHTTPScheme(t *testing.T) {
	_, err := New("ftp://example.com/api/")
	assert.Error(t, err)
}

func TestNew_AddsTrailingSlash(t *testing.T) {
	c, err := New("http://127.0.0.1:8000/api")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000/api/getProducts/", c.endpoint("getProducts/", nil))
}

// ============================================
// Catalog
// ============================================

func TestListProducts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/getProducts/", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "name": "MacBook Air", "price": 99900, "category": "macbook", "image": "/media/a.png"},
			{"id": 2, "name": "iPhone 15", "price": 69800, "category": "iphone"},
		})
	})

	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "MacBook Air", products[0].Name)
	assert.Equal(t, product.Category("macbook"), products[0].Category)
	assert.Equal(t, "69800", products[1].Price.String())
}

func TestProductsByCategory_SendsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ipad", r.URL.Query().Get("category"))
		writeJSON(w, http.StatusOK, []any{})
	})

	products, err := c.ProductsByCategory(context.Background(), product.Category("ipad"))
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestGetProduct_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Product not found"})
	})

	_, err := c.GetProduct(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Product not found", Detail(err))
}

func TestSearchProducts_BearerAndSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "air pods", r.URL.Query().Get("search"))
		writeJSON(w, http.StatusOK, []any{})
	})

	_, err := c.SearchProducts(context.Background(), "tok", "air pods")
	require.NoError(t, err)
}

func TestCreateProduct_Multipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Watch Ultra", r.FormValue("name"))
		assert.Equal(t, "watch", r.FormValue("category"))
		_, hasDesc := r.MultipartForm.Value["description"]
		assert.False(t, hasDesc, "empty fields are not sent")

		f, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "watch.png", hdr.Filename)
		assert.Equal(t, "PNG", string(data))

		writeJSON(w, http.StatusCreated, map[string]any{"id": 9, "name": "Watch Ultra", "price": "89900", "category": "watch"})
	})

	form := product.Form{Name: "Watch Ultra", Price: "89900", Category: "Watch"}
	p, err := c.CreateProduct(context.Background(), "tok", form, &Upload{Filename: "watch.png", Content: strings.NewReader("PNG")})
	require.NoError(t, err)
	assert.Equal(t, 9, p.ID)
}

func TestUpdateProduct_RequiresID(t *testing.T) {
	c, err := New("http://127.0.0.1:1/api/")
	require.NoError(t, err)

	_, err = c.UpdateProduct(context.Background(), "tok", product.Form{Name: "x"}, nil)
	assert.Error(t, err)
}

func TestDeleteProduct_NoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/products/3/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, c.DeleteProduct(context.Background(), "tok", 3))
}

// ============================================
// Cart
// ============================================

func TestViewCart_MissingCartIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Cart does not exist"})
	})

	items, err := c.ViewCart(context.Background(), "tok")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestViewCart_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
	})

	_, err := c.ViewCart(context.Background(), "expired")
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestAddToCart_Body(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]int{"product_id": 7}, body)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		writeJSON(w, http.StatusOK, map[string]string{"message": "Product added to cart"})
	})

	assert.NoError(t, c.AddToCart(context.Background(), "tok", 7))
}

func TestApplyAdjustment(t *testing.T) {
	var calls []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPut {
			var body map[string]int
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, 3, body["quantity"])
		}
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.ApplyAdjustment(context.Background(), "tok", cart.Adjustment{ItemID: 5, Quantity: 3}))
	require.NoError(t, c.ApplyAdjustment(context.Background(), "tok", cart.Adjustment{ItemID: 5, Remove: true}))
	assert.Equal(t, []string{"PUT /api/cart-item/5/", "DELETE /api/cart-item/5/"}, calls)
}

// ============================================
// Orders
// ============================================

func TestUserOrders_Decodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user-orders/", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":4,"user":"alice01","total_amount":"139600.00","created_at":"2024-05-01T10:00:00.123456Z","shipping_status":"shipped",
			"items":[{"product":{"id":2,"name":"iPhone 15","price":69800,"category":"iphone"},"quantity":2,"product_name":"iPhone 15","price":"69800.00"}]}]`)
	})

	orders, err := c.UserOrders(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	o := orders[0]
	assert.Equal(t, order.Status("shipped"), o.ShippingStatus)
	assert.Equal(t, "139600", o.TotalAmount.String())
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC), o.CreatedAt.UTC())
	require.Len(t, o.Items, 1)
	assert.Equal(t, 2, o.Items[0].Quantity)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Your cart is empty. Cannot place an order."})
	})

	err := c.PlaceOrder(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, "Your cart is empty. Cannot place an order.", Detail(err))
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestListAllOrders_Filters(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "alice", q.Get("search"))
		assert.Equal(t, "pending", q.Get("shipping_status"))
		assert.Equal(t, "2024-05-01", q.Get("created_at"))
		writeJSON(w, http.StatusOK, []any{})
	})

	_, err := c.ListAllOrders(context.Background(), "tok", OrderFilter{Search: "alice", Status: order.Status("pending"), CreatedAt: "2024-05-01"})
	require.NoError(t, err)
}

func TestUpdateOrderStatus_Body(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "delivered", body["shipping_status"])
		writeJSON(w, http.StatusOK, map[string]any{"id": 4, "shipping_status": "delivered"})
	})

	o, err := c.UpdateOrderStatus(context.Background(), "tok", 4, order.Status("delivered"))
	require.NoError(t, err)
	assert.Equal(t, order.Status("delivered"), o.ShippingStatus)
}

// ============================================
// Account
// ============================================

func TestLogin_ReturnsTokens(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var creds customer.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "alice01", creds.Username)
		writeJSON(w, http.StatusOK, map[string]string{"access": "a.b.c", "refresh": "d.e.f"})
	})

	tokens, err := c.Login(context.Background(), customer.Credentials{Username: "alice01", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", tokens.Access)
	assert.Equal(t, "d.e.f", tokens.Refresh)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
	})

	_, err := c.Login(context.Background(), customer.Credentials{Username: "alice01", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "Invalid credentials", Detail(err))
}

func TestRegister_FieldErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"username": []string{"customer with this username already exists."},
			"email":    "Enter a valid email address.",
		})
	})

	_, err := c.Register(context.Background(), customer.Registration{Username: "alice01"})
	require.Error(t, err)
	fields := FieldErrors(err)
	require.NotNil(t, fields)
	assert.Equal(t, "customer with this username already exists.", fields.First("username"))
	assert.Equal(t, "Enter a valid email address.", fields.First("email"))
}

func TestLogout_SendsRefresh(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "d.e.f", body["refresh"])
		assert.Equal(t, "Bearer a.b.c", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusResetContent)
	})

	assert.NoError(t, c.Logout(context.Background(), "a.b.c", "d.e.f"))
}

func TestResetPassword_EscapesPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/reset-password/MQ/abc-123/", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Password has been reset."})
	})

	assert.NoError(t, c.ResetPassword(context.Background(), "MQ", "abc-123", "newpassword"))
}

func TestUpdateCustomer_OnlyChangedFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, map[string][]string{"city": {"Pune"}}, r.MultipartForm.Value)
		assert.Empty(t, r.MultipartForm.File)
		writeJSON(w, http.StatusOK, map[string]any{"username": "alice01", "city": "Pune"})
	})

	cust, err := c.UpdateCustomer(context.Background(), "tok", map[string]string{"city": "Pune"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Pune", cust.City)
}

func TestUpdateCustomer_ClearedFieldIsSent(t *testing.T) {
	original := customer.Customer{Username: "alice01", Address: "12 MG Road", City: "Pune"}
	edit := customer.EditFor(original)
	edit.Address = ""
	changes := edit.Changes(original)
	require.Equal(t, map[string]string{"address": ""}, changes)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, map[string][]string{"address": {""}}, r.MultipartForm.Value)
		writeJSON(w, http.StatusOK, map[string]any{"username": "alice01", "address": "", "city": "Pune"})
	})

	cust, err := c.UpdateCustomer(context.Background(), "tok", changes, nil)
	require.NoError(t, err)
	assert.Empty(t, cust.Address)
}

// ============================================
// Transport behaviour
// ============================================

func TestServerError_IsUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})

	_, err := c.ListProducts(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Empty(t, Detail(err))
}

func TestCanceledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListProducts(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestConnectionRefused_IsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url + "/api/")
	require.NoError(t, err)
	_, err = c.ListProducts(context.Background())
	assert.True(t, errors.Is(err, ErrUnavailable))
}
