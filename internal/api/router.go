package api

import (
	"net/http"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/session"
	"github.com/rs/zerolog"
)

type RouterConfig struct {
	Handlers    *Handlers
	Sessions    *session.Manager
	AuthLimiter *middleware.RateLimiter
	Logger      zerolog.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	h := cfg.Handlers
	mux := http.NewServeMux()

	authed := middleware.RequireSession
	admin := middleware.RequireAdmin(http.HandlerFunc(h.Forbidden))
	limited := func(next http.Handler) http.Handler { return next }
	if cfg.AuthLimiter != nil {
		limited = middleware.RateLimit(cfg.AuthLimiter)
	}

	// Catalog
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /home", h.Home)
	mux.HandleFunc("GET /products", h.Products)
	mux.HandleFunc("GET /category/{category}", h.Category)
	mux.HandleFunc("GET /product/{id}", h.ProductDetail)

	// Cart
	mux.Handle("POST /cart/add", authed(http.HandlerFunc(h.AddToCart)))
	mux.Handle("GET /cart", authed(http.HandlerFunc(h.Cart)))
	mux.Handle("POST /cart/items/{id}", authed(http.HandlerFunc(h.UpdateCartItem)))
	mux.Handle("POST /cart/items/{id}/remove", authed(http.HandlerFunc(h.RemoveCartItem)))
	mux.Handle("POST /place-order", authed(http.HandlerFunc(h.PlaceOrder)))

	// Orders
	mux.Handle("GET /orders", authed(http.HandlerFunc(h.Orders)))
	mux.Handle("GET /order/{id}", authed(http.HandlerFunc(h.OrderDetail)))

	// Auth
	mux.HandleFunc("GET /login", h.LoginForm)
	mux.Handle("POST /login", limited(http.HandlerFunc(h.Login)))
	mux.HandleFunc("GET /register", h.RegisterForm)
	mux.Handle("POST /register", limited(http.HandlerFunc(h.Register)))
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("GET /forgot-password", h.ForgotPasswordForm)
	mux.Handle("POST /forgot-password", limited(http.HandlerFunc(h.ForgotPassword)))
	mux.HandleFunc("GET /reset-password/{uid}/{token}", h.ResetPasswordForm)
	mux.Handle("POST /reset-password/{uid}/{token}", limited(http.HandlerFunc(h.ResetPassword)))
	mux.HandleFunc("GET /reset-password/{uid}/{token}/{$}", h.ResetPasswordForm)
	mux.Handle("POST /reset-password/{uid}/{token}/{$}", limited(http.HandlerFunc(h.ResetPassword)))

	// Profile and contact
	mux.Handle("GET /profile", authed(http.HandlerFunc(h.Profile)))
	mux.Handle("POST /profile", authed(http.HandlerFunc(h.UpdateProfile)))
	mux.HandleFunc("GET /contact", h.ContactForm)
	mux.Handle("POST /contact", limited(http.HandlerFunc(h.Contact)))

	// Admin
	mux.Handle("GET /admin", admin(http.HandlerFunc(h.Dashboard)))
	mux.Handle("GET /admin/data", admin(http.HandlerFunc(h.DashboardData)))
	mux.Handle("POST /admin/products", admin(http.HandlerFunc(h.CreateProduct)))
	mux.Handle("GET /admin/products/{id}", admin(http.HandlerFunc(h.EditProductForm)))
	mux.Handle("POST /admin/products/{id}", admin(http.HandlerFunc(h.UpdateProduct)))
	mux.Handle("GET /admin/products/{id}/delete", admin(http.HandlerFunc(h.DeleteProductConfirm)))
	mux.Handle("POST /admin/products/{id}/delete", admin(http.HandlerFunc(h.DeleteProduct)))
	mux.Handle("GET /admin/orders/{id}/status", admin(http.HandlerFunc(h.OrderStatusForm)))
	mux.Handle("POST /admin/orders/{id}/status", admin(http.HandlerFunc(h.UpdateOrderStatus)))

	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("/", h.NotFound)

	var handler http.Handler = mux
	handler = middleware.LoadSession(cfg.Sessions, cfg.Logger)(handler)
	handler = middleware.RequestLogger(cfg.Logger)(handler)
	handler = middleware.Recover(cfg.Logger)(handler)
	return handler
}
