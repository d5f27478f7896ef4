package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/storefront/internal/activity"
	"github.com/example/storefront/internal/backend"
	"github.com/example/storefront/internal/dashboard"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/contact"
	"github.com/example/storefront/internal/domain/customer"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/session"
	"github.com/example/storefront/internal/validation"
	"github.com/rs/zerolog"
)

const genericFailure = "Failed to fetch data. Please try again later."

// Backend is the REST API the storefront renders.
type Backend interface {
	dashboard.Source

	ListProducts(ctx context.Context) ([]product.Product, error)
	ProductsByCategory(ctx context.Context, category product.Category) ([]product.Product, error)
	GetProduct(ctx context.Context, id int) (*product.Product, error)
	CreateProduct(ctx context.Context, token string, form product.Form, image *backend.Upload) (*product.Product, error)
	UpdateProduct(ctx context.Context, token string, form product.Form, image *backend.Upload) (*product.Product, error)
	DeleteProduct(ctx context.Context, token string, id int) error

	ViewCart(ctx context.Context, token string) ([]cart.LineItem, error)
	AddToCart(ctx context.Context, token string, productID int) error
	ApplyAdjustment(ctx context.Context, token string, adj cart.Adjustment) error

	PlaceOrder(ctx context.Context, token string) error
	UserOrders(ctx context.Context, token string) ([]order.Order, error)
	GetOrder(ctx context.Context, token string, id int) (*order.Order, error)
	UpdateOrderStatus(ctx context.Context, token string, id int, status order.Status) (*order.Order, error)

	Login(ctx context.Context, creds customer.Credentials) (*backend.Tokens, error)
	Register(ctx context.Context, reg customer.Registration) (*customer.Customer, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, uid, token, password string) error
	GetCustomer(ctx context.Context, token string) (*customer.Customer, error)
	UpdateCustomer(ctx context.Context, token string, changes map[string]string, picture *backend.Upload) (*customer.Customer, error)

	SubmitContact(ctx context.Context, msg contact.Message) error
}

// Handlers serves every storefront screen.
type Handlers struct {
	backend   Backend
	sessions  *session.Manager
	renderer  *Renderer
	publisher activity.Publisher
	debouncer *dashboard.Debouncer
	logger    zerolog.Logger
}

type HandlersConfig struct {
	Backend   Backend
	Sessions  *session.Manager
	Renderer  *Renderer
	Publisher activity.Publisher
	Debouncer *dashboard.Debouncer
	Logger    zerolog.Logger
}

func NewHandlers(cfg HandlersConfig) *Handlers {
	if cfg.Publisher == nil {
		cfg.Publisher = activity.NopPublisher{}
	}
	if cfg.Debouncer == nil {
		cfg.Debouncer = dashboard.NewDebouncer(0)
	}
	return &Handlers{
		backend:   cfg.Backend,
		sessions:  cfg.Sessions,
		renderer:  cfg.Renderer,
		publisher: cfg.Publisher,
		debouncer: cfg.Debouncer,
		logger:    cfg.Logger,
	}
}

// newView starts the template data for a page, consuming any pending flash.
func (h *Handlers) newView(w http.ResponseWriter, r *http.Request, title string) view {
	s, _ := session.FromContext(r.Context())
	return view{
		Title:   title,
		Session: s,
		Flash:   popFlash(w, r),
		Fields:  validation.FieldErrors{},
		Path:    r.URL.Path,
	}
}

func (h *Handlers) render(w http.ResponseWriter, status int, page string, v view) {
	h.renderer.Render(w, status, page, v)
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// currentSession is only called behind RequireSession or RequireAdmin.
func currentSession(r *http.Request) *session.Session {
	s, _ := session.FromContext(r.Context())
	return s
}

func (h *Handlers) publish(r *http.Request, e activity.Event) {
	h.publisher.Publish(r.Context(), e)
}

// fail handles a backend error that ends the current action:
// an unauthorized token ends the session and goes to login, a missing
// resource is a 404 page, anything else is a generic failure banner.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		return
	case errors.Is(err, backend.ErrUnauthorized):
		h.expireSession(w, r)
	case errors.Is(err, backend.ErrNotFound):
		h.NotFound(w, r)
	default:
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("backend call failed")
		v := h.newView(w, r, "Something went wrong")
		v.Error = genericFailure
		h.render(w, http.StatusBadGateway, "error.html", v)
	}
}

// expireSession drops a session the backend no longer accepts.
func (h *Handlers) expireSession(w http.ResponseWriter, r *http.Request) {
	if s, ok := session.FromContext(r.Context()); ok {
		if err := h.sessions.Clear(r.Context(), w, s); err != nil {
			h.logger.Error().Err(err).Msg("failed to clear session")
		}
		setFlash(w, "warning", "Your session has expired. Please log in again.")
	} else {
		setFlash(w, "warning", "Please log in to continue.")
	}
	redirect(w, r, "/login")
}

// formFailure reports whether err is a validation response the form can show.
// It copies field messages and any detail into v. Auth and transport errors
// are left for fail.
func formFailure(err error, v *view) bool {
	if errors.Is(err, backend.ErrUnauthorized) || errors.Is(err, backend.ErrUnavailable) || errors.Is(err, backend.ErrNotFound) {
		return false
	}
	if fields := backend.FieldErrors(err); fields != nil {
		v.Fields = fields
		v.Error = backend.Detail(err)
		if v.Error == "" {
			v.Error = "Please correct the highlighted fields."
		}
		return true
	}
	if detail := backend.Detail(err); detail != "" {
		v.Error = detail
		return true
	}
	return false
}

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	v := h.newView(w, r, "Not found")
	v.Error = "The page you are looking for does not exist."
	h.render(w, http.StatusNotFound, "error.html", v)
}

func (h *Handlers) Forbidden(w http.ResponseWriter, r *http.Request) {
	v := h.newView(w, r, "Forbidden")
	v.Error = "You do not have access to this page."
	h.render(w, http.StatusForbidden, "error.html", v)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// localPath accepts only same-site absolute paths, for post-login redirects.
func localPath(p, fallback string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return fallback
	}
	return p
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
