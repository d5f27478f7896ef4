package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/example/storefront/internal/activity"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/shopspring/decimal"
)

type cartData struct {
	Items []cart.LineItem
	Count int
	Total decimal.Decimal
}

// Cart shows the signed-in user's cart with its display total.
func (h *Handlers) Cart(w http.ResponseWriter, r *http.Request) {
	s := currentSession(r)
	items, err := h.backend.ViewCart(r.Context(), s.AccessToken)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	v := h.newView(w, r, "Your Cart")
	v.Data = cartData{
		Items: items,
		Count: cart.Count(items),
		Total: cart.Total(items),
	}
	h.render(w, http.StatusOK, "cart.html", v)
}

// AddToCart adds one unit of a product and returns to the page it came from.
func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	s := currentSession(r)
	productID, err := strconv.Atoi(r.FormValue("product_id"))
	if err != nil || productID <= 0 {
		http.Error(w, "invalid product", http.StatusBadRequest)
		return
	}

	if err := h.backend.AddToCart(r.Context(), s.AccessToken, productID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.publish(r, activity.New(activity.CartItemAdded, s.Username, strconv.Itoa(productID)))

	setFlash(w, "success", "Product added to cart")
	redirect(w, r, localPath(returnPath(r), "/cart"))
}

// returnPath is the form's "next" field, or the path of a same-host referer.
func returnPath(r *http.Request) string {
	if next := r.FormValue("next"); next != "" {
		return next
	}
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Host != r.Host {
		return ""
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

// UpdateCartItem sets a line's quantity; a quantity below one removes it.
func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	s := currentSession(r)
	itemID, ok := pathID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}
	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		setFlash(w, "danger", "Quantity must be a whole number.")
		redirect(w, r, "/cart")
		return
	}

	h.adjustCart(w, r, itemID, quantity, s.AccessToken, s.Username)
}

func (h *Handlers) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	s := currentSession(r)
	itemID, ok := pathID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}
	h.adjustCart(w, r, itemID, 0, s.AccessToken, s.Username)
}

func (h *Handlers) adjustCart(w http.ResponseWriter, r *http.Request, itemID, quantity int, token, username string) {
	adj, err := cart.Adjust(itemID, quantity)
	if err != nil {
		h.NotFound(w, r)
		return
	}
	if err := h.backend.ApplyAdjustment(r.Context(), token, adj); err != nil {
		h.fail(w, r, err)
		return
	}

	e := activity.New(activity.CartItemUpdated, username, strconv.Itoa(itemID)).With("quantity", strconv.Itoa(adj.Quantity))
	if adj.Remove {
		e = activity.New(activity.CartItemRemoved, username, strconv.Itoa(itemID))
	}
	h.publish(r, e)
	redirect(w, r, "/cart")
}

// PlaceOrder checks out the current cart and shows the order history.
func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	s := currentSession(r)
	if err := h.backend.PlaceOrder(r.Context(), s.AccessToken); err != nil {
		v := view{}
		if formFailure(err, &v) {
			setFlash(w, "danger", v.Error)
			redirect(w, r, "/cart")
			return
		}
		h.fail(w, r, err)
		return
	}
	h.publish(r, activity.New(activity.OrderPlaced, s.Username, ""))

	setFlash(w, "success", "Order placed successfully!")
	redirect(w, r, "/orders")
}
