package api

import (
	"net/http"

	"github.com/example/storefront/internal/domain/order"
)

// Orders lists the user's orders newest first, one row per line item.
func (h *Handlers) Orders(w http.ResponseWriter, r *http.Request) {
	s := currentSession(r)
	orders, err := h.backend.UserOrders(r.Context(), s.AccessToken)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	order.SortNewestFirst(orders)

	v := h.newView(w, r, "My Orders")
	v.Data = order.Rows(orders)
	h.render(w, http.StatusOK, "orders.html", v)
}

type orderDetailData struct {
	Order    *order.Order
	Progress order.Progress
}

func (h *Handlers) OrderDetail(w http.ResponseWriter, r *http.Request) {
	s := currentSession(r)
	id, ok := pathID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}

	o, err := h.backend.GetOrder(r.Context(), s.AccessToken, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	v := h.newView(w, r, "Order Details")
	v.Data = orderDetailData{Order: o, Progress: order.Track(o.ShippingStatus)}
	h.render(w, http.StatusOK, "order.html", v)
}
