package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/storefront/internal/activity"
	"github.com/example/storefront/internal/backend"
	"github.com/example/storefront/internal/dashboard"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/product"
)

type adminData struct {
	Filters    dashboard.Filters
	Data       *dashboard.Data
	Summary    dashboard.Summary
	OrderRows  []order.Row
	Statuses   []order.Status
	Categories []product.Category
	Form       product.Form
}

// Dashboard renders the admin page for the filters in the query string.
// Invalid filters are flagged and left out of the backend queries.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	s := currentSession(r)
	filters, errs := dashboard.ParseFilters(r.URL.Query())

	data, err := dashboard.Load(r.Context(), h.backend, s.AccessToken, filters)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	v := h.newView(w, r, "Admin Dashboard")
	v.Fields = errs
	v.Data = h.adminData(filters, data, product.Form{})
	h.render(w, http.StatusOK, "admin.html", v)
}

func (h *Handlers) adminData(filters dashboard.Filters, data *dashboard.Data, form product.Form) adminData {
	return adminData{
		Filters:    filters,
		Data:       data,
		Summary:    dashboard.Summarize(data),
		OrderRows:  order.Rows(data.Orders),
		Statuses:   order.Statuses,
		Categories: product.Categories,
		Form:       form,
	}
}

type dashboardPayload struct {
	Filters map[string]string `json:"filters"`
	Data    *dashboard.Data   `json:"data"`
	Summary dashboard.Summary `json:"summary"`
}

// DashboardData is the live-search endpoint behind the dashboard's filter
// fields. Calls are debounced per session and browser tab (the page sends a
// random "tab" id): while the admin keeps typing, the superseded requests
// answer 204 without touching the backend, and only the last one loads.
func (h *Handlers) DashboardData(w http.ResponseWriter, r *http.Request) {
	s := currentSession(r)
	filters, errs := dashboard.ParseFilters(r.URL.Query())
	if !errs.Empty() {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid filters", "fields": errs})
		return
	}

	var payload dashboardPayload
	err := h.debouncer.Do(r.Context(), debounceKey(s.ID, r.URL.Query().Get("tab")), func(ctx context.Context) error {
		data, err := dashboard.Load(ctx, h.backend, s.AccessToken, filters)
		if err != nil {
			return err
		}
		payload = dashboardPayload{
			Filters: flatten(filters.Query()),
			Data:    data,
			Summary: dashboard.Summarize(data),
		}
		return nil
	})

	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, payload)
	case errors.Is(err, dashboard.ErrSuperseded):
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, context.Canceled):
	case errors.Is(err, backend.ErrUnauthorized):
		respondJSONError(w, http.StatusUnauthorized, "session expired")
	default:
		h.logger.Error().Err(err).Msg("dashboard load failed")
		respondJSONError(w, http.StatusBadGateway, genericFailure)
	}
}

const maxTabIDLength = 64

// debounceKey scopes debouncing to one dashboard tab of a session.
func debounceKey(sessionID, tab string) string {
	if len(tab) > maxTabIDLength {
		tab = tab[:maxTabIDLength]
	}
	return sessionID + "|" + tab
}

func flatten(q map[string][]string) map[string]string {
	out := make(map[string]string, len(q))
	for k, v := range q {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func productForm(r *http.Request, id int) product.Form {
	return product.Form{
		ID:          id,
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       r.FormValue("price"),
		Category:    r.FormValue("category"),
	}
}

// CreateProduct adds a product from the dashboard's form.
func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, 0)
}

func (h *Handlers) EditProductForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}
	p, err := h.backend.GetProduct(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	v := h.newView(w, r, "Edit Product")
	v.Data = productFormData{Form: product.FormFor(*p), Image: p.Image, Categories: product.Categories}
	h.render(w, http.StatusOK, "product_form.html", v)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}
	h.saveProduct(w, r, id)
}

type productFormData struct {
	Form       product.Form
	Image      string
	Categories []product.Category
}

// saveProduct creates (id == 0) or partially updates a product, then goes
// back to the dashboard, which reloads every collection.
func (h *Handlers) saveProduct(w http.ResponseWriter, r *http.Request, id int) {
	s := currentSession(r)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := productForm(r, id)

	title := "Add Product"
	if form.Editing() {
		title = "Edit Product"
	}
	v := h.newView(w, r, title)
	v.Data = productFormData{Form: form, Categories: product.Categories}

	if errs := form.Validate(); !errs.Empty() {
		v.Fields = errs
		h.render(w, http.StatusUnprocessableEntity, "product_form.html", v)
		return
	}

	image, closeFile, err := formUpload(r, "image")
	if err != nil {
		http.Error(w, "invalid upload", http.StatusBadRequest)
		return
	}
	defer closeFile()

	var saved *product.Product
	if form.Editing() {
		saved, err = h.backend.UpdateProduct(r.Context(), s.AccessToken, form, image)
	} else {
		saved, err = h.backend.CreateProduct(r.Context(), s.AccessToken, form, image)
	}
	if err != nil {
		if formFailure(err, &v) {
			h.render(w, http.StatusUnprocessableEntity, "product_form.html", v)
			return
		}
		h.fail(w, r, err)
		return
	}

	typ, msg := activity.ProductCreated, "Product created successfully!"
	if form.Editing() {
		typ, msg = activity.ProductUpdated, "Product updated successfully!"
	}
	h.publish(r, activity.New(typ, s.Username, strconv.Itoa(saved.ID)).With("name", saved.Name))

	setFlash(w, "success", msg)
	redirect(w, r, "/admin")
}

// DeleteProductConfirm asks before deleting.
func (h *Handlers) DeleteProductConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}
	p, err := h.backend.GetProduct(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	v := h.newView(w, r, "Delete Product")
	v.Data = p
	h.render(w, http.StatusOK, "product_delete.html", v)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	s := currentSession(r)
	id, ok := pathID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}
	if r.FormValue("confirm") != "yes" {
		redirect(w, r, "/admin/products/"+strconv.Itoa(id)+"/delete")
		return
	}

	if err := h.backend.DeleteProduct(r.Context(), s.AccessToken, id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.publish(r, activity.New(activity.ProductDeleted, s.Username, strconv.Itoa(id)))

	setFlash(w, "success", "Product deleted successfully!")
	redirect(w, r, "/admin")
}

type orderStatusData struct {
	Order    *order.Order
	Statuses []order.Status
	Selected order.Status
}

// OrderStatusForm opens the status editor pre-filled with the current status.
func (h *Handlers) OrderStatusForm(w http.ResponseWriter, r *http.Request) {
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

	v := h.newView(w, r, "Update Order Status")
	v.Data = orderStatusData{Order: o, Statuses: order.Statuses, Selected: o.ShippingStatus}
	h.render(w, http.StatusOK, "order_status.html", v)
}

func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	s := currentSession(r)
	id, ok := pathID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}

	status, err := order.ParseStatus(r.FormValue("shipping_status"))
	if err != nil {
		o, getErr := h.backend.GetOrder(r.Context(), s.AccessToken, id)
		if getErr != nil {
			h.fail(w, r, getErr)
			return
		}
		v := h.newView(w, r, "Update Order Status")
		v.Fields.Add("shipping_status", "Select a valid shipping status.")
		v.Data = orderStatusData{Order: o, Statuses: order.Statuses, Selected: o.ShippingStatus}
		h.render(w, http.StatusUnprocessableEntity, "order_status.html", v)
		return
	}

	if _, err := h.backend.UpdateOrderStatus(r.Context(), s.AccessToken, id, status); err != nil {
		v := view{}
		if formFailure(err, &v) {
			setFlash(w, "danger", strings.TrimSpace(v.Error))
			redirect(w, r, "/admin/orders/"+strconv.Itoa(id)+"/status")
			return
		}
		h.fail(w, r, err)
		return
	}
	h.publish(r, activity.New(activity.OrderStatusUpdated, s.Username, strconv.Itoa(id)).With("status", string(status)))

	setFlash(w, "success", "Order status updated successfully!")
	redirect(w, r, "/admin")
}
