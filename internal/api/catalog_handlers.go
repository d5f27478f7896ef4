package api

import (
	"net/http"
	"strconv"

	"github.com/example/storefront/internal/domain/product"
)

type homeData struct {
	Slide      []product.Product
	Carousel   product.Carousel
	Categories []product.Category
}

// Home shows the product carousel, four products per slide.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	products, err := h.backend.ListProducts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	pages := product.Pages(products, product.SlideSize)
	idx, _ := strconv.Atoi(r.URL.Query().Get("slide"))
	carousel := product.NewCarousel(idx, len(pages))

	data := homeData{Carousel: carousel, Categories: product.Categories}
	if len(pages) > 0 {
		data.Slide = pages[carousel.Index]
	}

	v := h.newView(w, r, "Home")
	v.Data = data
	h.render(w, http.StatusOK, "home.html", v)
}

// Products lists the whole catalog grouped by category.
func (h *Handlers) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.backend.ListProducts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	v := h.newView(w, r, "Products")
	v.Data = product.GroupByCategory(products)
	h.render(w, http.StatusOK, "products.html", v)
}

type categoryData struct {
	Category product.Category
	Products []product.Product
}

// Category lists one category. Categories outside the fixed set are 404s.
func (h *Handlers) Category(w http.ResponseWriter, r *http.Request) {
	c, err := product.ParseCategory(r.PathValue("category"))
	if err != nil {
		h.NotFound(w, r)
		return
	}

	products, err := h.backend.ProductsByCategory(r.Context(), c)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	v := h.newView(w, r, c.Label())
	v.Data = categoryData{Category: c, Products: products}
	h.render(w, http.StatusOK, "category.html", v)
}

func (h *Handlers) ProductDetail(w http.ResponseWriter, r *http.Request) {
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

	v := h.newView(w, r, p.Name)
	v.Data = p
	h.render(w, http.StatusOK, "product.html", v)
}
