package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/session"
	"github.com/example/storefront/internal/validation"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

const baseTemplate = "base.html"

// view is what every page template receives. Data carries the page's own values.
type view struct {
	Title   string
	Session *session.Session
	Flash   *flash
	Error   string
	Fields  validation.FieldErrors
	Path    string
	Data    any
}

// Renderer holds one template set per page, each parsed together with the
// base layout.
type Renderer struct {
	pages  map[string]*template.Template
	logger zerolog.Logger
}

func NewRenderer(logger zerolog.Logger) (*Renderer, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template), logger: logger}
	for _, name := range names {
		page := path.Base(name)
		if page == baseTemplate {
			continue
		}
		tmpl, err := template.New(baseTemplate).Funcs(templateFuncs).
			ParseFS(templateFS, "templates/"+baseTemplate, name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// Render executes page into a buffer first so a template error never leaves
// a half-written response.
func (rd *Renderer) Render(w http.ResponseWriter, status int, page string, v view) {
	tmpl, ok := rd.pages[page]
	if !ok {
		rd.logger.Error().Str("page", page).Msg("unknown template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, baseTemplate, v); err != nil {
		rd.logger.Error().Err(err).Str("page", page).Msg("render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return "₹" + d.StringFixed(2)
	},
	"categoryLabel": func(c product.Category) string { return c.Label() },
	"statusLabel":   func(s order.Status) string { return s.Label() },
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Local().Format("02 Jan 2006, 15:04")
	},
	"fieldError": func(errs validation.FieldErrors, field string) string {
		return errs.First(field)
	},
	"hasError": func(errs validation.FieldErrors, field string) bool {
		return errs.Has(field)
	},
	"canTransition": func(from, to order.Status) bool {
		return from == to || from.CanTransitionTo(to)
	},
	"initial": func(s string) string {
		if s == "" {
			return "?"
		}
		return strings.ToUpper(s[:1])
	},
	"productFields": func(form product.Form, categories []product.Category, errs validation.FieldErrors) productFields {
		return productFields{Form: form, Categories: categories, Fields: errs}
	},
	"formField": func(name, label, value string, errs validation.FieldErrors) formField {
		return formField{Name: name, Label: label, Value: value, Fields: errs}
	},
}

// formField feeds a shared input partial.
type formField struct {
	Name   string
	Label  string
	Value  string
	Fields validation.FieldErrors
}

type productFields struct {
	Form       product.Form
	Categories []product.Category
	Fields     validation.FieldErrors
}
