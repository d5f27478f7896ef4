package product

import (
	"errors"
	"strings"

	"github.com/example/storefront/internal/validation"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPrice = errors.New("price must be a non-negative number")
	ErrInvalidName  = errors.New("name is required")
)

// Form is the admin create/edit payload. Image is supplied separately as a file part.
type Form struct {
	ID          int
	Name        string
	Description string
	Price       string
	Category    string
}

// FormFor pre-fills an edit form from an existing product.
func FormFor(p Product) Form {
	return Form{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
		Category:    string(p.Category),
	}
}

// Editing reports whether the form targets an existing product.
func (f Form) Editing() bool { return f.ID > 0 }

// Validate checks the fields locally. Name is only mandatory on create; an edit
// sends just the fields that are filled in.
func (f Form) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	if !f.Editing() && strings.TrimSpace(f.Name) == "" {
		errs.Add("name", ErrInvalidName.Error())
	}
	if p := strings.TrimSpace(f.Price); p != "" {
		d, err := decimal.NewFromString(p)
		if err != nil || d.IsNegative() {
			errs.Add("price", ErrInvalidPrice.Error())
		}
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		if _, err := ParseCategory(c); err != nil {
			errs.Add("category", "Select a valid category.")
		}
	}
	return errs
}

// Fields returns the non-empty multipart fields to submit.
func (f Form) Fields() map[string]string {
	out := make(map[string]string)
	set := func(k, v string) {
		if v = strings.TrimSpace(v); v != "" {
			out[k] = v
		}
	}
	set("name", f.Name)
	set("description", f.Description)
	set("price", f.Price)
	if c, err := ParseCategory(f.Category); err == nil {
		out["category"] = string(c)
	}
	return out
}
