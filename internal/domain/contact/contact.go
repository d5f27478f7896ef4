package contact

import (
	"strings"

	"github.com/example/storefront/internal/domain/customer"
	"github.com/example/storefront/internal/validation"
)

const maxNameLength = 100

// Message is a contact-us submission.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (m Message) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	switch name := strings.TrimSpace(m.Name); {
	case name == "":
		errs.Add("name", "Name is required.")
	case len(name) > maxNameLength:
		errs.Add("name", "Name must be at most 100 characters.")
	}
	if !customer.ValidEmail(strings.TrimSpace(m.Email)) {
		errs.Add("email", "Invalid email format.")
	}
	if strings.TrimSpace(m.Message) == "" {
		errs.Add("message", "Message is required.")
	}
	return errs
}
