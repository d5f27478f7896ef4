package customer

import (
	"regexp"
	"strings"

	"github.com/example/storefront/internal/validation"
)

const MinPasswordLength = 8

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]{6,}$`)
	namePattern     = regexp.MustCompile(`^[a-zA-Z ]+$`)
	emailPattern    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern    = regexp.MustCompile(`^\d{10}$`)
)

// ValidEmail applies the storefront's loose email shape check.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Registration is the sign-up form. Field names match the backend payload.
type Registration struct {
	Username        string `json:"username"`
	CustomerName    string `json:"customer_name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phone_number"`
	Address         string `json:"address"`
	City            string `json:"city"`
	State           string `json:"state"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Validate runs every client-side rule and reports all failures at once.
// A non-empty result means the form must not be submitted.
func (r Registration) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	if !usernamePattern.MatchString(r.Username) {
		errs.Add("username", "Username must be at least 6 characters long and contain only letters and digits.")
	}
	if !namePattern.MatchString(r.CustomerName) {
		errs.Add("customer_name", "Customer name must contain only letters.")
	}
	if !ValidEmail(r.Email) {
		errs.Add("email", "Invalid email format.")
	}
	if !phonePattern.MatchString(r.PhoneNumber) {
		errs.Add("phone_number", "Phone number must be 10 digits.")
	}
	checkPassword(errs, r.Password, r.ConfirmPassword)
	return errs
}

// PasswordReset is the new-password form reached from the emailed link.
type PasswordReset struct {
	Password        string
	ConfirmPassword string
}

func (p PasswordReset) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	checkPassword(errs, p.Password, p.ConfirmPassword)
	return errs
}

func checkPassword(errs validation.FieldErrors, password, confirm string) {
	if len(password) < MinPasswordLength {
		errs.Add("password", "Password must be at least 8 characters long.")
	}
	if password != confirm {
		errs.Add("confirm_password", "Passwords do not match.")
	}
}

// Credentials is the login form.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c Credentials) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	if strings.TrimSpace(c.Username) == "" {
		errs.Add("username", "Username is required.")
	}
	if c.Password == "" {
		errs.Add("password", "Password is required.")
	}
	return errs
}
