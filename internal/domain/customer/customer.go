package customer

import "time"

// Customer mirrors the backend's customer record.
type Customer struct {
	Username       string     `json:"username"`
	CustomerName   string     `json:"customer_name"`
	Email          string     `json:"email"`
	PhoneNumber    string     `json:"phone_number"`
	Address        string     `json:"address"`
	City           string     `json:"city"`
	State          string     `json:"state"`
	ProfilePicture string     `json:"profile_picture"`
	LastLogin      *time.Time `json:"last_login"`
	IsStaff        bool       `json:"is_staff"`
}

// DisplayName prefers the full name over the username.
func (c Customer) DisplayName() string {
	if c.CustomerName != "" {
		return c.CustomerName
	}
	return c.Username
}

// Location joins city and state for table cells.
func (c Customer) Location() string {
	switch {
	case c.City != "" && c.State != "":
		return c.City + ", " + c.State
	case c.City != "":
		return c.City
	default:
		return c.State
	}
}
