package customer

import "strings"

// ProfileEdit holds the editable profile fields as submitted.
// Username and email are not editable from the storefront.
type ProfileEdit struct {
	CustomerName string
	PhoneNumber  string
	Address      string
	City         string
	State        string
}

// EditFor pre-fills the edit form.
func EditFor(c Customer) ProfileEdit {
	return ProfileEdit{
		CustomerName: c.CustomerName,
		PhoneNumber:  c.PhoneNumber,
		Address:      c.Address,
		City:         c.City,
		State:        c.State,
	}
}

// Changes returns only the fields that differ from the original record,
// keyed by backend field name. An empty map means nothing to send.
func (e ProfileEdit) Changes(original Customer) map[string]string {
	changes := make(map[string]string)
	diff := func(field, edited, current string) {
		edited = strings.TrimSpace(edited)
		if edited != current {
			changes[field] = edited
		}
	}
	diff("customer_name", e.CustomerName, original.CustomerName)
	diff("phone_number", e.PhoneNumber, original.PhoneNumber)
	diff("address", e.Address, original.Address)
	diff("city", e.City, original.City)
	diff("state", e.State, original.State)
	return changes
}
