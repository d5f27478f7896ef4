// Package activity streams what shoppers and admins do in the storefront.
package activity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type names a storefront action.
type Type string

const (
	UserLoggedIn       Type = "user.logged_in"
	UserLoggedOut      Type = "user.logged_out"
	UserRegistered     Type = "user.registered"
	ProfileUpdated     Type = "user.profile_updated"
	PasswordResetAsked Type = "user.password_reset_requested"
	PasswordResetDone  Type = "user.password_reset"
	CartItemAdded      Type = "cart.item_added"
	CartItemUpdated    Type = "cart.item_updated"
	CartItemRemoved    Type = "cart.item_removed"
	OrderPlaced        Type = "order.placed"
	OrderStatusUpdated Type = "order.status_updated"
	ProductCreated     Type = "product.created"
	ProductUpdated     Type = "product.updated"
	ProductDeleted     Type = "product.deleted"
	ContactSubmitted   Type = "contact.submitted"
)

// Event is one published action.
type Event struct {
	ID       string            `json:"id"`
	Type     Type              `json:"type"`
	Username string            `json:"username,omitempty"`
	Subject  string            `json:"subject,omitempty"`
	Data     map[string]string `json:"data,omitempty"`
	At       time.Time         `json:"at"`
}

// New stamps an event with an id and the current time.
func New(typ Type, username, subject string) Event {
	return Event{
		ID:       uuid.NewString(),
		Type:     typ,
		Username: username,
		Subject:  subject,
		At:       time.Now().UTC(),
	}
}

// With returns e with one more data field.
func (e Event) With(key, value string) Event {
	data := make(map[string]string, len(e.Data)+1)
	for k, v := range e.Data {
		data[k] = v
	}
	data[key] = value
	e.Data = data
	return e
}

// Key is the partition key: the username, or the event type for anonymous actions.
func (e Event) Key() string {
	if e.Username != "" {
		return e.Username
	}
	return string(e.Type)
}

func Decode(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

// Publisher records events. Implementations must not block the caller for long.
type Publisher interface {
	Publish(ctx context.Context, e Event)
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}
func (NopPublisher) Close() error                   { return nil }
