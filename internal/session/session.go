// Package session keeps the bearer tokens of a signed-in shopper on the
// server, behind an opaque cookie.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Session is the server-side state of one browser.
type Session struct {
	ID              string
	Username        string
	UserID          string
	AccessToken     string
	RefreshToken    string
	IsAdmin         bool
	AccessExpiresAt time.Time
	CreatedAt       time.Time
	ExpiresAt       time.Time
}

// Authenticated reports whether the session holds an access token that has
// not expired. A token whose expiry is unknown is trusted until the backend
// rejects it.
func (s *Session) Authenticated(now time.Time) bool {
	if s == nil || s.AccessToken == "" {
		return false
	}
	return s.AccessExpiresAt.IsZero() || now.Before(s.AccessExpiresAt)
}

// Expired reports whether the session itself has outlived its TTL.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store persists sessions by id.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// hashID is the storage key for a session id, so a leaked table or keyspace
// does not hand out live cookies.
func hashID(id string) string {
	hash := sha256.Sum256([]byte(id))
	return hex.EncodeToString(hash[:])
}

type ctxKey struct{}

// WithSession attaches s to ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached by WithSession, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
