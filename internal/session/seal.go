package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

var ErrUnseal = errors.New("cannot unseal token")

// Sealer encrypts bearer tokens before they reach a persistent store.
type Sealer struct {
	key [32]byte
}

// NewSealer derives the box key from secret.
func NewSealer(secret string) *Sealer {
	return &Sealer{key: sha256.Sum256([]byte(secret))}
}

// Seal returns the encrypted token, base64 encoded. The empty string stays empty.
func (s *Sealer) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.key)
	return base64.RawURLEncoding.EncodeToString(box), nil
}

func (s *Sealer) Open(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	box, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil || len(box) < nonceSize+secretbox.Overhead {
		return "", ErrUnseal
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrUnseal
	}
	return string(plain), nil
}

// record is the at-rest form of a Session shared by the persistent stores.
type record struct {
	Username        string    `json:"username"`
	UserID          string    `json:"user_id"`
	AccessToken     string    `json:"access_token"`
	RefreshToken    string    `json:"refresh_token"`
	IsAdmin         bool      `json:"is_admin"`
	AccessExpiresAt time.Time `json:"access_expires_at"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

func (s *Sealer) seal(sess *Session) (record, error) {
	access, err := s.Seal(sess.AccessToken)
	if err != nil {
		return record{}, err
	}
	refresh, err := s.Seal(sess.RefreshToken)
	if err != nil {
		return record{}, err
	}
	return record{
		Username:        sess.Username,
		UserID:          sess.UserID,
		AccessToken:     access,
		RefreshToken:    refresh,
		IsAdmin:         sess.IsAdmin,
		AccessExpiresAt: sess.AccessExpiresAt,
		CreatedAt:       sess.CreatedAt,
		ExpiresAt:       sess.ExpiresAt,
	}, nil
}

func (s *Sealer) open(id string, rec record) (*Session, error) {
	access, err := s.Open(rec.AccessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Open(rec.RefreshToken)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:              id,
		Username:        rec.Username,
		UserID:          rec.UserID,
		AccessToken:     access,
		RefreshToken:    refresh,
		IsAdmin:         rec.IsAdmin,
		AccessExpiresAt: rec.AccessExpiresAt,
		CreatedAt:       rec.CreatedAt,
		ExpiresAt:       rec.ExpiresAt,
	}, nil
}
