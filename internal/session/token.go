package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenInfo is what the storefront learns from a backend access token.
type TokenInfo struct {
	UserID    string
	ExpiresAt time.Time
}

// backendClaims matches the claims the backend puts in its access tokens.
type backendClaims struct {
	UserID any `json:"user_id"`
	jwt.RegisteredClaims
}

// InspectToken decodes the claims of a backend-issued JWT without verifying
// the signature. The backend signs and checks its own tokens; the storefront
// only needs the expiry to know when to stop presenting one.
func InspectToken(token string) (TokenInfo, error) {
	var claims backendClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return TokenInfo{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	info := TokenInfo{}
	switch v := claims.UserID.(type) {
	case nil:
		info.UserID = claims.Subject
	case float64:
		info.UserID = fmt.Sprintf("%.0f", v)
	default:
		info.UserID = fmt.Sprint(v)
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
