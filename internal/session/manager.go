package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const DefaultCookieName = "storefront_session"

// Login is what a successful sign-in hands to Start.
type Login struct {
	Username     string
	AccessToken  string
	RefreshToken string
	IsAdmin      bool
}

type ManagerConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	Logger     zerolog.Logger
}

// Manager ties sessions in a Store to the browser cookie that names them.
type Manager struct {
	store  Store
	cookie string
	ttl    time.Duration
	secure bool
	logger zerolog.Logger
	now    func() time.Time
}

func NewManager(store Store, cfg ManagerConfig) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &Manager{
		store:  store,
		cookie: cfg.CookieName,
		ttl:    cfg.TTL,
		secure: cfg.Secure,
		logger: cfg.Logger,
		now:    time.Now,
	}
}

// Load returns the authenticated session named by the request cookie, or nil.
// A session whose access token has expired is discarded and the cookie cleared.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) (*Session, error) {
	c, err := r.Cookie(m.cookie)
	if err != nil || c.Value == "" {
		return nil, nil
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		m.expireCookie(w)
		return nil, nil
	}

	s, err := m.store.Get(r.Context(), c.Value)
	if errors.Is(err, ErrNotFound) {
		m.expireCookie(w)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !s.Authenticated(m.now()) {
		m.logger.Debug().Str("username", s.Username).Msg("access token expired, dropping session")
		if err := m.Clear(r.Context(), w, s); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return s, nil
}

// Start issues a fresh session for a successful login and sets its cookie.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, login Login) (*Session, error) {
	now := m.now()
	s := &Session{
		ID:           uuid.NewString(),
		Username:     login.Username,
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
		IsAdmin:      login.IsAdmin,
		CreatedAt:    now,
		ExpiresAt:    now.Add(m.ttl),
	}
	if info, err := InspectToken(login.AccessToken); err == nil {
		s.UserID = info.UserID
		s.AccessExpiresAt = info.ExpiresAt
	} else {
		m.logger.Debug().Err(err).Msg("access token is not a readable JWT; relying on session ttl")
	}

	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie,
		Value:    s.ID,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s, nil
}

// Clear removes the session and expires the cookie. s may be nil.
func (m *Manager) Clear(ctx context.Context, w http.ResponseWriter, s *Session) error {
	m.expireCookie(w)
	if s == nil {
		return nil
	}
	return m.store.Delete(ctx, s.ID)
}

func (m *Manager) expireCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
