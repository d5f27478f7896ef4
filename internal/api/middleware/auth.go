package middleware

import (
	"net/http"
	"net/url"

	"github.com/example/storefront/internal/session"
	"github.com/rs/zerolog"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// LoadSession attaches the visitor's session, if any, to the request context.
// A store failure is logged and the request continues anonymously.
func LoadSession(mgr *session.Manager, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := mgr.Load(w, r)
			if err != nil {
				logger.Error().Err(err).Msg("failed to load session")
			}
			if s != nil {
				r = r.WithContext(session.WithSession(r.Context(), s))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession redirects visitors without a session to the login page.
// The handler is never reached, so no backend call is made on their behalf.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); !ok {
			RedirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin lets only admin sessions through. Visitors without a session
// go to login; signed-in non-admins get forbidden.
func RequireAdmin(forbidden http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := session.FromContext(r.Context())
			if !ok {
				RedirectToLogin(w, r)
				return
			}
			if !s.IsAdmin {
				forbidden.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RedirectToLogin sends a 303 to the login page, remembering where a GET
// was headed so login can return there.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := LoginPath
	if r.Method == http.MethodGet && r.URL.Path != LoginPath {
		target += "?next=" + url.QueryEscape(r.URL.RequestURI())
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
