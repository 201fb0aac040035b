package middleware // reusable HTTP middleware for the booking site

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/NagasuriRaviTeja/movie-magic/internal/session"
)

// CookieName is the cookie carrying the opaque session token. The cookie
// never contains session content, only the token.
const CookieName = "movie_magic_session"

// ContextKey is where the loaded *session.Session lives in the echo context.
const ContextKey = "session"

// LoadSession resolves the session cookie into a *session.Session and
// injects it into the request context. Requests without a cookie, or with a
// token that no longer resolves (expired or logged out), proceed with no
// session set; gating is left to RequireSession so that public pages can
// still read flash messages from anonymous sessions.
func LoadSession(store session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}
			s, err := store.Get(c.Request().Context(), cookie.Value)
			if err != nil {
				// ErrNotFound and transient store errors are treated the
				// same way: the request continues unauthenticated.
				return next(c)
			}
			c.Set(ContextKey, s)
			return next(c)
		}
	}
}

// RequireSession gates routes that need an authenticated user. Instead of
// erroring, unauthenticated requests are redirected to the login form.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := c.Get(ContextKey).(*session.Session)
			if !ok || !s.Authenticated() {
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			return next(c)
		}
	}
}

// FromContext returns the session loaded by LoadSession, or nil.
func FromContext(c echo.Context) *session.Session {
	s, _ := c.Get(ContextKey).(*session.Session)
	return s
}
