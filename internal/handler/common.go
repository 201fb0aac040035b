package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/NagasuriRaviTeja/movie-magic/internal/middleware"
	"github.com/NagasuriRaviTeja/movie-magic/internal/session"
)

const dbTimeout = 5 * time.Second

// reqCtx bounds the duration of store calls made on behalf of one request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

func setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// flasher is embedded by every handler that surfaces flash-style messages.
// Flashes live in the server-side session; when a request has no session
// yet (e.g. a failed registration), an anonymous one is created so the
// message survives the redirect.
type flasher struct {
	Sessions session.Store
}

// flashRedirect queues msg and redirects to target with 303 See Other.
func (f flasher) flashRedirect(c echo.Context, msg, target string) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	s := middleware.FromContext(c)
	if s == nil {
		created, err := f.Sessions.Create(ctx, "")
		if err == nil {
			setSessionCookie(c, created.Token)
			s = created
		}
		// If even the anonymous session cannot be created the message is
		// dropped; the redirect still happens.
	}
	if s != nil {
		s.AddFlash(msg)
		_ = f.Sessions.Save(ctx, s)
	}
	return c.Redirect(http.StatusSeeOther, target)
}

// popFlashes drains pending messages for the current view and persists the
// drained state so each message renders exactly once.
func (f flasher) popFlashes(c echo.Context) []string {
	s := middleware.FromContext(c)
	if s == nil {
		return nil
	}
	msgs := s.PopFlashes()
	if len(msgs) > 0 {
		ctx, cancel := reqCtx(c)
		defer cancel()
		_ = f.Sessions.Save(ctx, s)
	}
	return msgs
}
