package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/NagasuriRaviTeja/movie-magic/internal/config"
	"github.com/NagasuriRaviTeja/movie-magic/internal/middleware"
	"github.com/NagasuriRaviTeja/movie-magic/internal/repository"
	"github.com/NagasuriRaviTeja/movie-magic/internal/session"
	"github.com/NagasuriRaviTeja/movie-magic/internal/utils"
)

// UserStore is the account persistence the auth handler needs.
type UserStore interface {
	Create(ctx context.Context, email, name, password string, cost int) error
	GetByEmail(ctx context.Context, email string) (repository.User, error)
}

// AuthHandler bundles dependencies for registration, login and logout.
type AuthHandler struct {
	flasher
	Cfg   config.Config
	Users UserStore
	Log   *zap.Logger
}

func NewAuthHandler(cfg config.Config, users UserStore, sessions session.Store, log *zap.Logger) *AuthHandler {
	return &AuthHandler{flasher: flasher{Sessions: sessions}, Cfg: cfg, Users: users, Log: log}
}

// RegisterForm renders the registration page payload.
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"page": "register", "flash": h.popFlashes(c)})
}

// Register creates the account and sends the user to the login form.
// Beyond presence, no format or strength validation is applied.
func (h *AuthHandler) Register(c echo.Context) error {
	name := c.FormValue("name")
	email := c.FormValue("email")
	password := c.FormValue("password")
	if email == "" || password == "" {
		return h.flashRedirect(c, "Email and password are required.", "/register")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Create(ctx, email, name, password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return h.flashRedirect(c, "Email already registered.", "/register")
		}
		h.Log.Error("create user failed", zap.Error(err))
		return h.flashRedirect(c, "Registration failed, please try again.", "/register")
	}

	return h.flashRedirect(c, "Registration successful! Please login.", "/login")
}

// LoginForm renders the login page payload.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"page": "login", "flash": h.popFlashes(c)})
}

// Login verifies credentials and establishes a fresh session with an empty
// in-session booking list. Unknown email and wrong password are
// indistinguishable to the caller.
func (h *AuthHandler) Login(c echo.Context) error {
	email := c.FormValue("email")
	password := c.FormValue("password")
	if email == "" || password == "" {
		return h.flashRedirect(c, "Invalid credentials", "/login")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return h.flashRedirect(c, "Invalid credentials", "/login")
		}
		h.Log.Error("load user failed", zap.Error(err))
		return h.flashRedirect(c, "Login failed, please try again.", "/login")
	}
	if !utils.VerifyPassword(u.Password, password) {
		return h.flashRedirect(c, "Invalid credentials", "/login")
	}

	// Replace whatever session the browser carried (anonymous or stale).
	if old := middleware.FromContext(c); old != nil {
		_ = h.Sessions.Delete(ctx, old.Token)
	}
	s, err := h.Sessions.Create(ctx, u.Email)
	if err != nil {
		h.Log.Error("create session failed", zap.Error(err))
		return h.flashRedirect(c, "Login failed, please try again.", "/login")
	}
	setSessionCookie(c, s.Token)

	return c.Redirect(http.StatusSeeOther, "/home")
}

// Logout destroys the server-side session and expires the cookie. A fresh
// anonymous session carries the goodbye flash across the redirect.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if s := middleware.FromContext(c); s != nil {
		_ = h.Sessions.Delete(ctx, s.Token)
		c.Set(middleware.ContextKey, nil)
	}
	clearSessionCookie(c)

	if anon, err := h.Sessions.Create(ctx, ""); err == nil {
		anon.AddFlash("Logged out successfully")
		_ = h.Sessions.Save(ctx, anon)
		setSessionCookie(c, anon.Token)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}
