package router // package router defines how HTTP routes are registered for the site

import (
	"github.com/labstack/echo/v4"

	"github.com/NagasuriRaviTeja/movie-magic/internal/handler"
	"github.com/NagasuriRaviTeja/movie-magic/internal/middleware"
	"github.com/NagasuriRaviTeja/movie-magic/internal/session"
)

// Handlers groups everything RegisterRoutes needs to wire the site.
type Handlers struct {
	Auth      *handler.AuthHandler
	Pages     *handler.PageHandler
	Booking   *handler.BookingHandler
	Payment   *handler.PaymentHandler
	Dashboard *handler.DashboardHandler
	Sessions  session.Store
}

// RegisterRoutes mounts every route of the booking site. LoadSession runs
// on all of them so public pages can show flash messages; routes that need
// an authenticated user sit behind RequireSession, which redirects to
// /login instead of erroring.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.Use(middleware.LoadSession(h.Sessions))

	e.GET("/healthz", handler.Health)

	// Public pages and account forms.
	e.GET("/", h.Pages.Index)
	e.GET("/about", h.Pages.About)
	e.GET("/services", h.Pages.Services)
	e.GET("/register", h.Auth.RegisterForm)
	e.POST("/register", h.Auth.Register)
	e.GET("/login", h.Auth.LoginForm)
	e.POST("/login", h.Auth.Login)

	// Session-gated routes.
	g := e.Group("", middleware.RequireSession())
	g.GET("/logout", h.Auth.Logout)
	g.GET("/home", h.Pages.Home)
	g.GET("/booking/:title", h.Booking.Detail)
	g.GET("/seating/:title", h.Booking.SeatingForm)
	g.POST("/seating/:title", h.Booking.SubmitSeats)
	g.GET("/payment/:title", h.Payment.Form)
	g.POST("/payment/:title", h.Payment.Form)
	g.POST("/process_payment", h.Payment.Process)
	g.GET("/tickets", h.Payment.Tickets)
	g.GET("/dashboard", h.Dashboard.Dashboard)
}
