package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/NagasuriRaviTeja/movie-magic/internal/catalog"
	"github.com/NagasuriRaviTeja/movie-magic/internal/middleware"
	"github.com/NagasuriRaviTeja/movie-magic/internal/service"
	"github.com/NagasuriRaviTeja/movie-magic/internal/session"
)

// BookingHandler serves the movie detail and seat selection routes.
type BookingHandler struct {
	flasher
	Catalog *catalog.Catalog
	Booking *service.BookingService
	Log     *zap.Logger
}

func NewBookingHandler(cat *catalog.Catalog, svc *service.BookingService, sessions session.Store, log *zap.Logger) *BookingHandler {
	return &BookingHandler{flasher: flasher{Sessions: sessions}, Catalog: cat, Booking: svc, Log: log}
}

// Detail handles GET /booking/:title.
func (h *BookingHandler) Detail(c echo.Context) error {
	movie, err := h.Catalog.FindByTitle(c.Param("title"))
	if err != nil {
		return h.flashRedirect(c, "Movie not found", "/home")
	}
	return c.JSON(http.StatusOK, echo.Map{"movie": movie, "flash": h.popFlashes(c)})
}

// SeatingForm handles GET /seating/:title.
func (h *BookingHandler) SeatingForm(c echo.Context) error {
	movie, err := h.Catalog.FindByTitle(c.Param("title"))
	if err != nil {
		return h.flashRedirect(c, "Movie not found", "/home")
	}
	return c.JSON(http.StatusOK, echo.Map{"page": "seating", "movie": movie, "flash": h.popFlashes(c)})
}

// SubmitSeats handles POST /seating/:title. On success the browser is sent
// to the payment form with the priced selection carried as query state.
func (h *BookingHandler) SubmitSeats(c echo.Context) error {
	title := c.Param("title")
	sess := middleware.FromContext(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Booking.Book(ctx, sess, title, c.FormValue("seats"))
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrMovieNotFound):
			return h.flashRedirect(c, "Movie not found", "/home")
		case errors.Is(err, service.ErrNoSeatsSelected):
			return h.flashRedirect(c, "Please enter valid seats.", seatingURL(title))
		case errors.Is(err, service.ErrUnknownSeatType):
			return h.flashRedirect(c, "Unknown seat type selected.", seatingURL(title))
		default:
			h.Log.Error("booking failed", zap.String("movie", title), zap.Error(err))
			return h.flashRedirect(c, "Could not complete booking, please try again.", seatingURL(title))
		}
	}

	return c.Redirect(http.StatusSeeOther, paymentURL(res.Movie.Title, res.Seats, res.Total))
}

func seatingURL(title string) string {
	return "/seating/" + url.PathEscape(title)
}

func paymentURL(title string, seats []string, total int) string {
	q := url.Values{}
	q.Set("seats", strings.Join(seats, ","))
	q.Set("total", strconv.Itoa(total))
	return "/payment/" + url.PathEscape(title) + "?" + q.Encode()
}
