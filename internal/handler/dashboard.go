package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/NagasuriRaviTeja/movie-magic/internal/middleware"
	"github.com/NagasuriRaviTeja/movie-magic/internal/model"
	"github.com/NagasuriRaviTeja/movie-magic/internal/session"
)

// BookingLister reads the durable booking rows for one account.
type BookingLister interface {
	ListByEmail(ctx context.Context, email string) ([]model.Booking, error)
}

// DashboardHandler renders the per-user booking overview: the current
// session's records (which carry payment metadata) followed by the durable
// rows (which do not). The two sources are concatenated as-is; duplicates
// are possible and expected.
type DashboardHandler struct {
	flasher
	Bookings BookingLister
	Log      *zap.Logger
}

func NewDashboardHandler(bookings BookingLister, sessions session.Store, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{flasher: flasher{Sessions: sessions}, Bookings: bookings, Log: log}
}

// Dashboard handles GET /dashboard.
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	sess := middleware.FromContext(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.Bookings.ListByEmail(ctx, sess.Email)
	if err != nil {
		h.Log.Error("list bookings failed", zap.String("email", sess.Email), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load bookings"})
	}

	entries := make([]model.SessionBooking, 0, len(sess.Bookings)+len(rows))
	entries = append(entries, sess.Bookings...)
	for _, r := range rows {
		entries = append(entries, model.SessionBooking{
			Movie:         r.Movie,
			Seats:         strings.Split(r.Seats, ","),
			Total:         r.Total,
			PaymentMethod: "Not recorded",
			Timestamp:     "Not recorded",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"bookings": entries, "flash": h.popFlashes(c)})
}
