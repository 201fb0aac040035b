package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/NagasuriRaviTeja/movie-magic/internal/catalog"
	"github.com/NagasuriRaviTeja/movie-magic/internal/middleware"
	"github.com/NagasuriRaviTeja/movie-magic/internal/model"
	"github.com/NagasuriRaviTeja/movie-magic/internal/service"
	"github.com/NagasuriRaviTeja/movie-magic/internal/session"
)

// PaymentHandler serves the payment form, the mock processing endpoint and
// the ticket confirmation view.
type PaymentHandler struct {
	flasher
	Catalog  *catalog.Catalog
	Payments *service.PaymentService
	Log      *zap.Logger
}

func NewPaymentHandler(cat *catalog.Catalog, svc *service.PaymentService, sessions session.Store, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{flasher: flasher{Sessions: sessions}, Catalog: cat, Payments: svc, Log: log}
}

// Form handles GET|POST /payment/:title. It only echoes back the booking
// state carried in the query so a validation retry loses nothing.
func (h *PaymentHandler) Form(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"movie": c.Param("title"),
		"seats": c.QueryParam("seats"),
		"total": c.QueryParam("total"),
		"flash": h.popFlashes(c),
	})
}

// Process handles POST /process_payment. Validation failures return the
// browser to the payment form with movie/seats/total preserved as query
// state; success redirects to the ticket confirmation view.
func (h *PaymentHandler) Process(c echo.Context) error {
	form := service.PaymentForm{
		Movie:  c.FormValue("movie"),
		Seats:  c.FormValue("seats"),
		Total:  c.FormValue("total"),
		Method: c.FormValue("payment_method"),

		UPIID: c.FormValue("upi_id"),

		CardNumber: c.FormValue("card_number"),
		NameOnCard: c.FormValue("name_on_card"),
		ExpiryDate: c.FormValue("expiry_date"),
		CVV:        c.FormValue("cvv"),

		DebitCardNumber: c.FormValue("debit_card_number"),
		DebitNameOnCard: c.FormValue("debit_name_on_card"),
		DebitExpiryDate: c.FormValue("debit_expiry_date"),
		DebitCVV:        c.FormValue("debit_cvv"),

		BankName:        c.FormValue("bank_name"),
		PayPalEmail:     c.FormValue("paypal_email"),
		GooglePayNumber: c.FormValue("google_pay_number"),
	}

	retryURL := paymentRetryURL(form.Movie, form.Seats, form.Total)
	sess := middleware.FromContext(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	record, err := h.Payments.Process(ctx, sess, form)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownPaymentMethod):
			return h.flashRedirect(c, "Invalid payment method selected.", retryURL)
		case errors.Is(err, service.ErrInvalidPaymentDetails):
			return h.flashRedirect(c, err.Error(), retryURL)
		default:
			h.Log.Error("payment processing failed", zap.String("movie", form.Movie), zap.Error(err))
			return h.flashRedirect(c, "An error occurred while processing your payment.", retryURL)
		}
	}

	q := url.Values{}
	q.Set("title", record.Movie)
	q.Set("seats", strings.Join(record.Seats, ","))
	q.Set("total", form.Total)
	return h.flashRedirect(c, "Payment successful! Your tickets are ready.", "/tickets?"+q.Encode())
}

// Tickets handles GET /tickets: the confirmation view merging catalog data,
// redirect query state and the session's last payment record.
func (h *PaymentHandler) Tickets(c echo.Context) error {
	title := c.QueryParam("title")
	seats := c.QueryParam("seats")

	movie, err := h.Catalog.FindByTitle(title)
	if err != nil || seats == "" {
		return h.flashRedirect(c, "Invalid booking details.", "/home")
	}

	// Durable-only visits have no payment record; placeholders keep the
	// view shape stable.
	info := model.PaymentInfo{Method: "Not specified", Timestamp: "Not available"}
	if sess := middleware.FromContext(c); sess != nil && sess.PaymentInfo != nil {
		info = *sess.PaymentInfo
	}

	return c.JSON(http.StatusOK, echo.Map{
		"movie":             movie,
		"seats":             strings.Split(seats, ","),
		"total":             c.QueryParam("total"),
		"payment_method":    info.Method,
		"payment_timestamp": info.Timestamp,
		"flash":             h.popFlashes(c),
	})
}

func paymentRetryURL(title, seats, total string) string {
	q := url.Values{}
	q.Set("seats", seats)
	q.Set("total", total)
	return "/payment/" + url.PathEscape(title) + "?" + q.Encode()
}
