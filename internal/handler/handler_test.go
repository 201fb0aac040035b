package handler_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/NagasuriRaviTeja/movie-magic/internal/catalog"
	"github.com/NagasuriRaviTeja/movie-magic/internal/config"
	"github.com/NagasuriRaviTeja/movie-magic/internal/handler"
	"github.com/NagasuriRaviTeja/movie-magic/internal/model"
	"github.com/NagasuriRaviTeja/movie-magic/internal/repository"
	"github.com/NagasuriRaviTeja/movie-magic/internal/router"
	"github.com/NagasuriRaviTeja/movie-magic/internal/service"
	"github.com/NagasuriRaviTeja/movie-magic/internal/session"
	"github.com/NagasuriRaviTeja/movie-magic/internal/utils"
)

type fakeUsers struct {
	users map[string]repository.User
}

func (f *fakeUsers) Create(_ context.Context, email, name, password string, _ int) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, ok := f.users[email]; ok {
		return repository.ErrEmailExists
	}
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		return err
	}
	f.users[email] = repository.User{Email: email, Name: name, Password: hash}
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (repository.User, error) {
	u, ok := f.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return repository.User{}, sql.ErrNoRows
	}
	return u, nil
}

type fakeBookings struct {
	rows []model.Booking
}

func (f *fakeBookings) Create(_ context.Context, email, movie, seats string, total int) (uint64, error) {
	id := uint64(len(f.rows) + 1)
	f.rows = append(f.rows, model.Booking{ID: id, Email: email, Movie: movie, Seats: seats, Total: total})
	return id, nil
}

func (f *fakeBookings) ListByEmail(_ context.Context, email string) ([]model.Booking, error) {
	var out []model.Booking
	for _, r := range f.rows {
		if r.Email == email {
			out = append(out, r)
		}
	}
	return out, nil
}

type site struct {
	e        *echo.Echo
	users    *fakeUsers
	bookings *fakeBookings
	sessions session.Store
}

func newSite(t *testing.T) *site {
	t.Helper()
	log := zap.NewNop()
	sessions := session.NewMemoryStore(time.Minute)
	users := &fakeUsers{users: map[string]repository.User{}}
	bookings := &fakeBookings{}
	cat := catalog.Default()

	bookingSvc := &service.BookingService{
		Catalog:  cat,
		Bookings: bookings,
		Sessions: sessions,
		Log:      log,
	}
	paymentSvc := &service.PaymentService{Sessions: sessions, Log: log}

	cfg := config.Config{BcryptCost: bcrypt.MinCost}

	e := echo.New()
	router.RegisterRoutes(e, router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users, sessions, log),
		Pages:     handler.NewPageHandler(cat, sessions),
		Booking:   handler.NewBookingHandler(cat, bookingSvc, sessions, log),
		Payment:   handler.NewPaymentHandler(cat, paymentSvc, sessions, log),
		Dashboard: handler.NewDashboardHandler(bookings, sessions, log),
		Sessions:  sessions,
	})
	return &site{e: e, users: users, bookings: bookings, sessions: sessions}
}

// do performs one request. A non-nil form makes it a POST-style form body.
func (s *site) do(method, target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) []*http.Cookie {
	t.Helper()
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "expected a session cookie")
	return cookies
}

func (s *site) register(t *testing.T, name, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(http.MethodPost, "/register", url.Values{
		"name": {name}, "email": {email}, "password": {password},
	}, nil)
}

func (s *site) login(t *testing.T, email, password string) []*http.Cookie {
	t.Helper()
	rec := s.do(http.MethodPost, "/login", url.Values{
		"email": {email}, "password": {password},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/home", rec.Header().Get("Location"))
	return sessionCookie(t, rec)
}

func TestGatedRoutesRedirectToLogin(t *testing.T) {
	s := newSite(t)
	for _, target := range []string{"/home", "/dashboard", "/tickets", "/booking/KUBERA", "/seating/KUBERA"} {
		rec := s.do(http.MethodGet, target, nil, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code, target)
		assert.Equal(t, "/login", rec.Header().Get("Location"), target)
	}
}

func TestRegisterThenDuplicate(t *testing.T) {
	s := newSite(t)

	rec := s.register(t, "Alice", "alice@example.com", "pw")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	// The flash survives the redirect via the anonymous session cookie.
	cookies := sessionCookie(t, rec)
	page := s.do(http.MethodGet, "/login", nil, cookies)
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Registration successful! Please login.")

	dup := s.register(t, "Alice Again", "alice@example.com", "other")
	assert.Equal(t, http.StatusSeeOther, dup.Code)
	assert.Equal(t, "/register", dup.Header().Get("Location"))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newSite(t)
	s.register(t, "Alice", "alice@example.com", "pw")

	for _, form := range []url.Values{
		{"email": {"alice@example.com"}, "password": {"wrong"}},
		{"email": {"nobody@example.com"}, "password": {"pw"}},
	} {
		rec := s.do(http.MethodPost, "/login", form, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	s := newSite(t)
	s.register(t, "Alice", "alice@example.com", "pw")
	cookies := s.login(t, "alice@example.com", "pw")

	rec := s.do(http.MethodGet, "/logout", nil, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	// The old token no longer resolves; gated routes bounce to login.
	after := s.do(http.MethodGet, "/home", nil, cookies)
	assert.Equal(t, http.StatusSeeOther, after.Code)
	assert.Equal(t, "/login", after.Header().Get("Location"))
}

func TestSeatingUnknownMovieRedirectsHome(t *testing.T) {
	s := newSite(t)
	s.register(t, "Alice", "alice@example.com", "pw")
	cookies := s.login(t, "alice@example.com", "pw")

	rec := s.do(http.MethodPost, "/seating/UNKNOWN", url.Values{"seats": {"A1"}}, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("Location"))
}

func TestBookingPaymentDashboardScenario(t *testing.T) {
	s := newSite(t)
	s.register(t, "Alice", "alice@example.com", "pw")
	cookies := s.login(t, "alice@example.com", "pw")

	// Book KUBERA with one premium and one gold seat: total 250+170.
	rec := s.do(http.MethodPost, "/seating/KUBERA", url.Values{
		"seats": {"A1:premium,A2:gold"},
	}, cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/payment/KUBERA?seats=A1%2CA2&total=420", rec.Header().Get("Location"))

	require.Len(t, s.bookings.rows, 1)
	assert.Equal(t, "alice@example.com", s.bookings.rows[0].Email)
	assert.Equal(t, "A1,A2", s.bookings.rows[0].Seats)
	assert.Equal(t, 420, s.bookings.rows[0].Total)

	// A 15-digit card number bounces back to the payment form with the
	// booking state preserved in the query.
	badCard := url.Values{
		"movie": {"KUBERA"}, "seats": {"A1,A2"}, "total": {"420"},
		"payment_method": {"Credit Card"},
		"card_number":    {"123456789012345"},
		"name_on_card":   {"Alice A"},
		"expiry_date":    {"12/27"},
		"cvv":            {"123"},
	}
	retry := s.do(http.MethodPost, "/process_payment", badCard, cookies)
	require.Equal(t, http.StatusSeeOther, retry.Code)
	assert.Equal(t, "/payment/KUBERA?seats=A1%2CA2&total=420", retry.Header().Get("Location"))

	// Retrying with a valid card reaches the confirmation view.
	goodCard := url.Values{}
	for k, v := range badCard {
		goodCard[k] = v
	}
	goodCard.Set("card_number", "1234567890123456")
	paid := s.do(http.MethodPost, "/process_payment", goodCard, cookies)
	require.Equal(t, http.StatusSeeOther, paid.Code)
	assert.Equal(t, "/tickets?seats=A1%2CA2&title=KUBERA&total=420", paid.Header().Get("Location"))

	tickets := s.do(http.MethodGet, "/tickets?seats=A1%2CA2&title=KUBERA&total=420", nil, cookies)
	require.Equal(t, http.StatusOK, tickets.Code)
	assert.Contains(t, tickets.Body.String(), "Credit Card")
	assert.Contains(t, tickets.Body.String(), "Payment successful! Your tickets are ready.")

	// Dashboard merges the session record (with payment metadata) and the
	// durable row (placeholder metadata), in that order.
	dash := s.do(http.MethodGet, "/dashboard", nil, cookies)
	require.Equal(t, http.StatusOK, dash.Code)

	var body struct {
		Bookings []model.SessionBooking `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(dash.Body.Bytes(), &body))
	require.Len(t, body.Bookings, 2)

	assert.Equal(t, "Credit Card", body.Bookings[0].PaymentMethod)
	assert.Equal(t, []string{"A1", "A2"}, body.Bookings[0].Seats)
	assert.Equal(t, "************3456", body.Bookings[0].PaymentDetails["card_number"])

	assert.Equal(t, "Not recorded", body.Bookings[1].PaymentMethod)
	assert.Equal(t, []string{"A1", "A2"}, body.Bookings[1].Seats)
	assert.Equal(t, 420, body.Bookings[1].Total)
}

func TestEmptySeatSubmission(t *testing.T) {
	s := newSite(t)
	s.register(t, "Alice", "alice@example.com", "pw")
	cookies := s.login(t, "alice@example.com", "pw")

	rec := s.do(http.MethodPost, "/seating/KUBERA", url.Values{"seats": {" , "}}, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/seating/KUBERA", rec.Header().Get("Location"))
	assert.Empty(t, s.bookings.rows)
}

func TestUnknownSeatTypeWritesNothing(t *testing.T) {
	s := newSite(t)
	s.register(t, "Alice", "alice@example.com", "pw")
	cookies := s.login(t, "alice@example.com", "pw")

	rec := s.do(http.MethodPost, "/seating/KUBERA", url.Values{"seats": {"A1:silver"}}, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/seating/KUBERA", rec.Header().Get("Location"))
	assert.Empty(t, s.bookings.rows)
}

func TestTicketsWithoutBookingDetails(t *testing.T) {
	s := newSite(t)
	s.register(t, "Alice", "alice@example.com", "pw")
	cookies := s.login(t, "alice@example.com", "pw")

	rec := s.do(http.MethodGet, "/tickets?title=KUBERA", nil, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("Location"))
}

func TestHomeListsCatalog(t *testing.T) {
	s := newSite(t)
	s.register(t, "Alice", "alice@example.com", "pw")
	cookies := s.login(t, "alice@example.com", "pw")

	rec := s.do(http.MethodGet, "/home", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, title := range []string{"KUBERA", "DEVARA", "ANIMAL"} {
		assert.Contains(t, rec.Body.String(), title)
	}
}

func TestHealth(t *testing.T) {
	s := newSite(t)
	rec := s.do(http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
