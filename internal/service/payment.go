package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NagasuriRaviTeja/movie-magic/internal/model"
	"github.com/NagasuriRaviTeja/movie-magic/internal/queue"
	"github.com/NagasuriRaviTeja/movie-magic/internal/session"
)

// timestampLayout is the display format stamped on payment records.
const timestampLayout = "2006-01-02 15:04:05"

const cardMask = "************" // 12 mask chars ahead of the last 4 digits

// PaymentForm carries the raw form fields of POST /process_payment. Field
// names follow the payment form inputs; only the group matching Method is
// consulted.
type PaymentForm struct {
	Movie  string
	Seats  string
	Total  string
	Method string

	UPIID string

	CardNumber string
	NameOnCard string
	ExpiryDate string
	CVV        string

	DebitCardNumber string
	DebitNameOnCard string
	DebitExpiryDate string
	DebitCVV        string

	BankName        string
	PayPalEmail     string
	GooglePayNumber string
}

// PaymentService validates a chosen payment method, masks sensitive
// fields, and records the result in session state. No payment network is
// ever contacted.
type PaymentService struct {
	Sessions session.Store
	Events   Publisher // optional; nil disables notifications
	Log      *zap.Logger
}

// Process runs the single-request payment state machine: pick the method,
// validate its required fields, then record the masked result. On success
// the enriched booking record is appended to the session, the session's
// last-payment info is replaced, and a confirmation event is published
// best-effort. Validation failures return before any session mutation so a
// retry starts clean.
func (p *PaymentService) Process(ctx context.Context, sess *session.Session, form PaymentForm) (model.SessionBooking, error) {
	details, err := validateAndMask(form)
	if err != nil {
		return model.SessionBooking{}, err
	}

	// Seats arrive as the redirect query state; entries may still carry
	// their :type tag, which is stripped for display and storage.
	var seats []string
	for _, entry := range strings.Split(form.Seats, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, _, _ := strings.Cut(entry, ":")
		seats = append(seats, name)
	}

	total, _ := strconv.Atoi(form.Total) // shape was fixed at booking time

	now := time.Now().UTC().Format(timestampLayout)
	record := model.SessionBooking{
		Movie:          form.Movie,
		Seats:          seats,
		Total:          total,
		PaymentMethod:  form.Method,
		PaymentDetails: details,
		PaymentRef:     uuid.NewString(),
		Timestamp:      now,
	}

	// The seat submission already appended a bare record for this movie;
	// enrich it in place instead of duplicating the booking in the session
	// view. A payment with no pending record still gets appended.
	replaced := false
	for i := len(sess.Bookings) - 1; i >= 0; i-- {
		if sess.Bookings[i].Movie == form.Movie && sess.Bookings[i].PaymentMethod == "" {
			sess.Bookings[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		sess.AppendBooking(record)
	}
	sess.PaymentInfo = &model.PaymentInfo{
		Method:    form.Method,
		Details:   details,
		Ref:       record.PaymentRef,
		Timestamp: now,
	}
	if err := p.Sessions.Save(ctx, sess); err != nil {
		return model.SessionBooking{}, err
	}

	if p.Events != nil {
		ev := queue.Event{
			Type:       queue.TypePaymentConfirmed,
			Email:      sess.Email,
			Movie:      form.Movie,
			Seats:      seats,
			Total:      total,
			Method:     form.Method,
			PaymentRef: record.PaymentRef,
			OccurredAt: now,
		}
		if err := p.Events.Publish(ctx, ev); err != nil {
			p.Log.Warn("payment event publish failed",
				zap.String("email", sess.Email), zap.String("movie", form.Movie), zap.Error(err))
		}
	}

	return record, nil
}

// validateAndMask checks the required fields for the chosen method and
// returns the details map in its stored (masked) form. Card numbers keep
// only the last 4 digits; the CVV is reduced to a single mask character and
// never stored in recoverable form.
func validateAndMask(form PaymentForm) (map[string]string, error) {
	switch form.Method {
	case "UPI":
		if form.UPIID == "" || !strings.Contains(form.UPIID, "@") {
			return nil, fmt.Errorf("%w: invalid UPI ID", ErrInvalidPaymentDetails)
		}
		return map[string]string{"upi_id": form.UPIID}, nil

	case "Credit Card":
		return maskCardDetails(form.CardNumber, form.NameOnCard, form.ExpiryDate, form.CVV)

	case "Debit Card":
		return maskCardDetails(form.DebitCardNumber, form.DebitNameOnCard, form.DebitExpiryDate, form.DebitCVV)

	case "Netbanking":
		if strings.TrimSpace(form.BankName) == "" {
			return nil, fmt.Errorf("%w: bank is required", ErrInvalidPaymentDetails)
		}
		return map[string]string{"bank": form.BankName}, nil

	case "PayPal":
		if form.PayPalEmail == "" || !strings.Contains(form.PayPalEmail, "@") {
			return nil, fmt.Errorf("%w: invalid PayPal email", ErrInvalidPaymentDetails)
		}
		return map[string]string{"paypal_email": form.PayPalEmail}, nil

	case "Google Pay":
		if len(form.GooglePayNumber) < 10 {
			return nil, fmt.Errorf("%w: invalid phone number", ErrInvalidPaymentDetails)
		}
		return map[string]string{"gpay_number": form.GooglePayNumber}, nil

	case "":
		return nil, fmt.Errorf("%w: payment method was not specified", ErrInvalidPaymentDetails)

	default:
		return nil, ErrUnknownPaymentMethod
	}
}

func maskCardDetails(number, holder, expiry, cvv string) (map[string]string, error) {
	if number == "" || holder == "" || expiry == "" || cvv == "" {
		return nil, fmt.Errorf("%w: all card fields are required", ErrInvalidPaymentDetails)
	}
	if !isDigits(number) || len(number) != 16 {
		return nil, fmt.Errorf("%w: card number must be 16 digits", ErrInvalidPaymentDetails)
	}
	return map[string]string{
		"card_number": cardMask + number[len(number)-4:],
		"card_holder": holder,
		"expiry_date": expiry,
		"cvv":         "*",
	}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
