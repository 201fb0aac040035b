package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/NagasuriRaviTeja/movie-magic/internal/catalog"
	"github.com/NagasuriRaviTeja/movie-magic/internal/model"
	"github.com/NagasuriRaviTeja/movie-magic/internal/queue"
	"github.com/NagasuriRaviTeja/movie-magic/internal/session"
)

// Per-seat prices for typed seats. An untagged seat falls back to the
// movie's flat price.
const (
	premiumSeatPrice = 250
	goldSeatPrice    = 170
)

// BookingStore is the durable ledger the workflow appends to.
type BookingStore interface {
	Create(ctx context.Context, email, movie, seats string, total int) (uint64, error)
}

// Mirror receives a best-effort copy of each booking.
type Mirror interface {
	PutBooking(ctx context.Context, email, movie string, seats []string, total int) error
}

// Publisher broadcasts notification events. Implementations must tolerate
// broker outages; the workflow ignores their errors.
type Publisher interface {
	Publish(ctx context.Context, ev queue.Event) error
}

// BookingService orchestrates catalog lookup, seat pricing, the durable
// insert, the session append, and the two best-effort side effects.
type BookingService struct {
	Catalog  *catalog.Catalog
	Bookings BookingStore
	Sessions session.Store
	Mirror   Mirror    // optional; nil disables mirroring
	Events   Publisher // optional; nil disables notifications
	Log      *zap.Logger
}

// BookingResult carries the outcome the handler needs to build the
// redirect to the payment form.
type BookingResult struct {
	Movie model.Movie
	Seats []string
	Total int
}

// Book handles one seat submission for the session's user. rawSeats is the
// comma-separated list from the form; entries may be plain seat names or
// name:type pairs. On success exactly one durable row is written and one
// session record appended before the mirror write and event publish are
// attempted. Side-effect failures are logged and swallowed; the committed
// row is never rolled back.
func (s *BookingService) Book(ctx context.Context, sess *session.Session, title, rawSeats string) (BookingResult, error) {
	movie, err := s.Catalog.FindByTitle(title)
	if err != nil {
		return BookingResult{}, err
	}

	seats, total, err := priceSeats(movie, rawSeats)
	if err != nil {
		return BookingResult{}, err
	}

	joined := strings.Join(seats, ",")
	if _, err := s.Bookings.Create(ctx, sess.Email, movie.Title, joined, total); err != nil {
		return BookingResult{}, err
	}

	sess.AppendBooking(model.SessionBooking{Movie: movie.Title, Seats: seats, Total: total})
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return BookingResult{}, err
	}

	// Best-effort side effects. Both are non-authoritative; the booking is
	// already committed locally.
	if s.Mirror != nil {
		if err := s.Mirror.PutBooking(ctx, sess.Email, movie.Title, seats, total); err != nil {
			s.Log.Warn("booking mirror write failed",
				zap.String("email", sess.Email), zap.String("movie", movie.Title), zap.Error(err))
		}
	}
	if s.Events != nil {
		ev := queue.Event{
			Type:       queue.TypeBookingCreated,
			Email:      sess.Email,
			Movie:      movie.Title,
			Seats:      seats,
			Total:      total,
			OccurredAt: time.Now().UTC().Format(timestampLayout),
		}
		if err := s.Events.Publish(ctx, ev); err != nil {
			s.Log.Warn("booking event publish failed",
				zap.String("email", sess.Email), zap.String("movie", movie.Title), zap.Error(err))
		}
	}

	return BookingResult{Movie: movie, Seats: seats, Total: total}, nil
}

// priceSeats parses the raw comma-separated seat list and computes the
// total. A "name:type" entry is priced by type and must be premium or
// gold; a bare name is priced at the movie's flat price. Returned seat
// names keep submission order so the joined string splits back into the
// original list.
func priceSeats(movie model.Movie, rawSeats string) ([]string, int, error) {
	var seats []string
	total := 0
	for _, entry := range strings.Split(rawSeats, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, typ, tagged := strings.Cut(entry, ":")
		if !tagged {
			seats = append(seats, name)
			total += movie.Price
			continue
		}
		switch typ {
		case "premium":
			total += premiumSeatPrice
		case "gold":
			total += goldSeatPrice
		default:
			return nil, 0, fmt.Errorf("%w: %s", ErrUnknownSeatType, typ)
		}
		seats = append(seats, name)
	}
	if len(seats) == 0 {
		return nil, 0, ErrNoSeatsSelected
	}
	return seats, total, nil
}
