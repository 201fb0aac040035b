package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NagasuriRaviTeja/movie-magic/internal/catalog"
	"github.com/NagasuriRaviTeja/movie-magic/internal/queue"
	"github.com/NagasuriRaviTeja/movie-magic/internal/session"
)

type bookingRow struct {
	Email string
	Movie string
	Seats string
	Total int
}

type fakeBookingStore struct {
	rows []bookingRow
	err  error
}

func (f *fakeBookingStore) Create(_ context.Context, email, movie, seats string, total int) (uint64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.rows = append(f.rows, bookingRow{Email: email, Movie: movie, Seats: seats, Total: total})
	return uint64(len(f.rows)), nil
}

type fakeMirror struct {
	calls int
	err   error
}

func (f *fakeMirror) PutBooking(context.Context, string, string, []string, int) error {
	f.calls++
	return f.err
}

type fakePublisher struct {
	events []queue.Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, ev queue.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func newBookingService(store *fakeBookingStore, mir Mirror, pub Publisher, sessions session.Store) *BookingService {
	return &BookingService{
		Catalog:  catalog.Default(),
		Bookings: store,
		Sessions: sessions,
		Mirror:   mir,
		Events:   pub,
		Log:      zap.NewNop(),
	}
}

func authedSession(t *testing.T, store session.Store) *session.Session {
	t.Helper()
	s, err := store.Create(context.Background(), "alice@example.com")
	require.NoError(t, err)
	return s
}

func TestBookTypedSeats(t *testing.T) {
	sessions := session.NewMemoryStore(time.Minute)
	store := &fakeBookingStore{}
	mir := &fakeMirror{}
	pub := &fakePublisher{}
	svc := newBookingService(store, mir, pub, sessions)
	sess := authedSession(t, sessions)

	res, err := svc.Book(context.Background(), sess, "KUBERA", "A1:premium,A2:gold")
	require.NoError(t, err)

	assert.Equal(t, 420, res.Total) // 250 + 170
	assert.Equal(t, []string{"A1", "A2"}, res.Seats)

	require.Len(t, store.rows, 1)
	assert.Equal(t, bookingRow{Email: "alice@example.com", Movie: "KUBERA", Seats: "A1,A2", Total: 420}, store.rows[0])

	// The session record was persisted, not just mutated in place.
	saved, err := sessions.Get(context.Background(), sess.Token)
	require.NoError(t, err)
	require.Len(t, saved.Bookings, 1)
	assert.Equal(t, []string{"A1", "A2"}, saved.Bookings[0].Seats)
	assert.Empty(t, saved.Bookings[0].PaymentMethod) // payment not recorded yet

	assert.Equal(t, 1, mir.calls)
	require.Len(t, pub.events, 1)
	assert.Equal(t, queue.TypeBookingCreated, pub.events[0].Type)
	assert.Equal(t, 420, pub.events[0].Total)
}

func TestBookFlatPricing(t *testing.T) {
	sessions := session.NewMemoryStore(time.Minute)
	store := &fakeBookingStore{}
	svc := newBookingService(store, nil, nil, sessions)
	sess := authedSession(t, sessions)

	res, err := svc.Book(context.Background(), sess, "DEVARA", "B1, B2 ,B3")
	require.NoError(t, err)

	assert.Equal(t, 900, res.Total) // 3 * 300
	assert.Equal(t, []string{"B1", "B2", "B3"}, res.Seats)
	require.Len(t, store.rows, 1)
	assert.Equal(t, "B1,B2,B3", store.rows[0].Seats)
}

func TestBookMixedTaggedAndFlat(t *testing.T) {
	sessions := session.NewMemoryStore(time.Minute)
	svc := newBookingService(&fakeBookingStore{}, nil, nil, sessions)
	sess := authedSession(t, sessions)

	// Tagged seats price by type, untagged fall back to the flat price.
	res, err := svc.Book(context.Background(), sess, "KUBERA", "A1:premium,B2")
	require.NoError(t, err)
	assert.Equal(t, 600, res.Total) // 250 + 350
}

func TestBookUnknownSeatTypeAborts(t *testing.T) {
	sessions := session.NewMemoryStore(time.Minute)
	store := &fakeBookingStore{}
	svc := newBookingService(store, nil, nil, sessions)
	sess := authedSession(t, sessions)

	_, err := svc.Book(context.Background(), sess, "KUBERA", "A1:premium,A2:silver")
	assert.ErrorIs(t, err, ErrUnknownSeatType)

	// Whole submission aborts: no durable row, no session record.
	assert.Empty(t, store.rows)
	saved, err := sessions.Get(context.Background(), sess.Token)
	require.NoError(t, err)
	assert.Empty(t, saved.Bookings)
}

func TestBookNoSeats(t *testing.T) {
	sessions := session.NewMemoryStore(time.Minute)
	store := &fakeBookingStore{}
	svc := newBookingService(store, nil, nil, sessions)
	sess := authedSession(t, sessions)

	for _, raw := range []string{"", " ", ", ,"} {
		_, err := svc.Book(context.Background(), sess, "KUBERA", raw)
		assert.ErrorIs(t, err, ErrNoSeatsSelected, "raw=%q", raw)
	}
	assert.Empty(t, store.rows)
}

func TestBookUnknownMovie(t *testing.T) {
	sessions := session.NewMemoryStore(time.Minute)
	svc := newBookingService(&fakeBookingStore{}, nil, nil, sessions)
	sess := authedSession(t, sessions)

	_, err := svc.Book(context.Background(), sess, "NOPE", "A1")
	assert.ErrorIs(t, err, catalog.ErrMovieNotFound)
}

func TestBookSideEffectFailuresAreSwallowed(t *testing.T) {
	sessions := session.NewMemoryStore(time.Minute)
	store := &fakeBookingStore{}
	mir := &fakeMirror{err: errors.New("mirror down")}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := newBookingService(store, mir, pub, sessions)
	sess := authedSession(t, sessions)

	res, err := svc.Book(context.Background(), sess, "ANIMAL", "C1,C2")
	require.NoError(t, err) // mirror/publish failures never surface
	assert.Equal(t, 600, res.Total)
	require.Len(t, store.rows, 1) // the committed row stays committed
}

func TestBookDurableInsertFailure(t *testing.T) {
	sessions := session.NewMemoryStore(time.Minute)
	store := &fakeBookingStore{err: errors.New("db down")}
	mir := &fakeMirror{}
	svc := newBookingService(store, mir, nil, sessions)
	sess := authedSession(t, sessions)

	_, err := svc.Book(context.Background(), sess, "KUBERA", "A1")
	require.Error(t, err)

	// Primary failure stops everything: no session record, no mirror call.
	saved, err2 := sessions.Get(context.Background(), sess.Token)
	require.NoError(t, err2)
	assert.Empty(t, saved.Bookings)
	assert.Zero(t, mir.calls)
}

func TestSeatsRoundTrip(t *testing.T) {
	sessions := session.NewMemoryStore(time.Minute)
	store := &fakeBookingStore{}
	svc := newBookingService(store, nil, nil, sessions)
	sess := authedSession(t, sessions)

	res, err := svc.Book(context.Background(), sess, "KUBERA", "A1:premium, B7:gold ,C3:premium")
	require.NoError(t, err)

	// The joined column must split back into the original ordered list.
	require.Len(t, store.rows, 1)
	assert.Equal(t, res.Seats, strings.Split(store.rows[0].Seats, ","))
	assert.Equal(t, []string{"A1", "B7", "C3"}, res.Seats)
}
