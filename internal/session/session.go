// Package session implements the server-side browser session. Each session
// is keyed by an opaque random token carried in an HttpOnly cookie; the
// token maps to a JSON document holding the authenticated email, the
// in-session booking records enriched by the payment workflow, the last
// payment record, and pending flash messages. Sessions expire by TTL and
// are destroyed on logout.
package session

import (
	"context"
	"errors"

	"github.com/NagasuriRaviTeja/movie-magic/internal/model"
)

// ErrNotFound is returned when a token does not resolve to a live session,
// either because it never existed or because it expired.
var ErrNotFound = errors.New("session not found")

// Session is the per-browser state object. It is loaded once per request by
// middleware and passed explicitly into the workflow methods that mutate
// it; mutations only stick after Store.Save.
type Session struct {
	Token       string                 `json:"-"`
	Email       string                 `json:"email"`
	Bookings    []model.SessionBooking `json:"bookings"`
	PaymentInfo *model.PaymentInfo     `json:"payment_info,omitempty"`
	Flash       []string               `json:"flash,omitempty"`
}

// Authenticated reports whether the session belongs to a logged-in user.
// Anonymous sessions exist only to carry flash messages across redirects.
func (s *Session) Authenticated() bool { return s != nil && s.Email != "" }

// AddFlash queues a message to be shown on the next rendered view.
func (s *Session) AddFlash(msg string) { s.Flash = append(s.Flash, msg) }

// PopFlashes returns the pending messages and clears the queue. The caller
// must Save the session afterwards so each message is shown exactly once.
func (s *Session) PopFlashes() []string {
	out := s.Flash
	s.Flash = nil
	return out
}

// AppendBooking adds an in-session booking record.
func (s *Session) AppendBooking(b model.SessionBooking) {
	s.Bookings = append(s.Bookings, b)
}

// Store persists sessions. The Redis implementation is authoritative; the
// in-memory one exists as the degraded mode when Redis is unreachable and
// as the test double.
type Store interface {
	// Create allocates a fresh session with a new opaque token. An empty
	// email creates an anonymous session.
	Create(ctx context.Context, email string) (*Session, error)
	// Get resolves a token to its session or returns ErrNotFound.
	Get(ctx context.Context, token string) (*Session, error)
	// Save writes the session back and refreshes its TTL.
	Save(ctx context.Context, s *Session) error
	// Delete destroys the session immediately.
	Delete(ctx context.Context, token string) error
}
