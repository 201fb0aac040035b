// Package mirror writes a best-effort copy of each booking into a Redis
// keyed table. The mirror is non-authoritative: write failures are logged
// by the caller and never block or roll back the durable booking row.
package mirror

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Store mirrors bookings as Redis hashes. The key is a composite of email
// and movie title, so a later booking of the same movie by the same user
// overwrites the mirror entry; the durable ledger keeps every row.
type Store struct{ rdb *redis.Client }

func New(rdb *redis.Client) *Store { return &Store{rdb: rdb} }

// Key returns the mirror key for an email/movie pair.
func Key(email, movie string) string {
	return "mirror:booking:" + email + "_" + movie
}

// PutBooking upserts the mirror entry for one booking.
func (s *Store) PutBooking(ctx context.Context, email, movie string, seats []string, total int) error {
	return s.rdb.HSet(ctx, Key(email, movie), map[string]interface{}{
		"email": email,
		"movie": movie,
		"seats": strings.Join(seats, ","),
		"total": total,
	}).Err()
}
