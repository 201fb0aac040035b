package repository

import (
	"context"
	"database/sql"

	"github.com/NagasuriRaviTeja/movie-magic/internal/model"
)

// BookingRepo provides access to the append-only bookings ledger. Rows are
// inserted on seat submission and never updated or deleted.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

// Create inserts one booking row and returns its generated ID. Seats must
// already be comma-joined by the caller.
func (r *BookingRepo) Create(ctx context.Context, email, movie, seats string, total int) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO bookings (email, movie, seats, total) VALUES (?,?,?,?)",
		email, movie, seats, total)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByEmail returns all bookings for the given account in insertion
// order. The seats column is returned joined; callers split it for display.
func (r *BookingRepo) ListByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,email,movie,seats,total FROM bookings WHERE email=? ORDER BY id",
		email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.Email, &b.Movie, &b.Seats, &b.Total); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
