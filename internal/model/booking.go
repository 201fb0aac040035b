package model

// Booking mirrors the 'bookings' table. Seats is the comma-joined seat
// name list exactly as stored; splitting on "," reproduces the original
// ordered selection.
type Booking struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Movie string `json:"movie"`
	Seats string `json:"seats"`
	Total int    `json:"total"`
}

// SessionBooking is the richer, session-scoped record built by the booking
// and payment workflows. It exists only for the lifetime of the session and
// is never reconciled with the durable rows.
type SessionBooking struct {
	Movie          string            `json:"movie"`
	Seats          []string          `json:"seats"`
	Total          int               `json:"total"`
	PaymentMethod  string            `json:"payment_method,omitempty"`
	PaymentDetails map[string]string `json:"payment_details,omitempty"`
	PaymentRef     string            `json:"payment_ref,omitempty"`
	Timestamp      string            `json:"timestamp,omitempty"`
}

// PaymentInfo is the last recorded payment for the session, shown on the
// ticket confirmation view. Details only ever hold masked values.
type PaymentInfo struct {
	Method    string            `json:"method"`
	Details   map[string]string `json:"details"`
	Ref       string            `json:"ref,omitempty"`
	Timestamp string            `json:"timestamp"`
}
