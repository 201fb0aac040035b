// Package queue defines message payloads exchanged over the message broker
// and the publisher/consumer pair that moves them. The broker stands in for
// a publish-subscribe notification topic: deliveries are best-effort and
// non-authoritative.
package queue

// Event types carried on the booking.events queue.
const (
	TypeBookingCreated   = "booking.created"
	TypePaymentConfirmed = "payment.confirmed"
)

// Event is the single payload shape for booking and payment notifications.
// It contains enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database. Method and
// PaymentRef are set only on payment.confirmed events.
type Event struct {
	Type       string   `json:"type"`
	Email      string   `json:"email"`
	Movie      string   `json:"movie"`
	Seats      []string `json:"seats"`
	Total      int      `json:"total"`
	Method     string   `json:"method,omitempty"`
	PaymentRef string   `json:"payment_ref,omitempty"`
	OccurredAt string   `json:"occurred_at"`
}
