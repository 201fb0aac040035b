// Package service implements the two request workflows of the site:
// seat submission (booking) and mock payment processing. Both operate on
// an explicitly passed session object and a set of narrow store interfaces
// so they can be exercised without live infrastructure.
package service

import "errors"

// ErrNoSeatsSelected is returned when the submitted seat list is empty
// after parsing.
var ErrNoSeatsSelected = errors.New("no seats selected")

// ErrUnknownSeatType is returned when a seat carries a type tag outside
// premium/gold. The whole submission aborts; no durable row is written.
var ErrUnknownSeatType = errors.New("unknown seat type")

// ErrUnknownPaymentMethod is returned for a method outside the supported
// set.
var ErrUnknownPaymentMethod = errors.New("unknown payment method")

// ErrInvalidPaymentDetails is returned when a required field for the chosen
// method is missing or malformed. The wrapped message names the field so
// the flash can tell the user what to fix.
var ErrInvalidPaymentDetails = errors.New("invalid payment details")
