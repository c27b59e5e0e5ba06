package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	InvalidQuantityMessage = "Please enter a valid number of tickets."
	GenericFailureMessage  = "Something went wrong. Please try again."
)

// BookingRequest is the raw purchase request. Quantity is the unparsed form value.
type BookingRequest struct {
	EventID  string
	UserID   string
	Quantity string
}

type BookingResult struct {
	BookingID        string
	EventID          string
	RemainingTickets int
	TotalPriceCents  int64
	QuantityBooked   int
	Currency         string
	BookedAt         time.Time
}

// ReserveInput is the delta applied atomically to an event's inventory and ledger.
type ReserveInput struct {
	EventID        string
	UserID         string
	Quantity       int
	TotalPaidCents int64
}

// ParseQuantity accepts a positive base-10 integer.
func ParseQuantity(raw string) (int, error) {
	q, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || q <= 0 {
		return 0, ErrInvalidQuantity
	}
	return q, nil
}

func InsufficientMessage(remaining int) string {
	return fmt.Sprintf("Cannot Complete Booking Process. Not enough tickets available. Only %d left.", remaining)
}

func SuccessMessage(quantity int, totalCents int64, currency string) string {
	return fmt.Sprintf("You successfully booked %d ticket(s) for %s %s", quantity, FormatAmount(totalCents), currency)
}
