package booking

import (
	"errors"

	"github.com/Domenick1991/eventbooking/internal/domain"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

type Outcome string

const (
	OutcomeBooked                Outcome = "booked"
	OutcomeNotFound              Outcome = "not_found"
	OutcomeUnauthenticated       Outcome = "unauthenticated"
	OutcomeForbidden             Outcome = "forbidden"
	OutcomeInvalidQuantity       Outcome = "invalid_quantity"
	OutcomeInsufficientInventory Outcome = "insufficient_inventory"
)

const (
	EventsPath = "/events"
	SignInPath = "/auth/sign-in"
)

// Response is what the web layer renders for a booking attempt. Redirect is
// set when the caller should navigate away instead of showing Message.
type Response struct {
	Outcome  Outcome
	Status   Status
	Message  string
	Redirect string
	Result   *domain.BookingResult
}

// Present turns the outcome of Book into a response. Validation failures
// become messages; only persistence failures are returned as errors.
func Present(eventID string, res *domain.BookingResult, err error) (Response, error) {
	if err == nil {
		if res == nil {
			return Response{}, errors.New("booking: nil result without error")
		}
		return Response{
			Outcome: OutcomeBooked,
			Status:  StatusSuccess,
			Message: domain.SuccessMessage(res.QuantityBooked, res.TotalPriceCents, res.Currency),
			Result:  res,
		}, nil
	}

	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		return Response{Outcome: OutcomeNotFound, Status: StatusError, Redirect: EventsPath}, nil
	case errors.Is(err, domain.ErrUnauthenticated):
		return Response{Outcome: OutcomeUnauthenticated, Status: StatusError, Redirect: SignInPath}, nil
	case errors.Is(err, domain.ErrForbidden):
		return Response{Outcome: OutcomeForbidden, Status: StatusError, Redirect: EventsPath + "/" + eventID}, nil
	case errors.Is(err, domain.ErrInvalidQuantity):
		return Response{Outcome: OutcomeInvalidQuantity, Status: StatusError, Message: domain.InvalidQuantityMessage}, nil
	case errors.Is(err, domain.ErrInsufficientInventory):
		remaining, _ := domain.RemainingFrom(err)
		return Response{Outcome: OutcomeInsufficientInventory, Status: StatusError, Message: domain.InsufficientMessage(remaining)}, nil
	}
	return Response{}, err
}
