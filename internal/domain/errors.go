package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrInvalidEvent          = errors.New("invalid event")
	ErrEmailTaken            = errors.New("email already registered")
	ErrPersistence           = errors.New("persistence failure")
)

// InsufficientInventoryError reports the tickets left at the time the
// reservation was rejected.
type InsufficientInventoryError struct {
	Remaining int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory: only %d left", e.Remaining)
}

func (e *InsufficientInventoryError) Is(target error) bool {
	return target == ErrInsufficientInventory
}

// ValidationError carries a user-facing message for a rejected event form.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidEvent
}

// RemainingFrom extracts the remaining count from an inventory rejection.
func RemainingFrom(err error) (int, bool) {
	var inv *InsufficientInventoryError
	if errors.As(err, &inv) {
		return inv.Remaining, true
	}
	return 0, false
}

// Persistence wraps an infrastructure failure so callers can tell it apart
// from user-correctable validation errors.
func Persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
