package wizard

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound = errors.New("wizard session not found")

	// ErrNotImplemented is returned by the confirmation actions, which belong
	// to document, calendar and email services this module does not talk to.
	ErrNotImplemented = errors.New("not implemented")
)

const (
	CodeStepMismatch          = "STEP_MISMATCH"
	CodeNoBackFromFirstStep   = "NO_BACK_FROM_FIRST_STEP"
	CodeNoNextFromLastStep    = "NO_NEXT_FROM_LAST_STEP"
	CodeNoDestinationSelected = "NO_DESTINATION_SELECTED"
	CodeNoTourSelected        = "NO_TOUR_SELECTED"
	CodePaymentInProgress     = "PAYMENT_IN_PROGRESS"
	CodeBookingCompleted      = "BOOKING_COMPLETED"
)

// StateError means the request is well formed but the session is not in a
// state that allows it.
type StateError struct {
	Code    string
	Message string
}

func (e StateError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func stepMismatch(at, want Step) StateError {
	return StateError{
		Code:    CodeStepMismatch,
		Message: fmt.Sprintf("session is on step %s, not step %s", at, want),
	}
}
