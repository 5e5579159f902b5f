package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned when a protected action runs without a usable credential.
	ErrUnauthenticated = errors.New("please login first")
	// ErrInvalidRange is returned for stays whose check-out is not after check-in.
	ErrInvalidRange = errors.New("invalid stay range")
	// ErrAvailabilityUnknown is returned when the availability check could not be completed.
	ErrAvailabilityUnknown = errors.New("could not check availability")
	// ErrBookingRejected is returned when the backend declined to create the booking.
	ErrBookingRejected = errors.New("booking rejected")
	// ErrVerificationFailed is returned when the backend rejected a payment receipt.
	ErrVerificationFailed = errors.New("payment verification failed")
	// ErrEligibilityUnknown is returned when the review eligibility check failed.
	ErrEligibilityUnknown = errors.New("could not check review eligibility")
	// ErrNotRegistered is returned by login for unknown accounts.
	ErrNotRegistered = errors.New("user not registered")
)

// RejectedError carries the backend's message verbatim.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}

func (e *RejectedError) Unwrap() error {
	return ErrBookingRejected
}

// TransitionError reports an operation attempted from the wrong attempt state.
type TransitionError struct {
	Op   string
	From AttemptStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s booking attempt in state %s", e.Op, e.From)
}
