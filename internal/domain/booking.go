package domain

import "time"

type AttemptStatus string

const (
	AttemptDraft                   AttemptStatus = "DRAFT"
	AttemptAvailabilityChecked     AttemptStatus = "AVAILABILITY_CHECKED"
	AttemptSubmitted               AttemptStatus = "SUBMITTED"
	AttemptPaymentCallbackReceived AttemptStatus = "PAYMENT_CALLBACK_RECEIVED"
	AttemptVerified                AttemptStatus = "VERIFIED"
	AttemptVerificationFailed      AttemptStatus = "VERIFICATION_FAILED"
	AttemptAbandoned               AttemptStatus = "ABANDONED"
)

func (s AttemptStatus) Terminal() bool {
	switch s {
	case AttemptVerified, AttemptVerificationFailed, AttemptAbandoned:
		return true
	}
	return false
}

type GuestCounts struct {
	Adults   int `json:"adults" validate:"gte=0"`
	Children int `json:"children" validate:"gte=0"`
	Infants  int `json:"infants" validate:"gte=0"`
	Pets     int `json:"pets" validate:"gte=0"`
}

func (g GuestCounts) Total() int {
	return g.Adults + g.Children + g.Infants + g.Pets
}

type Availability struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

func (a Availability) Message() string {
	if a.Available {
		return "✅ Available! You can proceed to book."
	}
	return "❌ Not Available: " + a.Reason
}

// PaymentOrder is what the backend returns when it creates a pending booking.
type PaymentOrder struct {
	OrderID   string `json:"orderId"`
	Amount    int64  `json:"amount"`
	BookingID string `json:"bookingId"`
}

// PaymentReceipt is the payload of the payment widget's completion callback.
type PaymentReceipt struct {
	PaymentID string `json:"razorpay_payment_id"`
	OrderID   string `json:"razorpay_order_id"`
	Signature string `json:"razorpay_signature"`
}

// Attempt tracks one listing/stay/guest-count combination through payment verification.
type Attempt struct {
	ID           string
	SessionID    string
	ListingID    string
	Stay         Stay
	Guests       GuestCounts
	Status       AttemptStatus
	Availability *Availability
	Order        *PaymentOrder
	Receipt      *PaymentReceipt
	Failure      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Revise replaces the stay and guests. Any earlier availability result is discarded.
func (a *Attempt) Revise(stay Stay, guests GuestCounts, now time.Time) error {
	if a.Status != AttemptDraft && a.Status != AttemptAvailabilityChecked {
		return &TransitionError{Op: "revise", From: a.Status}
	}
	a.Stay = stay
	a.Guests = guests
	a.Availability = nil
	a.Status = AttemptDraft
	a.UpdatedAt = now
	return nil
}

// RecordAvailability stores a check result. Only a positive result advances the attempt.
func (a *Attempt) RecordAvailability(av Availability, now time.Time) error {
	if a.Status != AttemptDraft && a.Status != AttemptAvailabilityChecked {
		return &TransitionError{Op: "check availability for", From: a.Status}
	}
	a.Availability = &av
	if av.Available {
		a.Status = AttemptAvailabilityChecked
	} else {
		a.Status = AttemptDraft
	}
	a.UpdatedAt = now
	return nil
}

func (a *Attempt) MarkSubmitted(order PaymentOrder, now time.Time) error {
	if a.Status != AttemptAvailabilityChecked || a.Availability == nil || !a.Availability.Available {
		return &TransitionError{Op: "submit", From: a.Status}
	}
	a.Order = &order
	a.Status = AttemptSubmitted
	a.UpdatedAt = now
	return nil
}

func (a *Attempt) ReceiveCallback(r PaymentReceipt, now time.Time) error {
	if a.Status != AttemptSubmitted {
		return &TransitionError{Op: "receive payment for", From: a.Status}
	}
	a.Receipt = &r
	a.Status = AttemptPaymentCallbackReceived
	a.UpdatedAt = now
	return nil
}

func (a *Attempt) MarkVerified(now time.Time) error {
	if a.Status != AttemptPaymentCallbackReceived {
		return &TransitionError{Op: "verify", From: a.Status}
	}
	a.Status = AttemptVerified
	a.UpdatedAt = now
	return nil
}

func (a *Attempt) MarkVerificationFailed(reason string, now time.Time) error {
	if a.Status != AttemptPaymentCallbackReceived {
		return &TransitionError{Op: "fail verification of", From: a.Status}
	}
	a.Status = AttemptVerificationFailed
	a.Failure = reason
	a.UpdatedAt = now
	return nil
}

// Abandon ends an attempt whose payment widget was closed without a callback.
func (a *Attempt) Abandon(now time.Time) error {
	if a.Status != AttemptSubmitted {
		return &TransitionError{Op: "abandon", From: a.Status}
	}
	a.Status = AttemptAbandoned
	a.UpdatedAt = now
	return nil
}

// Message is the user-facing line for the attempt's current state.
func (a *Attempt) Message() string {
	switch a.Status {
	case AttemptVerified:
		return "✅ Booking Confirmed!"
	case AttemptVerificationFailed:
		return "❌ Payment could not be verified. Support has been notified."
	case AttemptAbandoned:
		return "Payment was not completed."
	}
	if a.Availability != nil {
		return a.Availability.Message()
	}
	return ""
}

// BookingRecord is a booking as listed by the admin console.
type BookingRecord struct {
	ID            string    `json:"_id"`
	User          *User     `json:"userId,omitempty"`
	House         *Listing  `json:"houseId,omitempty"`
	CheckIn       time.Time `json:"checkIn"`
	CheckOut      time.Time `json:"checkOut"`
	TotalAmount   int64     `json:"totalAmount"`
	BookingStatus string    `json:"bookingStatus"`
}
