package domain

import "time"

// PaymentIssue records a payment the widget confirmed but the backend refused to verify.
type PaymentIssue struct {
	ID         int64
	AttemptID  string
	BookingID  string
	ListingID  string
	OrderID    string
	PaymentID  string
	Signature  string
	UserEmail  string
	Amount     int64
	Reason     string
	Resolved   bool
	CreatedAt  time.Time
	ResolvedAt *time.Time
}
