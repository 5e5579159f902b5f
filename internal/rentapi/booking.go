package rentapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Domenick1991/staybook/internal/domain"
)

func (c *Client) CheckAvailability(ctx context.Context, sess *domain.Session, listingID string, stay domain.Stay) (domain.Availability, error) {
	q := url.Values{}
	q.Set("from", stay.From())
	q.Set("to", stay.To())
	path := "/api/house/" + url.PathEscape(listingID) + "/check?" + q.Encode()

	var out domain.Availability
	if err := c.doJSON(ctx, sess, protected, http.MethodGet, path, nil, &out); err != nil {
		return domain.Availability{}, err
	}
	return out, nil
}

type createBookingRequest struct {
	HouseID  string             `json:"houseId"`
	CheckIn  string             `json:"checkIn"`
	CheckOut string             `json:"checkOut"`
	Guests   domain.GuestCounts `json:"guests"`
}

// CreateBooking creates a pending booking and its payment order. It is not idempotent.
func (c *Client) CreateBooking(ctx context.Context, sess *domain.Session, listingID string, stay domain.Stay, guests domain.GuestCounts) (domain.PaymentOrder, error) {
	req := createBookingRequest{
		HouseID:  listingID,
		CheckIn:  stay.CheckInDate(),
		CheckOut: stay.CheckOutDate(),
		Guests:   guests,
	}
	var out domain.PaymentOrder
	if err := c.doJSON(ctx, sess, protected, http.MethodPost, "/api/booking/booking", req, &out); err != nil {
		return domain.PaymentOrder{}, err
	}
	return out, nil
}

type verifyPaymentRequest struct {
	BookingID         string `json:"bookingId"`
	RazorpayPaymentID string `json:"razorpayPaymentId"`
	RazorpayOrderID   string `json:"razorpayOrderId"`
	RazorpaySignature string `json:"razorpaySignature"`
}

func (c *Client) VerifyPayment(ctx context.Context, sess *domain.Session, bookingID string, receipt domain.PaymentReceipt) error {
	req := verifyPaymentRequest{
		BookingID:         bookingID,
		RazorpayPaymentID: receipt.PaymentID,
		RazorpayOrderID:   receipt.OrderID,
		RazorpaySignature: receipt.Signature,
	}
	return c.doJSON(ctx, sess, protected, http.MethodPost, "/api/booking/verify", req, nil)
}

// ListBookings returns the bookings visible to the session's user.
func (c *Client) ListBookings(ctx context.Context, sess *domain.Session) ([]domain.BookingRecord, error) {
	var out []domain.BookingRecord
	if err := c.doJSON(ctx, sess, protected, http.MethodGet, "/api/booking/booking", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CancelBooking(ctx context.Context, sess *domain.Session, bookingID string) error {
	return c.doJSON(ctx, sess, protected, http.MethodDelete, "/api/booking/"+url.PathEscape(bookingID), nil, nil)
}
