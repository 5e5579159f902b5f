package email

import (
	"bytes"
	"context"
	"testing"

	"github.com/Domenick1991/staybook/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSender() (*Sender, *bytes.Buffer) {
	var buf bytes.Buffer
	s := NewSender("help@staybook.test")
	s.out = &buf
	return s, &buf
}

func TestSender_VerificationFailedGoesToSupport(t *testing.T) {
	s, buf := newTestSender()

	err := s.Send(context.Background(), kafka.AttemptEvent{
		Type:      kafka.EventAttemptVerificationFailed,
		BookingID: "bk_1",
		OrderID:   "order_1",
		PaymentID: "pay_1",
		UserEmail: "guest@example.com",
		Reason:    "Signature mismatch",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "send email to help@staybook.test")
	assert.Contains(t, buf.String(), "pay_1")
	assert.Contains(t, buf.String(), "Signature mismatch")
}

func TestSender_VerifiedGoesToGuest(t *testing.T) {
	s, buf := newTestSender()

	err := s.Send(context.Background(), kafka.AttemptEvent{
		Type:      kafka.EventAttemptVerified,
		BookingID: "bk_1",
		UserEmail: "guest@example.com",
		CheckIn:   "2025-01-10",
		CheckOut:  "2025-01-12",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "send email to guest@example.com: booking bk_1 confirmed")
}

func TestSender_IgnoresOtherEvents(t *testing.T) {
	s, buf := newTestSender()

	require.NoError(t, s.Send(context.Background(), kafka.AttemptEvent{Type: kafka.EventAttemptSubmitted, UserEmail: "guest@example.com"}))
	require.NoError(t, s.Send(context.Background(), kafka.AttemptEvent{Type: kafka.EventAttemptVerified}))
	assert.Empty(t, buf.String())
}
