package email

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Domenick1991/staybook/internal/kafka"
)

// Sender mails guests about confirmed bookings and support about payments the
// backend refused to verify.
type Sender struct {
	support string
	out     io.Writer
}

func NewSender(supportAddress string) *Sender {
	return &Sender{support: supportAddress, out: os.Stdout}
}

func (s *Sender) Send(ctx context.Context, event kafka.AttemptEvent) error {
	switch event.Type {
	case kafka.EventAttemptVerified:
		if event.UserEmail == "" {
			return nil
		}
		_, err := fmt.Fprintf(s.out, "send email to %s: booking %s confirmed for %s to %s\n",
			event.UserEmail, event.BookingID, event.CheckIn, event.CheckOut)
		return err
	case kafka.EventAttemptVerificationFailed:
		_, err := fmt.Fprintf(s.out, "send email to %s: payment %s for order %s (booking %s, user %s) was not verified: %s\n",
			s.support, event.PaymentID, event.OrderID, event.BookingID, event.UserEmail, event.Reason)
		return err
	default:
		return nil
	}
}
