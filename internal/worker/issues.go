package worker

import (
	"context"
	"fmt"
	"log"

	"github.com/Domenick1991/staybook/internal/domain"
	"github.com/Domenick1991/staybook/internal/kafka"
	"github.com/Domenick1991/staybook/internal/repository"
)

type Notifier interface {
	Send(ctx context.Context, event kafka.AttemptEvent) error
}

// IssueRecorder turns attempt events into payment issue rows and outbound mail.
type IssueRecorder struct {
	issues   repository.PaymentIssueRepository
	notifier Notifier
}

func NewIssueRecorder(issues repository.PaymentIssueRepository, notifier Notifier) *IssueRecorder {
	return &IssueRecorder{issues: issues, notifier: notifier}
}

func (r *IssueRecorder) Handle(ctx context.Context, event kafka.AttemptEvent) error {
	switch event.Type {
	case kafka.EventAttemptVerificationFailed:
		issue := &domain.PaymentIssue{
			AttemptID: event.AttemptID,
			BookingID: event.BookingID,
			ListingID: event.ListingID,
			OrderID:   event.OrderID,
			PaymentID: event.PaymentID,
			Signature: event.Signature,
			UserEmail: event.UserEmail,
			Amount:    event.Amount,
			Reason:    event.Reason,
			CreatedAt: event.At,
		}
		if err := r.issues.Create(ctx, issue); err != nil {
			return fmt.Errorf("record payment issue for attempt %s: %w", event.AttemptID, err)
		}
		log.Printf("recorded payment issue for attempt %s (order %s)", event.AttemptID, event.OrderID)
	case kafka.EventAttemptVerified:
	default:
		return nil
	}

	if err := r.notifier.Send(ctx, event); err != nil {
		log.Printf("notify about attempt %s: %v", event.AttemptID, err)
	}
	return nil
}
