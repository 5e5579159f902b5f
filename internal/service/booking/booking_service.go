package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Domenick1991/staybook/internal/domain"
	"github.com/Domenick1991/staybook/internal/kafka"
	"github.com/Domenick1991/staybook/internal/payment"
	"github.com/Domenick1991/staybook/internal/rentapi"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrAttemptNotFound = errors.New("booking attempt not found")
	// ErrAttemptBusy is returned while an availability check or submission of the attempt is in flight.
	ErrAttemptBusy = errors.New("booking attempt has an operation in progress")
	// ErrDuplicateSubmission is returned while another order for the same user, listing and stay is open.
	ErrDuplicateSubmission = errors.New("a payment for this stay is already in progress")
)

type BookingUseCase interface {
	StartAttempt(ctx context.Context, sess *domain.Session, input AttemptInput) (*domain.Attempt, error)
	Revise(ctx context.Context, sess *domain.Session, id string, input AttemptInput) (*domain.Attempt, error)
	CheckAvailability(ctx context.Context, sess *domain.Session, id string) (*domain.Attempt, error)
	Submit(ctx context.Context, sess *domain.Session, id string) (*domain.Attempt, payment.Options, error)
	DeliverCallback(ctx context.Context, sess *domain.Session, id string, receipt domain.PaymentReceipt) error
	Dismiss(ctx context.Context, sess *domain.Session, id string) error
	Get(ctx context.Context, sess *domain.Session, id string) (*domain.Attempt, error)
	Wait(ctx context.Context, sess *domain.Session, id string) (*domain.Attempt, error)
}

type API interface {
	CheckAvailability(ctx context.Context, sess *domain.Session, listingID string, stay domain.Stay) (domain.Availability, error)
	CreateBooking(ctx context.Context, sess *domain.Session, listingID string, stay domain.Stay, guests domain.GuestCounts) (domain.PaymentOrder, error)
	VerifyPayment(ctx context.Context, sess *domain.Session, bookingID string, receipt domain.PaymentReceipt) error
}

type Locker interface {
	AcquireOrderLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseOrderLock(ctx context.Context, key string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// EligibilityChecker is asked once per verified payment whether the listing can now be reviewed.
type EligibilityChecker interface {
	CheckEligibility(ctx context.Context, sess *domain.Session, listingID string) (domain.Eligibility, error)
}

type AttemptInput struct {
	ListingID string             `json:"listing_id" validate:"required"`
	Stay      domain.Stay        `json:"-"`
	Guests    domain.GuestCounts `json:"guests"`
}

type FlowService struct {
	api      API
	gateway  *payment.Gateway
	locks    Locker
	producer Producer
	checker  EligibilityChecker
	validate *validator.Validate

	eventsTopic string
	lockTTL     time.Duration
	now         func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	attempts map[string]*entry
}

type entry struct {
	attempt    domain.Attempt
	session    *domain.Session
	submitting bool
	checking   bool
	lockKey    string
	done       chan struct{}
}

type FlowServiceOption func(*FlowService)

func WithEventsTopic(topic string) FlowServiceOption {
	return func(s *FlowService) {
		s.eventsTopic = topic
	}
}

func WithOrderLocks(locks Locker, ttl time.Duration) FlowServiceOption {
	return func(s *FlowService) {
		s.locks = locks
		s.lockTTL = ttl
	}
}

func WithEligibilityChecker(p EligibilityChecker) FlowServiceOption {
	return func(s *FlowService) {
		s.checker = p
	}
}

func WithClock(now func() time.Time) FlowServiceOption {
	return func(s *FlowService) {
		s.now = now
	}
}

func NewFlowService(api API, gateway *payment.Gateway, producer Producer, opts ...FlowServiceOption) *FlowService {
	ctx, cancel := context.WithCancel(context.Background())
	service := &FlowService{
		api:      api,
		gateway:  gateway,
		producer: producer,
		validate: validator.New(),
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
		attempts: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// StartAttempt opens a Draft attempt for the session.
func (s *FlowService) StartAttempt(ctx context.Context, sess *domain.Session, input AttemptInput) (*domain.Attempt, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid booking input: %w", err)
	}

	now := s.now()
	e := &entry{
		attempt: domain.Attempt{
			ID:        uuid.NewString(),
			SessionID: sessionID(sess),
			ListingID: input.ListingID,
			Stay:      input.Stay,
			Guests:    input.Guests,
			Status:    domain.AttemptDraft,
			CreatedAt: now,
			UpdatedAt: now,
		},
		session: sess,
		done:    make(chan struct{}),
	}

	s.mu.Lock()
	s.attempts[e.attempt.ID] = e
	s.mu.Unlock()

	return snapshot(e), nil
}

// Revise replaces stay and guests and discards any previous availability result.
func (s *FlowService) Revise(ctx context.Context, sess *domain.Session, id string, input AttemptInput) (*domain.Attempt, error) {
	if err := s.validate.Struct(input.Guests); err != nil {
		return nil, fmt.Errorf("invalid guest counts: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(sess, id)
	if err != nil {
		return nil, err
	}
	if e.checking || e.submitting {
		return nil, ErrAttemptBusy
	}
	if err := e.attempt.Revise(input.Stay, input.Guests, s.now()); err != nil {
		return nil, err
	}
	return snapshot(e), nil
}

// CheckAvailability validates the stay locally and asks the backend once.
// A stay that fails validation never reaches the network.
func (s *FlowService) CheckAvailability(ctx context.Context, sess *domain.Session, id string) (*domain.Attempt, error) {
	s.mu.Lock()
	e, err := s.lookup(sess, id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	status := e.attempt.Status
	if status != domain.AttemptDraft && status != domain.AttemptAvailabilityChecked {
		s.mu.Unlock()
		return nil, &domain.TransitionError{Op: "check availability for", From: status}
	}
	if e.checking || e.submitting {
		s.mu.Unlock()
		return nil, ErrAttemptBusy
	}
	stay, listingID := e.attempt.Stay, e.attempt.ListingID
	if err := stay.Validate(s.now()); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	e.checking = true
	s.mu.Unlock()

	av, apiErr := s.api.CheckAvailability(ctx, sess, listingID, stay)

	s.mu.Lock()
	defer s.mu.Unlock()
	e.checking = false

	if apiErr != nil {
		_ = e.attempt.Revise(e.attempt.Stay, e.attempt.Guests, s.now())
		if errors.Is(apiErr, domain.ErrUnauthenticated) {
			return nil, apiErr
		}
		log.Printf("availability check for listing %s failed: %v", listingID, apiErr)
		return nil, fmt.Errorf("%w: %v", domain.ErrAvailabilityUnknown, apiErr)
	}
	if err := e.attempt.RecordAvailability(av, s.now()); err != nil {
		return nil, err
	}
	return snapshot(e), nil
}

// Submit creates the backend booking and opens the payment checkout for it.
// Only an attempt whose latest availability check succeeded can be submitted,
// and at most one order is ever created per attempt.
func (s *FlowService) Submit(ctx context.Context, sess *domain.Session, id string) (*domain.Attempt, payment.Options, error) {
	if err := sess.Require(); err != nil {
		return nil, payment.Options{}, err
	}

	s.mu.Lock()
	e, err := s.lookup(sess, id)
	if err != nil {
		s.mu.Unlock()
		return nil, payment.Options{}, err
	}
	a := e.attempt
	if e.checking || e.submitting {
		s.mu.Unlock()
		return nil, payment.Options{}, ErrAttemptBusy
	}
	if a.Status != domain.AttemptAvailabilityChecked || a.Availability == nil || !a.Availability.Available {
		s.mu.Unlock()
		return nil, payment.Options{}, &domain.TransitionError{Op: "submit", From: a.Status}
	}
	e.submitting = true
	s.mu.Unlock()

	order, lockKey, err := s.createOrder(ctx, sess, a)
	if err != nil {
		s.mu.Lock()
		e.submitting = false
		s.mu.Unlock()
		return nil, payment.Options{}, err
	}

	// The backend order exists from here on. Every failure below leaves the
	// attempt terminal so it can never create a second order.
	s.mu.Lock()
	if s.attempts[id] != e {
		s.mu.Unlock()
		s.releaseLock(lockKey)
		log.Printf("attempt %s was dropped while order %s was created", id, order.OrderID)
		return nil, payment.Options{}, ErrAttemptNotFound
	}
	if err := e.attempt.MarkSubmitted(order, s.now()); err != nil {
		e.submitting = false
		s.mu.Unlock()
		s.releaseLock(lockKey)
		return nil, payment.Options{}, err
	}
	e.submitting = false
	e.session = sess

	checkout, err := s.gateway.Open(order)
	if err != nil {
		_ = e.attempt.Abandon(s.now())
		abandoned := snapshot(e)
		close(e.done)
		s.mu.Unlock()

		s.releaseLock(lockKey)
		log.Printf("opening checkout for order %s failed: %v", order.OrderID, err)
		s.publish(ctx, kafka.EventAttemptAbandoned, abandoned, sess)
		return nil, payment.Options{}, err
	}

	e.lockKey = lockKey
	submitted := snapshot(e)
	s.mu.Unlock()

	s.publish(ctx, kafka.EventAttemptSubmitted, submitted, sess)

	s.wg.Add(1)
	go s.awaitPayment(e, checkout)

	return submitted, checkout.Options(), nil
}

func (s *FlowService) createOrder(ctx context.Context, sess *domain.Session, a domain.Attempt) (domain.PaymentOrder, string, error) {
	lockKey := fmt.Sprintf("%s:%s:%s:%s", sess.User.ID, a.ListingID, a.Stay.CheckInDate(), a.Stay.CheckOutDate())
	if s.locks != nil {
		ok, err := s.locks.AcquireOrderLock(ctx, lockKey, s.lockTTL)
		if err != nil {
			return domain.PaymentOrder{}, "", fmt.Errorf("acquiring order lock: %w", err)
		}
		if !ok {
			return domain.PaymentOrder{}, "", ErrDuplicateSubmission
		}
	}

	order, err := s.api.CreateBooking(ctx, sess, a.ListingID, a.Stay, a.Guests)
	if err != nil {
		s.releaseLock(lockKey)
		if errors.Is(err, domain.ErrUnauthenticated) {
			return domain.PaymentOrder{}, "", err
		}
		return domain.PaymentOrder{}, "", &domain.RejectedError{Message: rentapi.MessageOf(err, "Booking failed")}
	}
	return order, lockKey, nil
}

// awaitPayment drives a submitted attempt to a terminal state.
func (s *FlowService) awaitPayment(e *entry, checkout *payment.Checkout) {
	defer s.wg.Done()
	defer close(e.done)

	ctx := s.ctx
	receipt, err := checkout.Await(ctx)

	s.mu.Lock()
	sess := e.session
	if err != nil {
		_ = e.attempt.Abandon(s.now())
		abandoned := snapshot(e)
		s.mu.Unlock()

		s.releaseLock(e.lockKey)
		s.publish(context.Background(), kafka.EventAttemptAbandoned, abandoned, sess)
		return
	}
	if err := e.attempt.ReceiveCallback(receipt, s.now()); err != nil {
		attemptID := e.attempt.ID
		s.mu.Unlock()
		s.releaseLock(e.lockKey)
		log.Printf("attempt %s: %v", attemptID, err)
		return
	}
	bookingID, listingID := e.attempt.Order.BookingID, e.attempt.ListingID
	s.mu.Unlock()

	verifyErr := s.api.VerifyPayment(context.Background(), sess, bookingID, receipt)

	s.mu.Lock()
	if verifyErr != nil {
		_ = e.attempt.MarkVerificationFailed(rentapi.MessageOf(verifyErr, domain.ErrVerificationFailed.Error()), s.now())
	} else {
		_ = e.attempt.MarkVerified(s.now())
	}
	final := snapshot(e)
	s.mu.Unlock()

	s.releaseLock(e.lockKey)

	if verifyErr != nil {
		log.Printf("payment verification for booking %s failed: %v", bookingID, verifyErr)
		s.publish(context.Background(), kafka.EventAttemptVerificationFailed, final, sess)
		return
	}

	s.publish(context.Background(), kafka.EventAttemptVerified, final, sess)
	if s.checker != nil {
		if _, err := s.checker.CheckEligibility(context.Background(), sess, listingID); err != nil {
			log.Printf("review eligibility after booking %s: %v", bookingID, err)
		}
	}
}

// DeliverCallback hands the payment widget's completion payload to the attempt.
func (s *FlowService) DeliverCallback(ctx context.Context, sess *domain.Session, id string, receipt domain.PaymentReceipt) error {
	orderID, err := s.openOrder(sess, id, "receive payment for")
	if err != nil {
		return err
	}
	return s.gateway.Deliver(orderID, receipt)
}

// Dismiss records that the payment widget was closed without completing.
func (s *FlowService) Dismiss(ctx context.Context, sess *domain.Session, id string) error {
	orderID, err := s.openOrder(sess, id, "abandon")
	if err != nil {
		return err
	}
	return s.gateway.Dismiss(orderID)
}

func (s *FlowService) openOrder(sess *domain.Session, id, op string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(sess, id)
	if err != nil {
		return "", err
	}
	if e.attempt.Status != domain.AttemptSubmitted || e.attempt.Order == nil {
		return "", &domain.TransitionError{Op: op, From: e.attempt.Status}
	}
	return e.attempt.Order.OrderID, nil
}

func (s *FlowService) Get(ctx context.Context, sess *domain.Session, id string) (*domain.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(sess, id)
	if err != nil {
		return nil, err
	}
	return snapshot(e), nil
}

// Wait blocks while the attempt is in its payment phase, then returns it.
// Attempts that were never submitted are returned immediately.
func (s *FlowService) Wait(ctx context.Context, sess *domain.Session, id string) (*domain.Attempt, error) {
	s.mu.Lock()
	e, err := s.lookup(sess, id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	pending := inPaymentPhase(e.attempt)
	s.mu.Unlock()

	if pending {
		select {
		case <-e.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.Get(ctx, sess, id)
}

// Sweep forgets attempts idle since before cutoff. Attempts still in their
// payment phase are kept.
func (s *FlowService) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.attempts {
		if e.checking || e.submitting || inPaymentPhase(e.attempt) {
			continue
		}
		if e.attempt.UpdatedAt.Before(cutoff) {
			delete(s.attempts, id)
			removed++
		}
	}
	return removed
}

// Close abandons every open checkout and waits for the payment goroutines.
func (s *FlowService) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *FlowService) lookup(sess *domain.Session, id string) (*entry, error) {
	e, ok := s.attempts[id]
	if !ok || e.attempt.SessionID != sessionID(sess) {
		return nil, ErrAttemptNotFound
	}
	return e, nil
}

func (s *FlowService) releaseLock(key string) {
	if s.locks == nil || key == "" {
		return
	}
	if err := s.locks.ReleaseOrderLock(context.Background(), key); err != nil {
		log.Printf("WARNING: failed to release order lock %s: %v", key, err)
	}
}

func (s *FlowService) publish(ctx context.Context, eventType string, a *domain.Attempt, sess *domain.Session) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.AttemptEvent{
		Type:      eventType,
		AttemptID: a.ID,
		ListingID: a.ListingID,
		Status:    string(a.Status),
		Reason:    a.Failure,
		CheckIn:   a.Stay.CheckInDate(),
		CheckOut:  a.Stay.CheckOutDate(),
		At:        a.UpdatedAt,
	}
	if sess != nil {
		event.UserEmail = sess.User.Email
	}
	if a.Order != nil {
		event.BookingID = a.Order.BookingID
		event.OrderID = a.Order.OrderID
		event.Amount = a.Order.Amount
	}
	if a.Receipt != nil {
		event.PaymentID = a.Receipt.PaymentID
		event.Signature = a.Receipt.Signature
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, a.ID, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for attempt %s: %v", eventType, a.ID, err)
	}
}

// inPaymentPhase reports whether an order exists and its outcome is still open.
func inPaymentPhase(a domain.Attempt) bool {
	return a.Order != nil && !a.Status.Terminal()
}

func snapshot(e *entry) *domain.Attempt {
	a := e.attempt
	if a.Availability != nil {
		av := *a.Availability
		a.Availability = &av
	}
	if a.Order != nil {
		o := *a.Order
		a.Order = &o
	}
	if a.Receipt != nil {
		r := *a.Receipt
		a.Receipt = &r
	}
	return &a
}

func sessionID(sess *domain.Session) string {
	if sess == nil {
		return ""
	}
	return sess.ID
}

var _ BookingUseCase = (*FlowService)(nil)
