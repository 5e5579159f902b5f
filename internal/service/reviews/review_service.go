package reviews

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/Domenick1991/staybook/internal/domain"
	"github.com/go-playground/validator/v10"
)

// ErrNotEligible is returned when a review is submitted without a held eligible booking.
var ErrNotEligible = errors.New("no eligible booking to review")

type ReviewUseCase interface {
	CheckEligibility(ctx context.Context, sess *domain.Session, listingID string) (domain.Eligibility, error)
	SubmitReview(ctx context.Context, sess *domain.Session, listingID string, input SubmitReviewInput) (domain.ReviewSummary, error)
	ListReviews(ctx context.Context, sess *domain.Session, listingID string) (domain.ReviewSummary, error)
}

type API interface {
	ReviewEligibility(ctx context.Context, sess *domain.Session, listingID string) (domain.Eligibility, error)
	SubmitReview(ctx context.Context, sess *domain.Session, bookingID string, rating domain.Rating, comment string) error
	HouseReviews(ctx context.Context, sess *domain.Session, listingID string) (domain.ReviewSummary, error)
}

type SubmitReviewInput struct {
	// BookingID is optional; when set it must match the held eligible booking.
	BookingID string        `json:"booking_id"`
	Rating    domain.Rating `json:"rating" validate:"min=1,max=5"`
	Comment   string        `json:"comment" validate:"required"`
}

// ReviewGate holds, per session and listing, the booking id the backend reported as reviewable.
type ReviewGate struct {
	api      API
	validate *validator.Validate

	mu       sync.Mutex
	eligible map[gateKey]string
	reviewed map[string]map[string]struct{} // session id -> reviewed booking ids
}

type gateKey struct {
	sessionID string
	listingID string
}

func NewReviewGate(api API) *ReviewGate {
	return &ReviewGate{
		api:      api,
		validate: validator.New(),
		eligible: make(map[gateKey]string),
		reviewed: make(map[string]map[string]struct{}),
	}
}

// CheckEligibility asks the backend. A failed check clears any held booking and
// reports ErrEligibilityUnknown; callers treat that as not eligible.
func (g *ReviewGate) CheckEligibility(ctx context.Context, sess *domain.Session, listingID string) (domain.Eligibility, error) {
	key := keyFor(sess, listingID)

	el, err := g.api.ReviewEligibility(ctx, sess, listingID)
	if err != nil {
		g.forget(key)
		if errors.Is(err, domain.ErrUnauthenticated) {
			return domain.Eligibility{}, err
		}
		log.Printf("eligibility check for listing %s failed: %v", listingID, err)
		return domain.Eligibility{}, fmt.Errorf("%w: %v", domain.ErrEligibilityUnknown, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, done := g.reviewed[key.sessionID][el.BookingID]; done || !el.Eligible || el.BookingID == "" {
		delete(g.eligible, key)
		return domain.Eligibility{}, nil
	}
	g.eligible[key] = el.BookingID
	return el, nil
}

// Held returns the eligible booking id held for the session and listing.
func (g *ReviewGate) Held(sess *domain.Session, listingID string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.eligible[keyFor(sess, listingID)]
	return id, ok
}

// SubmitReview posts the review for the held booking, then clears eligibility and
// returns the refreshed review list of the listing.
func (g *ReviewGate) SubmitReview(ctx context.Context, sess *domain.Session, listingID string, input SubmitReviewInput) (domain.ReviewSummary, error) {
	input.Comment = strings.TrimSpace(input.Comment)
	if err := g.validate.Struct(input); err != nil {
		return domain.ReviewSummary{}, fmt.Errorf("invalid review: %w", err)
	}

	key := keyFor(sess, listingID)
	bookingID, ok := g.Held(sess, listingID)
	if !ok || (input.BookingID != "" && input.BookingID != bookingID) {
		return domain.ReviewSummary{}, ErrNotEligible
	}

	if err := g.api.SubmitReview(ctx, sess, bookingID, input.Rating, input.Comment); err != nil {
		return domain.ReviewSummary{}, err
	}

	g.mu.Lock()
	delete(g.eligible, key)
	if g.reviewed[key.sessionID] == nil {
		g.reviewed[key.sessionID] = make(map[string]struct{})
	}
	g.reviewed[key.sessionID][bookingID] = struct{}{}
	g.mu.Unlock()

	return g.ListReviews(ctx, sess, listingID)
}

func (g *ReviewGate) ListReviews(ctx context.Context, sess *domain.Session, listingID string) (domain.ReviewSummary, error) {
	return g.api.HouseReviews(ctx, sess, listingID)
}

// ForgetSession drops everything held for the session once it is logged out or invalidated.
func (g *ReviewGate) ForgetSession(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for key := range g.eligible {
		if key.sessionID == sessionID {
			delete(g.eligible, key)
		}
	}
	delete(g.reviewed, sessionID)
}

func (g *ReviewGate) forget(key gateKey) {
	g.mu.Lock()
	delete(g.eligible, key)
	g.mu.Unlock()
}

func keyFor(sess *domain.Session, listingID string) gateKey {
	var id string
	if sess != nil {
		id = sess.ID
	}
	return gateKey{sessionID: id, listingID: listingID}
}

var _ ReviewUseCase = (*ReviewGate)(nil)
