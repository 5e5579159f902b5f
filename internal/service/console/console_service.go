package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/staybook/internal/domain"
	"github.com/Domenick1991/staybook/internal/repository"
)

var (
	// ErrForbidden is returned when the session's role may not use a console.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput is returned for forms and ids the API would refuse anyway.
	ErrInvalidInput = errors.New("invalid input")
)

type HostUseCase interface {
	HostStats(ctx context.Context, sess *domain.Session) (domain.HostStats, error)
	MyProperties(ctx context.Context, sess *domain.Session) ([]domain.Listing, error)
	SaveProperty(ctx context.Context, sess *domain.Session, id string, form domain.PropertyForm) error
	DeleteProperty(ctx context.Context, sess *domain.Session, id string) error
}

// GuestUseCase lists and cancels the session user's own bookings.
type GuestUseCase interface {
	MyBookings(ctx context.Context, sess *domain.Session) ([]domain.BookingRecord, error)
	CancelMyBooking(ctx context.Context, sess *domain.Session, id string) error
}

type AdminUseCase interface {
	Stats(ctx context.Context, sess *domain.Session) (domain.AdminStats, error)
	Users(ctx context.Context, sess *domain.Session) ([]domain.User, error)
	DeleteUser(ctx context.Context, sess *domain.Session, id string) error
	Properties(ctx context.Context, sess *domain.Session, query string) ([]domain.Listing, error)
	RemoveProperty(ctx context.Context, sess *domain.Session, id string) error
	Bookings(ctx context.Context, sess *domain.Session) ([]domain.BookingRecord, error)
	CancelBooking(ctx context.Context, sess *domain.Session, id string) error
	Reviews(ctx context.Context, sess *domain.Session) ([]domain.Review, error)
	DeleteReview(ctx context.Context, sess *domain.Session, id string) error
	PaymentIssues(ctx context.Context, sess *domain.Session) ([]domain.PaymentIssue, error)
	ResolvePaymentIssue(ctx context.Context, sess *domain.Session, id int64) (*domain.PaymentIssue, error)
}

type API interface {
	HostStats(ctx context.Context, sess *domain.Session) (domain.HostStats, error)
	MyProperties(ctx context.Context, sess *domain.Session) ([]domain.Listing, error)
	AddProperty(ctx context.Context, sess *domain.Session, form domain.PropertyForm) error
	UpdateProperty(ctx context.Context, sess *domain.Session, id string, form domain.PropertyForm) error
	DeleteProperty(ctx context.Context, sess *domain.Session, id string) error

	ListBookings(ctx context.Context, sess *domain.Session) ([]domain.BookingRecord, error)
	CancelBooking(ctx context.Context, sess *domain.Session, bookingID string) error

	AdminStats(ctx context.Context, sess *domain.Session) (domain.AdminStats, error)
	AdminUsers(ctx context.Context, sess *domain.Session) ([]domain.User, error)
	AdminDeleteUser(ctx context.Context, sess *domain.Session, id string) error
	AdminProperties(ctx context.Context, sess *domain.Session) ([]domain.Listing, error)
	AdminDeleteProperty(ctx context.Context, sess *domain.Session, id string) error
	AdminBookings(ctx context.Context, sess *domain.Session) ([]domain.BookingRecord, error)
	AdminCancelBooking(ctx context.Context, sess *domain.Session, id string) error
	AdminReviews(ctx context.Context, sess *domain.Session) ([]domain.Review, error)
	AdminDeleteReview(ctx context.Context, sess *domain.Session, id string) error
}

// ConsoleService backs the host dashboard and the admin console.
type ConsoleService struct {
	api    API
	issues repository.PaymentIssueRepository
}

func NewConsoleService(api API, issues repository.PaymentIssueRepository) *ConsoleService {
	return &ConsoleService{api: api, issues: issues}
}

func (s *ConsoleService) HostStats(ctx context.Context, sess *domain.Session) (domain.HostStats, error) {
	if err := requireRole(sess, domain.RoleHost); err != nil {
		return domain.HostStats{}, err
	}
	return s.api.HostStats(ctx, sess)
}

func (s *ConsoleService) MyProperties(ctx context.Context, sess *domain.Session) ([]domain.Listing, error) {
	if err := requireRole(sess, domain.RoleHost); err != nil {
		return nil, err
	}
	return s.api.MyProperties(ctx, sess)
}

// SaveProperty adds a listing when id is empty and updates it otherwise.
func (s *ConsoleService) SaveProperty(ctx context.Context, sess *domain.Session, id string, form domain.PropertyForm) error {
	if err := requireRole(sess, domain.RoleHost); err != nil {
		return err
	}
	if err := validateForm(form); err != nil {
		return err
	}
	if id == "" {
		return s.api.AddProperty(ctx, sess, form)
	}
	return s.api.UpdateProperty(ctx, sess, id, form)
}

func (s *ConsoleService) DeleteProperty(ctx context.Context, sess *domain.Session, id string) error {
	if err := requireRole(sess, domain.RoleHost); err != nil {
		return err
	}
	return s.api.DeleteProperty(ctx, sess, id)
}

func (s *ConsoleService) MyBookings(ctx context.Context, sess *domain.Session) ([]domain.BookingRecord, error) {
	bookings, err := s.api.ListBookings(ctx, sess)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []domain.BookingRecord{}
	}
	return bookings, nil
}

func (s *ConsoleService) CancelMyBooking(ctx context.Context, sess *domain.Session, id string) error {
	if id == "" {
		return fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}
	return s.api.CancelBooking(ctx, sess, id)
}

func (s *ConsoleService) Stats(ctx context.Context, sess *domain.Session) (domain.AdminStats, error) {
	if err := requireRole(sess, domain.RoleAdmin); err != nil {
		return domain.AdminStats{}, err
	}
	return s.api.AdminStats(ctx, sess)
}

func (s *ConsoleService) Users(ctx context.Context, sess *domain.Session) ([]domain.User, error) {
	if err := requireRole(sess, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.api.AdminUsers(ctx, sess)
}

func (s *ConsoleService) DeleteUser(ctx context.Context, sess *domain.Session, id string) error {
	if err := requireRole(sess, domain.RoleAdmin); err != nil {
		return err
	}
	return s.api.AdminDeleteUser(ctx, sess, id)
}

// Properties lists every listing whose title or location contains query.
func (s *ConsoleService) Properties(ctx context.Context, sess *domain.Session, query string) ([]domain.Listing, error) {
	if err := requireRole(sess, domain.RoleAdmin); err != nil {
		return nil, err
	}
	all, err := s.api.AdminProperties(ctx, sess)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Listing, 0, len(all))
	for _, l := range all {
		if l.Matches(query) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *ConsoleService) RemoveProperty(ctx context.Context, sess *domain.Session, id string) error {
	if err := requireRole(sess, domain.RoleAdmin); err != nil {
		return err
	}
	return s.api.AdminDeleteProperty(ctx, sess, id)
}

func (s *ConsoleService) Bookings(ctx context.Context, sess *domain.Session) ([]domain.BookingRecord, error) {
	if err := requireRole(sess, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.api.AdminBookings(ctx, sess)
}

func (s *ConsoleService) CancelBooking(ctx context.Context, sess *domain.Session, id string) error {
	if err := requireRole(sess, domain.RoleAdmin); err != nil {
		return err
	}
	return s.api.AdminCancelBooking(ctx, sess, id)
}

func (s *ConsoleService) Reviews(ctx context.Context, sess *domain.Session) ([]domain.Review, error) {
	if err := requireRole(sess, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.api.AdminReviews(ctx, sess)
}

func (s *ConsoleService) DeleteReview(ctx context.Context, sess *domain.Session, id string) error {
	if err := requireRole(sess, domain.RoleAdmin); err != nil {
		return err
	}
	return s.api.AdminDeleteReview(ctx, sess, id)
}

// PaymentIssues lists payments the backend refused to verify that support has not resolved yet.
func (s *ConsoleService) PaymentIssues(ctx context.Context, sess *domain.Session) ([]domain.PaymentIssue, error) {
	if err := requireRole(sess, domain.RoleAdmin); err != nil {
		return nil, err
	}
	issues, err := s.issues.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing payment issues: %w", err)
	}
	if issues == nil {
		issues = []domain.PaymentIssue{}
	}
	return issues, nil
}

func (s *ConsoleService) ResolvePaymentIssue(ctx context.Context, sess *domain.Session, id int64) (*domain.PaymentIssue, error) {
	if err := requireRole(sess, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.issues.Resolve(ctx, id)
}

func requireRole(sess *domain.Session, role domain.Role) error {
	if err := sess.Require(); err != nil {
		return err
	}
	if sess.User.Role != role {
		return ErrForbidden
	}
	return nil
}

func validateForm(form domain.PropertyForm) error {
	switch {
	case form.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	case form.Location == "":
		return fmt.Errorf("%w: location is required", ErrInvalidInput)
	case form.Price <= 0:
		return fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	case form.Limits.MaxGuests <= 0:
		return fmt.Errorf("%w: max guests must be positive", ErrInvalidInput)
	}
	return nil
}

var (
	_ HostUseCase  = (*ConsoleService)(nil)
	_ AdminUseCase = (*ConsoleService)(nil)
	_ GuestUseCase = (*ConsoleService)(nil)
)
