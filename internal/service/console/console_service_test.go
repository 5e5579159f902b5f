package console

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/staybook/internal/domain"
	"github.com/Domenick1991/staybook/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) HostStats(ctx context.Context, sess *domain.Session) (domain.HostStats, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).(domain.HostStats), args.Error(1)
}

func (m *MockAPI) MyProperties(ctx context.Context, sess *domain.Session) ([]domain.Listing, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func (m *MockAPI) AddProperty(ctx context.Context, sess *domain.Session, form domain.PropertyForm) error {
	return m.Called(ctx, sess, form).Error(0)
}

func (m *MockAPI) UpdateProperty(ctx context.Context, sess *domain.Session, id string, form domain.PropertyForm) error {
	return m.Called(ctx, sess, id, form).Error(0)
}

func (m *MockAPI) DeleteProperty(ctx context.Context, sess *domain.Session, id string) error {
	return m.Called(ctx, sess, id).Error(0)
}

func (m *MockAPI) AdminStats(ctx context.Context, sess *domain.Session) (domain.AdminStats, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).(domain.AdminStats), args.Error(1)
}

func (m *MockAPI) AdminUsers(ctx context.Context, sess *domain.Session) ([]domain.User, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockAPI) AdminDeleteUser(ctx context.Context, sess *domain.Session, id string) error {
	return m.Called(ctx, sess, id).Error(0)
}

func (m *MockAPI) AdminProperties(ctx context.Context, sess *domain.Session) ([]domain.Listing, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func (m *MockAPI) AdminDeleteProperty(ctx context.Context, sess *domain.Session, id string) error {
	return m.Called(ctx, sess, id).Error(0)
}

func (m *MockAPI) AdminBookings(ctx context.Context, sess *domain.Session) ([]domain.BookingRecord, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]domain.BookingRecord), args.Error(1)
}

func (m *MockAPI) AdminCancelBooking(ctx context.Context, sess *domain.Session, id string) error {
	return m.Called(ctx, sess, id).Error(0)
}

func (m *MockAPI) AdminReviews(ctx context.Context, sess *domain.Session) ([]domain.Review, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *MockAPI) AdminDeleteReview(ctx context.Context, sess *domain.Session, id string) error {
	return m.Called(ctx, sess, id).Error(0)
}

func (m *MockAPI) ListBookings(ctx context.Context, sess *domain.Session) ([]domain.BookingRecord, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingRecord), args.Error(1)
}

func (m *MockAPI) CancelBooking(ctx context.Context, sess *domain.Session, bookingID string) error {
	return m.Called(ctx, sess, bookingID).Error(0)
}

type MockIssueRepository struct {
	mock.Mock
}

func (m *MockIssueRepository) Create(ctx context.Context, issue *domain.PaymentIssue) error {
	return m.Called(ctx, issue).Error(0)
}

func (m *MockIssueRepository) ListOpen(ctx context.Context) ([]domain.PaymentIssue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentIssue), args.Error(1)
}

func (m *MockIssueRepository) Resolve(ctx context.Context, id int64) (*domain.PaymentIssue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentIssue), args.Error(1)
}

func session(role domain.Role) *domain.Session {
	return &domain.Session{ID: "sid", Token: "jwt", User: domain.User{ID: "u1", Role: role}}
}

func TestConsoleService_RoleChecks(t *testing.T) {
	service := NewConsoleService(&MockAPI{}, &MockIssueRepository{})
	ctx := context.Background()

	_, err := service.HostStats(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = service.HostStats(ctx, session(domain.RoleGuest))
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = service.Stats(ctx, session(domain.RoleHost))
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = service.PaymentIssues(ctx, session(domain.RoleGuest))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestConsoleService_HostStats(t *testing.T) {
	api := &MockAPI{}
	service := NewConsoleService(api, nil)
	ctx := context.Background()
	sess := session(domain.RoleHost)

	api.On("HostStats", ctx, sess).Return(domain.HostStats{TotalBookings: 3, TotalEarnings: 12000}, nil).Once()

	stats, err := service.HostStats(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalBookings)
	assert.Zero(t, stats.PendingRequests)
}

func TestConsoleService_SaveProperty(t *testing.T) {
	api := &MockAPI{}
	service := NewConsoleService(api, nil)
	ctx := context.Background()
	sess := session(domain.RoleHost)

	form := domain.PropertyForm{Title: "Villa", Location: "Goa", Price: 4500, Limits: domain.GuestLimits{MaxGuests: 4}}
	api.On("AddProperty", ctx, sess, form).Return(nil).Once()
	api.On("UpdateProperty", ctx, sess, "h1", form).Return(nil).Once()

	require.NoError(t, service.SaveProperty(ctx, sess, "", form))
	require.NoError(t, service.SaveProperty(ctx, sess, "h1", form))

	bad := form
	bad.Price = 0
	assert.Error(t, service.SaveProperty(ctx, sess, "", bad))

	api.AssertExpectations(t)
}

func TestConsoleService_PropertiesSearch(t *testing.T) {
	api := &MockAPI{}
	service := NewConsoleService(api, nil)
	ctx := context.Background()
	sess := session(domain.RoleAdmin)

	api.On("AdminProperties", ctx, sess).Return([]domain.Listing{
		{ID: "h1", Title: "Sea View Villa", Location: "Goa"},
		{ID: "h2", Title: "Pine Cabin", Location: "Manali"},
	}, nil)

	got, err := service.Properties(ctx, sess, "VILLA")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "h1", got[0].ID)

	got, err = service.Properties(ctx, sess, "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestConsoleService_PaymentIssues(t *testing.T) {
	issues := &MockIssueRepository{}
	service := NewConsoleService(&MockAPI{}, issues)
	ctx := context.Background()
	sess := session(domain.RoleAdmin)

	issues.On("ListOpen", ctx).Return(nil, nil).Once()
	issues.On("Resolve", ctx, int64(7)).Return(&domain.PaymentIssue{ID: 7, Resolved: true}, nil).Once()
	issues.On("Resolve", ctx, int64(8)).Return(nil, repository.ErrIssueNotFound).Once()

	open, err := service.PaymentIssues(ctx, sess)
	require.NoError(t, err)
	assert.NotNil(t, open)
	assert.Empty(t, open)

	resolved, err := service.ResolvePaymentIssue(ctx, sess, 7)
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)

	_, err = service.ResolvePaymentIssue(ctx, sess, 8)
	assert.ErrorIs(t, err, repository.ErrIssueNotFound)
}

func TestConsoleService_AdminPassThrough(t *testing.T) {
	api := &MockAPI{}
	service := NewConsoleService(api, nil)
	ctx := context.Background()
	sess := session(domain.RoleAdmin)

	api.On("AdminDeleteUser", ctx, sess, "u9").Return(nil).Once()
	api.On("AdminCancelBooking", ctx, sess, "bk_1").Return(errors.New("already cancelled")).Once()
	api.On("AdminDeleteReview", ctx, sess, "r1").Return(nil).Once()

	assert.NoError(t, service.DeleteUser(ctx, sess, "u9"))
	assert.EqualError(t, service.CancelBooking(ctx, sess, "bk_1"), "already cancelled")
	assert.NoError(t, service.DeleteReview(ctx, sess, "r1"))
	api.AssertExpectations(t)
}

func TestConsoleService_MyBookings(t *testing.T) {
	api := &MockAPI{}
	service := NewConsoleService(api, nil)
	ctx := context.Background()
	sess := session(domain.RoleGuest)

	api.On("ListBookings", ctx, sess).Return(nil, nil).Once()

	bookings, err := service.MyBookings(ctx, sess)
	require.NoError(t, err)
	assert.NotNil(t, bookings)
	assert.Empty(t, bookings)
}

func TestConsoleService_CancelMyBooking(t *testing.T) {
	api := &MockAPI{}
	service := NewConsoleService(api, nil)
	ctx := context.Background()
	sess := session(domain.RoleGuest)

	assert.ErrorIs(t, service.CancelMyBooking(ctx, sess, ""), ErrInvalidInput)

	api.On("CancelBooking", ctx, sess, "bk_1").Return(nil).Once()
	assert.NoError(t, service.CancelMyBooking(ctx, sess, "bk_1"))
	api.AssertExpectations(t)
}

func TestConsoleService_SavePropertyRejectsIncompleteForm(t *testing.T) {
	api := &MockAPI{}
	service := NewConsoleService(api, nil)

	err := service.SaveProperty(context.Background(), session(domain.RoleHost), "", domain.PropertyForm{Title: "Villa"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "location is required")
	api.AssertNotCalled(t, "AddProperty", mock.Anything, mock.Anything, mock.Anything)
}
