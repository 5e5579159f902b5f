package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/staybook/internal/domain"
	"github.com/Domenick1991/staybook/internal/rentapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Login(ctx context.Context, email, password, pushToken string) (*rentapi.LoginResult, error) {
	args := m.Called(ctx, email, password, pushToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rentapi.LoginResult), args.Error(1)
}

func (m *MockAPI) Register(ctx context.Context, in rentapi.RegisterInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockAPI) ForgotPassword(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockAPI) ResetPassword(ctx context.Context, resetToken, password string) (string, error) {
	args := m.Called(ctx, resetToken, password)
	return args.String(0), args.Error(1)
}

func (m *MockAPI) SaveDeviceToken(ctx context.Context, sess *domain.Session, token string) error {
	return m.Called(ctx, sess, token).Error(0)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) SetSession(ctx context.Context, sess *domain.Session) error {
	return m.Called(ctx, sess).Error(0)
}

func (m *MockSessionStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionStore) ClearSession(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockSessionObserver struct {
	mock.Mock
}

func (m *MockSessionObserver) ForgetSession(sessionID string) {
	m.Called(sessionID)
}

func TestAuthService_Login(t *testing.T) {
	api := &MockAPI{}
	store := &MockSessionStore{}
	service := NewAuthService(api, store)
	ctx := context.Background()

	user := domain.User{ID: "u1", Name: "Hema", Role: domain.RoleHost}
	api.On("Login", ctx, "host@example.com", "secret", "push-1").Return(&rentapi.LoginResult{Token: "jwt", User: user}, nil).Once()
	store.On("SetSession", ctx, mock.MatchedBy(func(s *domain.Session) bool {
		return s.ID != "" && s.Token == "jwt" && s.User.ID == "u1"
	})).Return(nil).Once()

	sess, err := service.Login(ctx, LoginInput{Email: "host@example.com", Password: "secret", PushToken: "push-1"})
	require.NoError(t, err)
	assert.Equal(t, "/host-dashboard", sess.User.Role.HomePath())
	assert.NotEmpty(t, sess.ID)

	api.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestAuthService_LoginNotRegistered(t *testing.T) {
	api := &MockAPI{}
	store := &MockSessionStore{}
	service := NewAuthService(api, store)
	ctx := context.Background()

	api.On("Login", ctx, "ghost@example.com", "pw", "").Return(nil, domain.ErrNotRegistered).Once()

	_, err := service.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrNotRegistered)
	store.AssertNotCalled(t, "SetSession", mock.Anything, mock.Anything)
}

func TestAuthService_LoginValidation(t *testing.T) {
	service := NewAuthService(&MockAPI{}, &MockSessionStore{})

	_, err := service.Login(context.Background(), LoginInput{Email: "not-an-email", Password: "pw"})
	assert.Error(t, err)

	_, err = service.Login(context.Background(), LoginInput{Email: "a@b.co"})
	assert.Error(t, err)
}

func TestAuthService_LoginStoreFailure(t *testing.T) {
	api := &MockAPI{}
	store := &MockSessionStore{}
	service := NewAuthService(api, store)
	ctx := context.Background()

	api.On("Login", ctx, "a@b.co", "pw", "").Return(&rentapi.LoginResult{Token: "jwt"}, nil).Once()
	store.On("SetSession", ctx, mock.Anything).Return(errors.New("redis down")).Once()

	sess, err := service.Login(ctx, LoginInput{Email: "a@b.co", Password: "pw"})
	assert.Error(t, err)
	assert.Nil(t, sess)
}

func TestAuthService_LogoutAndInvalidate(t *testing.T) {
	store := &MockSessionStore{}
	observer := &MockSessionObserver{}
	service := NewAuthService(&MockAPI{}, store, observer)
	ctx := context.Background()

	store.On("ClearSession", ctx, "sid-1").Return(nil).Once()
	store.On("ClearSession", ctx, "sid-2").Return(nil).Once()
	observer.On("ForgetSession", "sid-1").Once()
	observer.On("ForgetSession", "sid-2").Once()

	assert.NoError(t, service.Logout(ctx, &domain.Session{ID: "sid-1"}))
	assert.NoError(t, service.Invalidate(ctx, "sid-2"))
	assert.NoError(t, service.Logout(ctx, nil))
	assert.NoError(t, service.Invalidate(ctx, ""))

	store.AssertNumberOfCalls(t, "ClearSession", 2)
	observer.AssertExpectations(t)
	observer.AssertNumberOfCalls(t, "ForgetSession", 2)
}

func TestAuthService_Resolve(t *testing.T) {
	store := &MockSessionStore{}
	service := NewAuthService(&MockAPI{}, store)
	ctx := context.Background()

	want := &domain.Session{ID: "sid-1", Token: "jwt"}
	store.On("GetSession", ctx, "sid-1").Return(want, nil).Once()

	got, err := service.Resolve(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = service.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAuthService_RegisterAndPasswords(t *testing.T) {
	api := &MockAPI{}
	service := NewAuthService(api, &MockSessionStore{})
	ctx := context.Background()

	api.On("Register", ctx, rentapi.RegisterInput{Name: "Asha", Email: "asha@example.com", Password: "secret1"}).Return(nil).Once()
	api.On("ForgotPassword", ctx, "asha@example.com").Return("Reset link sent", nil).Once()
	api.On("ResetPassword", ctx, "reset-tok", "newsecret").Return("Password updated", nil).Once()

	require.NoError(t, service.Register(ctx, RegisterInput{Name: "Asha", Email: "asha@example.com", Password: "secret1"}))
	assert.Error(t, service.Register(ctx, RegisterInput{Name: "Asha", Email: "asha@example.com", Password: "123"}))

	msg, err := service.ForgotPassword(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Reset link sent", msg)

	msg, err = service.ResetPassword(ctx, "reset-tok", "newsecret")
	require.NoError(t, err)
	assert.Equal(t, "Password updated", msg)

	_, err = service.ResetPassword(ctx, "", "newsecret")
	assert.Error(t, err)

	api.AssertExpectations(t)
}

func TestAuthService_SavePushToken(t *testing.T) {
	api := &MockAPI{}
	service := NewAuthService(api, &MockSessionStore{})
	ctx := context.Background()
	sess := &domain.Session{Token: "jwt"}

	api.On("SaveDeviceToken", ctx, sess, "push-1").Return(nil).Once()

	assert.NoError(t, service.SavePushToken(ctx, sess, "push-1"))
	assert.Error(t, service.SavePushToken(ctx, sess, ""))
}
