package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/staybook/internal/domain"
	"github.com/Domenick1991/staybook/internal/rentapi"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type AuthUseCase interface {
	Login(ctx context.Context, input LoginInput) (*domain.Session, error)
	Logout(ctx context.Context, sess *domain.Session) error
	Register(ctx context.Context, input RegisterInput) error
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, resetToken, password string) (string, error)
	SavePushToken(ctx context.Context, sess *domain.Session, token string) error
	Resolve(ctx context.Context, sessionID string) (*domain.Session, error)
	Invalidate(ctx context.Context, sessionID string) error
}

type API interface {
	Login(ctx context.Context, email, password, pushToken string) (*rentapi.LoginResult, error)
	Register(ctx context.Context, in rentapi.RegisterInput) error
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, resetToken, password string) (string, error)
	SaveDeviceToken(ctx context.Context, sess *domain.Session, token string) error
}

type SessionStore interface {
	SetSession(ctx context.Context, sess *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	ClearSession(ctx context.Context, id string) error
}

// SessionObserver is told when a session ends so it can drop state keyed by it.
type SessionObserver interface {
	ForgetSession(sessionID string)
}

type LoginInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	PushToken string `json:"fcm_token"`
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type AuthService struct {
	api       API
	sessions  SessionStore
	observers []SessionObserver
	validate  *validator.Validate
	now       func() time.Time
}

func NewAuthService(api API, sessions SessionStore, observers ...SessionObserver) *AuthService {
	return &AuthService{api: api, sessions: sessions, observers: observers, validate: validator.New(), now: time.Now}
}

// Login authenticates against the API and stores a fresh session for the credential.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.Session, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid login: %w", err)
	}

	res, err := s.api.Login(ctx, input.Email, input.Password, input.PushToken)
	if err != nil {
		return nil, err
	}

	sess := &domain.Session{
		ID:        uuid.NewString(),
		Token:     res.Token,
		User:      res.User,
		CreatedAt: s.now(),
	}
	if err := s.sessions.SetSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}
	return sess, nil
}

func (s *AuthService) Logout(ctx context.Context, sess *domain.Session) error {
	if sess == nil || sess.ID == "" {
		return nil
	}
	s.endSession(sess.ID)
	return s.sessions.ClearSession(ctx, sess.ID)
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) error {
	if err := s.validate.Struct(input); err != nil {
		return fmt.Errorf("invalid registration: %w", err)
	}
	return s.api.Register(ctx, rentapi.RegisterInput{Name: input.Name, Email: input.Email, Password: input.Password})
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return "", fmt.Errorf("invalid email: %w", err)
	}
	return s.api.ForgotPassword(ctx, email)
}

func (s *AuthService) ResetPassword(ctx context.Context, resetToken, password string) (string, error) {
	if resetToken == "" {
		return "", errors.New("reset token is required")
	}
	if err := s.validate.Var(password, "required,min=6"); err != nil {
		return "", fmt.Errorf("invalid password: %w", err)
	}
	return s.api.ResetPassword(ctx, resetToken, password)
}

func (s *AuthService) SavePushToken(ctx context.Context, sess *domain.Session, token string) error {
	if token == "" {
		return errors.New("push token is required")
	}
	return s.api.SaveDeviceToken(ctx, sess, token)
}

// Resolve loads the session stored under sessionID, or returns nil when there is none.
func (s *AuthService) Resolve(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, nil
	}
	return s.sessions.GetSession(ctx, sessionID)
}

// Invalidate drops a session whose credential the API no longer accepts.
func (s *AuthService) Invalidate(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	log.Printf("invalidating session %s", sessionID)
	s.endSession(sessionID)
	return s.sessions.ClearSession(ctx, sessionID)
}

func (s *AuthService) endSession(sessionID string) {
	for _, o := range s.observers {
		o.ForgetSession(sessionID)
	}
}

var _ AuthUseCase = (*AuthService)(nil)
