package rentapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/Domenick1991/staybook/internal/domain"
)

type LoginResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type RegisterInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	PushToken string `json:"fcmToken,omitempty"`
}

// Login exchanges credentials for a bearer token. Unknown accounts yield domain.ErrNotRegistered.
func (c *Client) Login(ctx context.Context, email, password, pushToken string) (*LoginResult, error) {
	body := map[string]any{"email": email, "password": password}
	if pushToken != "" {
		body["fcmToken"] = pushToken
	}

	var out LoginResult
	err := c.doJSON(ctx, nil, public, http.MethodPost, "/api/auth/login", body, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusNotFound || strings.EqualFold(apiErr.Message, "User not registered")) {
			return nil, domain.ErrNotRegistered
		}
		return nil, err
	}
	if out.Token == "" {
		return nil, errors.New("login response carried no token")
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, in RegisterInput) error {
	return c.doJSON(ctx, nil, public, http.MethodPost, "/api/auth/register", in, nil)
}

// ForgotPassword asks the API to mail a reset link and returns its message.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var out messageBody
	if err := c.doJSON(ctx, nil, public, http.MethodPost, "/api/forget/forgot-password", map[string]string{"email": email}, &out); err != nil {
		return "", err
	}
	if out.text() == "" {
		return "Request completed.", nil
	}
	return out.text(), nil
}

func (c *Client) ResetPassword(ctx context.Context, resetToken, password string) (string, error) {
	var out messageBody
	path := "/api/auth/reset-password/" + url.PathEscape(resetToken)
	if err := c.doJSON(ctx, nil, public, http.MethodPost, path, map[string]string{"password": password}, &out); err != nil {
		return "", err
	}
	return out.text(), nil
}

// SaveDeviceToken registers a push-notification token for the session's user.
func (c *Client) SaveDeviceToken(ctx context.Context, sess *domain.Session, token string) error {
	return c.doJSON(ctx, sess, protected, http.MethodPost, "/api/user/save-token", map[string]string{"token": token}, nil)
}
