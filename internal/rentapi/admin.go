package rentapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Domenick1991/staybook/internal/domain"
)

func (c *Client) AdminStats(ctx context.Context, sess *domain.Session) (domain.AdminStats, error) {
	var out domain.AdminStats
	if err := c.doJSON(ctx, sess, protected, http.MethodGet, "/api/admin/dashboard", nil, &out); err != nil {
		return domain.AdminStats{}, err
	}
	return out, nil
}

func (c *Client) AdminUsers(ctx context.Context, sess *domain.Session) ([]domain.User, error) {
	var out []domain.User
	if err := c.doJSON(ctx, sess, protected, http.MethodGet, "/api/admin/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminDeleteUser(ctx context.Context, sess *domain.Session, id string) error {
	return c.doJSON(ctx, sess, protected, http.MethodDelete, "/api/admin/users/"+url.PathEscape(id), nil, nil)
}

func (c *Client) AdminProperties(ctx context.Context, sess *domain.Session) ([]domain.Listing, error) {
	var out []domain.Listing
	if err := c.doJSON(ctx, sess, protected, http.MethodGet, "/api/admin/properties", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminDeleteProperty(ctx context.Context, sess *domain.Session, id string) error {
	return c.doJSON(ctx, sess, protected, http.MethodDelete, "/api/admin/properties/"+url.PathEscape(id), nil, nil)
}

func (c *Client) AdminBookings(ctx context.Context, sess *domain.Session) ([]domain.BookingRecord, error) {
	var out []domain.BookingRecord
	if err := c.doJSON(ctx, sess, protected, http.MethodGet, "/api/admin/booking", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminCancelBooking(ctx context.Context, sess *domain.Session, id string) error {
	return c.doJSON(ctx, sess, protected, http.MethodDelete, "/api/admin/booking/"+url.PathEscape(id), nil, nil)
}

func (c *Client) AdminReviews(ctx context.Context, sess *domain.Session) ([]domain.Review, error) {
	var out []domain.Review
	if err := c.doJSON(ctx, sess, protected, http.MethodGet, "/api/admin/reviews", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminDeleteReview(ctx context.Context, sess *domain.Session, id string) error {
	return c.doJSON(ctx, sess, protected, http.MethodDelete, "/api/admin/reviews/"+url.PathEscape(id), nil, nil)
}

// HostStats returns the dashboard counters of the session's host.
func (c *Client) HostStats(ctx context.Context, sess *domain.Session) (domain.HostStats, error) {
	var out domain.HostStats
	if err := c.doJSON(ctx, sess, protected, http.MethodGet, "/api/hostStats/dashboard", nil, &out); err != nil {
		return domain.HostStats{}, err
	}
	return out, nil
}
