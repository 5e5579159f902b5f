package rentapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Domenick1991/staybook/internal/domain"
)

// Amenities is the public amenity list used by the property forms.
func (c *Client) Amenities(ctx context.Context) ([]domain.Amenity, error) {
	var out []domain.Amenity
	if err := c.doJSON(ctx, nil, public, http.MethodGet, "/api/amenities", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddAmenity(ctx context.Context, sess *domain.Session, a domain.Amenity) error {
	body := map[string]string{"type": a.Type, "iconUrl": a.IconURL}
	return c.doJSON(ctx, sess, protected, http.MethodPost, "/api/admin/amenities", body, nil)
}

func (c *Client) UpdateAmenity(ctx context.Context, sess *domain.Session, a domain.Amenity) error {
	body := map[string]string{"type": a.Type, "iconUrl": a.IconURL}
	return c.doJSON(ctx, sess, protected, http.MethodPut, "/api/admin/amenities/"+url.PathEscape(a.ID), body, nil)
}

func (c *Client) DeleteAmenity(ctx context.Context, sess *domain.Session, id string) error {
	return c.doJSON(ctx, sess, protected, http.MethodDelete, "/api/admin/amenities/"+url.PathEscape(id), nil, nil)
}

// HouseTypes lists house types. The credential is attached when present but not required.
func (c *Client) HouseTypes(ctx context.Context, sess *domain.Session) ([]domain.HouseType, error) {
	var out []domain.HouseType
	if err := c.doJSON(ctx, sess, public, http.MethodGet, "/api/admin/house-types", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddHouseType(ctx context.Context, sess *domain.Session, t domain.HouseType) error {
	body := map[string]string{"name": t.Name, "icon": t.Icon}
	return c.doJSON(ctx, sess, protected, http.MethodPost, "/api/admin/house-types", body, nil)
}

func (c *Client) UpdateHouseType(ctx context.Context, sess *domain.Session, t domain.HouseType) error {
	body := map[string]string{"name": t.Name, "icon": t.Icon}
	return c.doJSON(ctx, sess, protected, http.MethodPut, "/api/admin/house-types/"+url.PathEscape(t.ID), body, nil)
}

func (c *Client) DeleteHouseType(ctx context.Context, sess *domain.Session, id string) error {
	return c.doJSON(ctx, sess, protected, http.MethodDelete, "/api/admin/house-types/"+url.PathEscape(id), nil, nil)
}
