package rentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Domenick1991/staybook/internal/domain"
)

func (c *Client) ListHouses(ctx context.Context, sess *domain.Session) ([]domain.Listing, error) {
	var out []domain.Listing
	if err := c.doJSON(ctx, sess, public, http.MethodGet, "/api/house", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetHouse(ctx context.Context, sess *domain.Session, id string) (*domain.Listing, error) {
	var out domain.Listing
	if err := c.doJSON(ctx, sess, protected, http.MethodGet, "/api/house/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) HousesByType(ctx context.Context, typeID string) ([]domain.Listing, error) {
	var out []domain.Listing
	if err := c.doJSON(ctx, nil, public, http.MethodGet, "/api/house/by-type/"+url.PathEscape(typeID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyProperties lists the listings owned by the session's host.
func (c *Client) MyProperties(ctx context.Context, sess *domain.Session) ([]domain.Listing, error) {
	var out []domain.Listing
	if err := c.doJSON(ctx, sess, protected, http.MethodGet, "/api/house/my-properties", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddProperty(ctx context.Context, sess *domain.Session, form domain.PropertyForm) error {
	return c.sendProperty(ctx, sess, http.MethodPost, "/api/house/add", form)
}

func (c *Client) UpdateProperty(ctx context.Context, sess *domain.Session, id string, form domain.PropertyForm) error {
	return c.sendProperty(ctx, sess, http.MethodPut, "/api/house/update/"+url.PathEscape(id), form)
}

func (c *Client) DeleteProperty(ctx context.Context, sess *domain.Session, id string) error {
	return c.doJSON(ctx, sess, protected, http.MethodDelete, "/api/house/delete/"+url.PathEscape(id), nil, nil)
}

func (c *Client) sendProperty(ctx context.Context, sess *domain.Session, method, path string, form domain.PropertyForm) error {
	body, contentType, err := encodePropertyForm(form)
	if err != nil {
		return err
	}
	return c.do(ctx, sess, protected, method, path, contentType, body, nil)
}

func encodePropertyForm(form domain.PropertyForm) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	amenities, err := json.Marshal(nonNil(form.Amenities))
	if err != nil {
		return nil, "", fmt.Errorf("encoding amenities: %w", err)
	}

	fields := []struct{ key, value string }{
		{"title", form.Title},
		{"description", form.Description},
		{"location", form.Location},
		{"price", strconv.FormatInt(form.Price, 10)},
		{"houseType", form.HouseType},
		{"adults", strconv.Itoa(form.Limits.Adults)},
		{"children", strconv.Itoa(form.Limits.Children)},
		{"infants", strconv.Itoa(form.Limits.Infants)},
		{"pets", strconv.Itoa(form.Limits.Pets)},
		{"maxGuests", strconv.Itoa(form.Limits.MaxGuests)},
		{"amenities", string(amenities)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.key, f.value); err != nil {
			return nil, "", fmt.Errorf("encoding %s: %w", f.key, err)
		}
	}

	for field, uploads := range map[string][]domain.Upload{"interior": form.Interior, "exterior": form.Exterior} {
		for _, u := range uploads {
			part, err := w.CreateFormFile(field, u.Filename)
			if err != nil {
				return nil, "", fmt.Errorf("encoding %s image: %w", field, err)
			}
			if _, err := part.Write(u.Content); err != nil {
				return nil, "", fmt.Errorf("encoding %s image: %w", field, err)
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("encoding form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
