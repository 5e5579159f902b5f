package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Domenick1991/staybook/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalogUseCase struct {
	mock.Mock
}

func (m *MockCatalogUseCase) HouseTypes(ctx context.Context, sess *domain.Session) ([]domain.HouseType, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]domain.HouseType), args.Error(1)
}

func (m *MockCatalogUseCase) Categories(ctx context.Context, sess *domain.Session) ([]domain.CategoryView, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]domain.CategoryView), args.Error(1)
}

func (m *MockCatalogUseCase) ListHouses(ctx context.Context, sess *domain.Session, query string) ([]domain.Listing, error) {
	args := m.Called(ctx, sess, query)
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func (m *MockCatalogUseCase) GetHouse(ctx context.Context, sess *domain.Session, id string) (*domain.Listing, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockCatalogUseCase) HousesByType(ctx context.Context, typeID string) ([]domain.Listing, error) {
	args := m.Called(ctx, typeID)
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func (m *MockCatalogUseCase) Amenities(ctx context.Context) ([]domain.Amenity, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Amenity), args.Error(1)
}

func (m *MockCatalogUseCase) ToggleWishlist(ctx context.Context, sess *domain.Session, houseID string) (bool, error) {
	args := m.Called(ctx, sess, houseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogUseCase) Wishlist(ctx context.Context, sess *domain.Session) ([]string, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCatalogUseCase) SaveAmenity(ctx context.Context, sess *domain.Session, a domain.Amenity) error {
	return m.Called(ctx, sess, a).Error(0)
}

func (m *MockCatalogUseCase) DeleteAmenity(ctx context.Context, sess *domain.Session, id string) error {
	return m.Called(ctx, sess, id).Error(0)
}

func (m *MockCatalogUseCase) SaveHouseType(ctx context.Context, sess *domain.Session, t domain.HouseType) error {
	return m.Called(ctx, sess, t).Error(0)
}

func (m *MockCatalogUseCase) DeleteHouseType(ctx context.Context, sess *domain.Session, id string) error {
	return m.Called(ctx, sess, id).Error(0)
}

func TestHouseHandler_get(t *testing.T) {
	mockService := &MockCatalogUseCase{}
	handler := NewHouseHandler(mockService, "http://api.local")

	c, w := newTestContext("GET", "/houses/h1", nil, nil)
	c.Params = gin.Params{{Key: "id", Value: "h1"}}

	house := &domain.Listing{
		ID:     "h1",
		Title:  "Sea View Villa",
		Images: []domain.ImageSet{{Kind: "interior", URLs: []string{"uploads/a.jpg", "https://cdn.example.com/b.jpg"}}},
	}
	mockService.On("GetHouse", c.Request.Context(), (*domain.Session)(nil), "h1").Return(house, nil).Once()

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp houseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Sea View Villa", resp.Title)
	assert.Equal(t, []string{"http://api.local/uploads/a.jpg", "https://cdn.example.com/b.jpg"}, resp.ImageURLs)
}

func TestHouseHandler_list(t *testing.T) {
	mockService := &MockCatalogUseCase{}
	handler := NewHouseHandler(mockService, "")

	c, w := newTestContext("GET", "/houses?q=goa", nil, nil)
	mockService.On("ListHouses", c.Request.Context(), (*domain.Session)(nil), "goa").Return([]domain.Listing{{ID: "h1"}}, nil).Once()

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestHouseHandler_categories(t *testing.T) {
	mockService := &MockCatalogUseCase{}
	handler := NewHouseHandler(mockService, "")

	c, w := newTestContext("GET", "/categories", nil, nil)
	views := []domain.CategoryView{{ID: "t1", Name: "Villa", Href: "/housecategory?typeId=t1"}}
	mockService.On("Categories", c.Request.Context(), (*domain.Session)(nil)).Return(views, nil).Once()

	handler.categories(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []domain.CategoryView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, views, got)
}

func TestHouseHandler_toggleWishlist(t *testing.T) {
	mockService := &MockCatalogUseCase{}
	handler := NewHouseHandler(mockService, "")

	c, w := newTestContext("POST", "/wishlist/h1", nil, guest)
	c.Params = gin.Params{{Key: "id", Value: "h1"}}
	mockService.On("ToggleWishlist", c.Request.Context(), guest, "h1").Return(true, nil).Once()

	handler.toggleWishlist(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["saved"])
}

func TestHouseHandler_toggleWishlistLoggedOut(t *testing.T) {
	mockService := &MockCatalogUseCase{}
	handler := NewHouseHandler(mockService, "")

	c, w := newTestContext("POST", "/wishlist/h1", nil, nil)
	c.Params = gin.Params{{Key: "id", Value: "h1"}}
	mockService.On("ToggleWishlist", c.Request.Context(), (*domain.Session)(nil), "h1").Return(false, domain.ErrUnauthenticated).Once()

	handler.toggleWishlist(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/login", decode(t, w)["redirect"])
}
