package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/staybook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) HouseTypes(ctx context.Context, sess *domain.Session) ([]domain.HouseType, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HouseType), args.Error(1)
}

func (m *MockAPI) ListHouses(ctx context.Context, sess *domain.Session) ([]domain.Listing, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func (m *MockAPI) GetHouse(ctx context.Context, sess *domain.Session, id string) (*domain.Listing, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockAPI) HousesByType(ctx context.Context, typeID string) ([]domain.Listing, error) {
	args := m.Called(ctx, typeID)
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func (m *MockAPI) Amenities(ctx context.Context) ([]domain.Amenity, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Amenity), args.Error(1)
}

func (m *MockAPI) AddAmenity(ctx context.Context, sess *domain.Session, a domain.Amenity) error {
	return m.Called(ctx, sess, a).Error(0)
}

func (m *MockAPI) UpdateAmenity(ctx context.Context, sess *domain.Session, a domain.Amenity) error {
	return m.Called(ctx, sess, a).Error(0)
}

func (m *MockAPI) DeleteAmenity(ctx context.Context, sess *domain.Session, id string) error {
	return m.Called(ctx, sess, id).Error(0)
}

func (m *MockAPI) AddHouseType(ctx context.Context, sess *domain.Session, t domain.HouseType) error {
	return m.Called(ctx, sess, t).Error(0)
}

func (m *MockAPI) UpdateHouseType(ctx context.Context, sess *domain.Session, t domain.HouseType) error {
	return m.Called(ctx, sess, t).Error(0)
}

func (m *MockAPI) DeleteHouseType(ctx context.Context, sess *domain.Session, id string) error {
	return m.Called(ctx, sess, id).Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetHouseTypes(ctx context.Context) ([]domain.HouseType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HouseType), args.Error(1)
}

func (m *MockCache) SetHouseTypes(ctx context.Context, types []domain.HouseType) error {
	return m.Called(ctx, types).Error(0)
}

func (m *MockCache) InvalidateHouseTypes(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCache) ToggleWishlist(ctx context.Context, userID, houseID string) (bool, error) {
	args := m.Called(ctx, userID, houseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Wishlist(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]string), args.Error(1)
}

var houseTypes = []domain.HouseType{{ID: "t1", Name: "Villa", Icon: "villa.png"}, {ID: "t2", Name: "Cabin", Icon: "cabin.png"}}

func TestCatalogService_HouseTypes_CacheMiss(t *testing.T) {
	api := &MockAPI{}
	cache := &MockCache{}
	service := NewCatalogService(api, cache)
	ctx := context.Background()

	cache.On("GetHouseTypes", ctx).Return(nil, nil).Once()
	api.On("HouseTypes", ctx, (*domain.Session)(nil)).Return(houseTypes, nil).Once()
	cache.On("SetHouseTypes", ctx, houseTypes).Return(nil).Once()

	types, err := service.HouseTypes(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, houseTypes, types)

	api.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCatalogService_HouseTypes_CacheHit(t *testing.T) {
	api := &MockAPI{}
	cache := &MockCache{}
	service := NewCatalogService(api, cache)
	ctx := context.Background()

	cache.On("GetHouseTypes", ctx).Return(houseTypes, nil).Once()

	types, err := service.HouseTypes(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, types, 2)
	api.AssertNotCalled(t, "HouseTypes", mock.Anything, mock.Anything)
}

func TestCatalogService_HouseTypes_CacheErrorFallsBack(t *testing.T) {
	api := &MockAPI{}
	cache := &MockCache{}
	service := NewCatalogService(api, cache)
	ctx := context.Background()

	cache.On("GetHouseTypes", ctx).Return(nil, errors.New("redis down")).Once()
	api.On("HouseTypes", ctx, (*domain.Session)(nil)).Return(houseTypes, nil).Once()
	cache.On("SetHouseTypes", ctx, houseTypes).Return(errors.New("redis down")).Once()

	types, err := service.HouseTypes(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, houseTypes, types)
}

func TestCatalogService_Categories(t *testing.T) {
	api := &MockAPI{}
	service := NewCatalogService(api, nil)
	ctx := context.Background()

	api.On("HouseTypes", ctx, (*domain.Session)(nil)).Return(houseTypes, nil).Once()

	views, err := service.Categories(ctx, nil)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, domain.CategoryView{ID: "t1", Name: "Villa", Icon: "villa.png", Href: "/housecategory?typeId=t1"}, views[0])
	assert.Equal(t, "Cabin", views[1].Name)
}

func TestCatalogService_Categories_Error(t *testing.T) {
	api := &MockAPI{}
	service := NewCatalogService(api, nil)
	ctx := context.Background()

	api.On("HouseTypes", ctx, (*domain.Session)(nil)).Return(nil, errors.New("boom")).Once()

	views, err := service.Categories(ctx, nil)
	assert.Error(t, err)
	assert.Nil(t, views)
}

func TestCatalogService_ListHousesFiltersByQuery(t *testing.T) {
	api := &MockAPI{}
	service := NewCatalogService(api, nil)
	ctx := context.Background()

	houses := []domain.Listing{
		{ID: "h1", Title: "Sea View Villa", Location: "Goa"},
		{ID: "h2", Title: "Pine Cabin", Location: "Manali"},
	}
	api.On("ListHouses", ctx, (*domain.Session)(nil)).Return(houses, nil)

	all, err := service.ListHouses(ctx, nil, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := service.ListHouses(ctx, nil, "manali")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "h2", got[0].ID)
}

func TestCatalogService_SaveHouseTypeInvalidatesCache(t *testing.T) {
	api := &MockAPI{}
	cache := &MockCache{}
	service := NewCatalogService(api, cache)
	ctx := context.Background()
	sess := &domain.Session{Token: "tok"}

	api.On("AddHouseType", ctx, sess, domain.HouseType{Name: "Loft"}).Return(nil).Once()
	api.On("UpdateHouseType", ctx, sess, domain.HouseType{ID: "t1", Name: "Villa"}).Return(nil).Once()
	api.On("DeleteHouseType", ctx, sess, "t2").Return(nil).Once()
	cache.On("InvalidateHouseTypes", ctx).Return(nil).Times(3)

	require.NoError(t, service.SaveHouseType(ctx, sess, domain.HouseType{Name: "Loft"}))
	require.NoError(t, service.SaveHouseType(ctx, sess, domain.HouseType{ID: "t1", Name: "Villa"}))
	require.NoError(t, service.DeleteHouseType(ctx, sess, "t2"))

	api.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCatalogService_FailedSaveKeepsCache(t *testing.T) {
	api := &MockAPI{}
	cache := &MockCache{}
	service := NewCatalogService(api, cache)
	ctx := context.Background()
	sess := &domain.Session{Token: "tok"}

	api.On("AddHouseType", ctx, sess, domain.HouseType{Name: "Loft"}).Return(errors.New("forbidden")).Once()

	assert.Error(t, service.SaveHouseType(ctx, sess, domain.HouseType{Name: "Loft"}))
	cache.AssertNotCalled(t, "InvalidateHouseTypes", mock.Anything)
}

func TestCatalogService_SaveAmenity(t *testing.T) {
	api := &MockAPI{}
	service := NewCatalogService(api, nil)
	ctx := context.Background()
	sess := &domain.Session{Token: "tok"}

	api.On("AddAmenity", ctx, sess, domain.Amenity{Type: "Wifi"}).Return(nil).Once()
	api.On("UpdateAmenity", ctx, sess, domain.Amenity{ID: "a1", Type: "Pool"}).Return(nil).Once()

	require.NoError(t, service.SaveAmenity(ctx, sess, domain.Amenity{Type: "Wifi"}))
	require.NoError(t, service.SaveAmenity(ctx, sess, domain.Amenity{ID: "a1", Type: "Pool"}))
	api.AssertExpectations(t)
}

func TestCatalogService_Wishlist(t *testing.T) {
	cache := &MockCache{}
	service := NewCatalogService(&MockAPI{}, cache)
	ctx := context.Background()
	sess := &domain.Session{Token: "tok", User: domain.User{ID: "u1"}}

	cache.On("ToggleWishlist", ctx, "u1", "h1").Return(true, nil).Once()
	cache.On("Wishlist", ctx, "u1").Return([]string{"h1"}, nil).Once()

	saved, err := service.ToggleWishlist(ctx, sess, "h1")
	require.NoError(t, err)
	assert.True(t, saved)

	ids, err := service.Wishlist(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, []string{"h1"}, ids)

	_, err = service.ToggleWishlist(ctx, nil, "h1")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
