package catalog

import (
	"context"
	"log"

	"github.com/Domenick1991/staybook/internal/domain"
)

type CatalogUseCase interface {
	HouseTypes(ctx context.Context, sess *domain.Session) ([]domain.HouseType, error)
	Categories(ctx context.Context, sess *domain.Session) ([]domain.CategoryView, error)
	ListHouses(ctx context.Context, sess *domain.Session, query string) ([]domain.Listing, error)
	GetHouse(ctx context.Context, sess *domain.Session, id string) (*domain.Listing, error)
	HousesByType(ctx context.Context, typeID string) ([]domain.Listing, error)
	Amenities(ctx context.Context) ([]domain.Amenity, error)
	ToggleWishlist(ctx context.Context, sess *domain.Session, houseID string) (bool, error)
	Wishlist(ctx context.Context, sess *domain.Session) ([]string, error)
	SaveAmenity(ctx context.Context, sess *domain.Session, a domain.Amenity) error
	DeleteAmenity(ctx context.Context, sess *domain.Session, id string) error
	SaveHouseType(ctx context.Context, sess *domain.Session, t domain.HouseType) error
	DeleteHouseType(ctx context.Context, sess *domain.Session, id string) error
}

type API interface {
	HouseTypes(ctx context.Context, sess *domain.Session) ([]domain.HouseType, error)
	ListHouses(ctx context.Context, sess *domain.Session) ([]domain.Listing, error)
	GetHouse(ctx context.Context, sess *domain.Session, id string) (*domain.Listing, error)
	HousesByType(ctx context.Context, typeID string) ([]domain.Listing, error)
	Amenities(ctx context.Context) ([]domain.Amenity, error)
	AddAmenity(ctx context.Context, sess *domain.Session, a domain.Amenity) error
	UpdateAmenity(ctx context.Context, sess *domain.Session, a domain.Amenity) error
	DeleteAmenity(ctx context.Context, sess *domain.Session, id string) error
	AddHouseType(ctx context.Context, sess *domain.Session, t domain.HouseType) error
	UpdateHouseType(ctx context.Context, sess *domain.Session, t domain.HouseType) error
	DeleteHouseType(ctx context.Context, sess *domain.Session, id string) error
}

type Cache interface {
	GetHouseTypes(ctx context.Context) ([]domain.HouseType, error)
	SetHouseTypes(ctx context.Context, types []domain.HouseType) error
	InvalidateHouseTypes(ctx context.Context) error
	ToggleWishlist(ctx context.Context, userID, houseID string) (bool, error)
	Wishlist(ctx context.Context, userID string) ([]string, error)
}

type CatalogService struct {
	api   API
	cache Cache
}

func NewCatalogService(api API, cache Cache) *CatalogService {
	return &CatalogService{api: api, cache: cache}
}

func (s *CatalogService) HouseTypes(ctx context.Context, sess *domain.Session) ([]domain.HouseType, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetHouseTypes(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	types, err := s.api.HouseTypes(ctx, sess)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetHouseTypes(ctx, types); err != nil {
			log.Printf("failed to cache house types: %v", err)
		}
	}
	return types, nil
}

// Categories renders house types as carousel entries.
func (s *CatalogService) Categories(ctx context.Context, sess *domain.Session) ([]domain.CategoryView, error) {
	types, err := s.HouseTypes(ctx, sess)
	if err != nil {
		return nil, err
	}
	return domain.BuildCategoryViews(types), nil
}

// ListHouses returns the listings whose title or location contains query.
func (s *CatalogService) ListHouses(ctx context.Context, sess *domain.Session, query string) ([]domain.Listing, error) {
	houses, err := s.api.ListHouses(ctx, sess)
	if err != nil {
		return nil, err
	}
	return filter(houses, query), nil
}

func (s *CatalogService) GetHouse(ctx context.Context, sess *domain.Session, id string) (*domain.Listing, error) {
	return s.api.GetHouse(ctx, sess, id)
}

func (s *CatalogService) HousesByType(ctx context.Context, typeID string) ([]domain.Listing, error) {
	return s.api.HousesByType(ctx, typeID)
}

func (s *CatalogService) Amenities(ctx context.Context) ([]domain.Amenity, error) {
	return s.api.Amenities(ctx)
}

// ToggleWishlist flips houseID on the session user's wishlist and reports whether it is now saved.
func (s *CatalogService) ToggleWishlist(ctx context.Context, sess *domain.Session, houseID string) (bool, error) {
	if err := sess.Require(); err != nil {
		return false, err
	}
	return s.cache.ToggleWishlist(ctx, sess.User.ID, houseID)
}

func (s *CatalogService) Wishlist(ctx context.Context, sess *domain.Session) ([]string, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	return s.cache.Wishlist(ctx, sess.User.ID)
}

// SaveAmenity creates the amenity, or updates it when it carries an id.
func (s *CatalogService) SaveAmenity(ctx context.Context, sess *domain.Session, a domain.Amenity) error {
	if a.ID == "" {
		return s.api.AddAmenity(ctx, sess, a)
	}
	return s.api.UpdateAmenity(ctx, sess, a)
}

func (s *CatalogService) DeleteAmenity(ctx context.Context, sess *domain.Session, id string) error {
	return s.api.DeleteAmenity(ctx, sess, id)
}

// SaveHouseType creates or updates a house type and drops the cached list.
func (s *CatalogService) SaveHouseType(ctx context.Context, sess *domain.Session, t domain.HouseType) error {
	var err error
	if t.ID == "" {
		err = s.api.AddHouseType(ctx, sess, t)
	} else {
		err = s.api.UpdateHouseType(ctx, sess, t)
	}
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) DeleteHouseType(ctx context.Context, sess *domain.Session, id string) error {
	if err := s.api.DeleteHouseType(ctx, sess, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateHouseTypes(ctx); err != nil {
		log.Printf("failed to invalidate house types cache: %v", err)
	}
}

func filter(houses []domain.Listing, query string) []domain.Listing {
	if query == "" {
		return houses
	}
	out := make([]domain.Listing, 0, len(houses))
	for _, h := range houses {
		if h.Matches(query) {
			out = append(out, h)
		}
	}
	return out
}

var _ CatalogUseCase = (*CatalogService)(nil)
