package api

import (
	"net/http"

	"github.com/Domenick1991/staybook/internal/domain"
	"github.com/Domenick1991/staybook/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type HouseHandler struct {
	service   catalog.CatalogUseCase
	imageBase string
}

type houseResponse struct {
	domain.Listing
	ImageURLs []string `json:"imageUrls"`
}

func NewHouseHandler(service catalog.CatalogUseCase, imageBase string) *HouseHandler {
	return &HouseHandler{service: service, imageBase: imageBase}
}

func (h *HouseHandler) Register(router *gin.RouterGroup) {
	router.GET("/houses", h.list)
	router.GET("/houses/:id", h.get)
	router.GET("/house-types", h.houseTypes)
	router.GET("/categories", h.categories)
	router.GET("/categories/:typeId/houses", h.byType)
	router.GET("/amenities", h.amenities)
	router.GET("/wishlist", h.wishlist)
	router.POST("/wishlist/:id", h.toggleWishlist)
}

func (h *HouseHandler) list(c *gin.Context) {
	houses, err := h.service.ListHouses(c.Request.Context(), sessionFrom(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, houses)
}

func (h *HouseHandler) get(c *gin.Context) {
	house, err := h.service.GetHouse(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, houseResponse{Listing: *house, ImageURLs: house.ImageURLs(h.imageBase)})
}

func (h *HouseHandler) houseTypes(c *gin.Context) {
	types, err := h.service.HouseTypes(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

func (h *HouseHandler) categories(c *gin.Context) {
	views, err := h.service.Categories(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *HouseHandler) byType(c *gin.Context) {
	houses, err := h.service.HousesByType(c.Request.Context(), c.Param("typeId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, houses)
}

func (h *HouseHandler) amenities(c *gin.Context) {
	amenities, err := h.service.Amenities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, amenities)
}

func (h *HouseHandler) wishlist(c *gin.Context) {
	ids, err := h.service.Wishlist(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"houses": ids})
}

func (h *HouseHandler) toggleWishlist(c *gin.Context) {
	saved, err := h.service.ToggleWishlist(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "saved": saved})
}
