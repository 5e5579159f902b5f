package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/staybook/internal/domain"
	"github.com/Domenick1991/staybook/internal/service/catalog"
	"github.com/Domenick1991/staybook/internal/service/console"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	service console.AdminUseCase
	catalog catalog.CatalogUseCase
}

type amenityRequest struct {
	Type    string `json:"type" binding:"required"`
	IconURL string `json:"iconUrl"`
}

type houseTypeRequest struct {
	Name string `json:"name" binding:"required"`
	Icon string `json:"icon"`
}

func NewAdminHandler(service console.AdminUseCase, catalogService catalog.CatalogUseCase) *AdminHandler {
	return &AdminHandler{service: service, catalog: catalogService}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.GET("/stats", h.stats)
	router.GET("/users", h.users)
	router.DELETE("/users/:id", h.deleteUser)
	router.GET("/properties", h.properties)
	router.DELETE("/properties/:id", h.deleteProperty)
	router.GET("/bookings", h.bookings)
	router.DELETE("/bookings/:id", h.cancelBooking)
	router.GET("/reviews", h.reviews)
	router.DELETE("/reviews/:id", h.deleteReview)

	router.POST("/amenities", h.saveAmenity)
	router.PUT("/amenities/:id", h.saveAmenity)
	router.DELETE("/amenities/:id", h.deleteAmenity)
	router.POST("/house-types", h.saveHouseType)
	router.PUT("/house-types/:id", h.saveHouseType)
	router.DELETE("/house-types/:id", h.deleteHouseType)

	router.GET("/payment-issues", h.paymentIssues)
	router.POST("/payment-issues/:id/resolve", h.resolvePaymentIssue)
}

func (h *AdminHandler) stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) users(c *gin.Context) {
	users, err := h.service.Users(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) deleteUser(c *gin.Context) {
	h.noContent(c, h.service.DeleteUser(c.Request.Context(), sessionFrom(c), c.Param("id")))
}

func (h *AdminHandler) properties(c *gin.Context) {
	list, err := h.service.Properties(c.Request.Context(), sessionFrom(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) deleteProperty(c *gin.Context) {
	h.noContent(c, h.service.RemoveProperty(c.Request.Context(), sessionFrom(c), c.Param("id")))
}

func (h *AdminHandler) bookings(c *gin.Context) {
	list, err := h.service.Bookings(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) cancelBooking(c *gin.Context) {
	h.noContent(c, h.service.CancelBooking(c.Request.Context(), sessionFrom(c), c.Param("id")))
}

func (h *AdminHandler) reviews(c *gin.Context) {
	list, err := h.service.Reviews(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) deleteReview(c *gin.Context) {
	h.noContent(c, h.service.DeleteReview(c.Request.Context(), sessionFrom(c), c.Param("id")))
}

func (h *AdminHandler) saveAmenity(c *gin.Context) {
	if !h.isAdmin(c) {
		return
	}
	var req amenityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a := domain.Amenity{ID: c.Param("id"), Type: req.Type, IconURL: req.IconURL}
	h.noContent(c, h.catalog.SaveAmenity(c.Request.Context(), sessionFrom(c), a))
}

func (h *AdminHandler) deleteAmenity(c *gin.Context) {
	if !h.isAdmin(c) {
		return
	}
	h.noContent(c, h.catalog.DeleteAmenity(c.Request.Context(), sessionFrom(c), c.Param("id")))
}

func (h *AdminHandler) saveHouseType(c *gin.Context) {
	if !h.isAdmin(c) {
		return
	}
	var req houseTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t := domain.HouseType{ID: c.Param("id"), Name: req.Name, Icon: req.Icon}
	h.noContent(c, h.catalog.SaveHouseType(c.Request.Context(), sessionFrom(c), t))
}

func (h *AdminHandler) deleteHouseType(c *gin.Context) {
	if !h.isAdmin(c) {
		return
	}
	h.noContent(c, h.catalog.DeleteHouseType(c.Request.Context(), sessionFrom(c), c.Param("id")))
}

func (h *AdminHandler) paymentIssues(c *gin.Context) {
	issues, err := h.service.PaymentIssues(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, issues)
}

func (h *AdminHandler) resolvePaymentIssue(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	issue, err := h.service.ResolvePaymentIssue(c.Request.Context(), sessionFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

// isAdmin guards the catalog endpoints, which do not check roles themselves.
func (h *AdminHandler) isAdmin(c *gin.Context) bool {
	sess := sessionFrom(c)
	if err := sess.Require(); err != nil {
		respondError(c, err)
		return false
	}
	if sess.User.Role != domain.RoleAdmin {
		respondError(c, console.ErrForbidden)
		return false
	}
	return true
}

func (h *AdminHandler) noContent(c *gin.Context, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
