package api

import (
	"net/http"

	"github.com/Domenick1991/staybook/internal/service/console"
	"github.com/gin-gonic/gin"
)

// TripHandler serves the guest's own bookings.
type TripHandler struct {
	service console.GuestUseCase
}

func NewTripHandler(service console.GuestUseCase) *TripHandler {
	return &TripHandler{service: service}
}

func (h *TripHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.DELETE("/:id", h.cancel)
}

func (h *TripHandler) list(c *gin.Context) {
	bookings, err := h.service.MyBookings(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *TripHandler) cancel(c *gin.Context) {
	if err := h.service.CancelMyBooking(c.Request.Context(), sessionFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
}
