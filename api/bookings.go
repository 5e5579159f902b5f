package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Domenick1991/staybook/internal/domain"
	"github.com/Domenick1991/staybook/internal/payment"
	"github.com/Domenick1991/staybook/internal/service/booking"
	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the booking attempt lifecycle, including the endpoint
// the payment widget's completion handler posts to.
type BookingHandler struct {
	service     booking.BookingUseCase
	waitTimeout time.Duration
}

type attemptRequest struct {
	ListingID string             `json:"listing_id"`
	CheckIn   string             `json:"check_in"`
	CheckOut  string             `json:"check_out"`
	Guests    domain.GuestCounts `json:"guests"`
}

type attemptResponse struct {
	ID         string             `json:"id"`
	ListingID  string             `json:"listing_id"`
	CheckIn    string             `json:"check_in,omitempty"`
	CheckOut   string             `json:"check_out,omitempty"`
	Nights     int                `json:"nights"`
	Guests     domain.GuestCounts `json:"guests"`
	GuestTotal int                `json:"guest_total"`
	Status     string             `json:"status"`
	Message    string             `json:"message,omitempty"`
	Available  *bool              `json:"available,omitempty"`
	Reason     string             `json:"reason,omitempty"`
	BookingID  string             `json:"booking_id,omitempty"`
	OrderID    string             `json:"order_id,omitempty"`
	Amount     int64              `json:"amount,omitempty"`
	Failure    string             `json:"failure,omitempty"`
	UpdatedAt  string             `json:"updated_at"`
}

type submitResponse struct {
	Attempt attemptResponse `json:"attempt"`
	Payment payment.Options `json:"payment"`
}

func NewBookingHandler(service booking.BookingUseCase, waitTimeout time.Duration) *BookingHandler {
	return &BookingHandler{service: service, waitTimeout: waitTimeout}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.start)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.revise)
	router.POST("/:id/availability", h.checkAvailability)
	router.POST("/:id/submit", h.submit)
	router.POST("/:id/payment", h.paymentCallback)
	router.POST("/:id/dismiss", h.dismiss)
	router.GET("/:id/wait", h.wait)
}

func (h *BookingHandler) start(c *gin.Context) {
	input, ok := bindAttempt(c)
	if !ok {
		return
	}

	attempt, err := h.service.StartAttempt(c.Request.Context(), sessionFrom(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAttemptResponse(attempt))
}

func (h *BookingHandler) revise(c *gin.Context) {
	input, ok := bindAttempt(c)
	if !ok {
		return
	}

	attempt, err := h.service.Revise(c.Request.Context(), sessionFrom(c), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAttemptResponse(attempt))
}

func (h *BookingHandler) checkAvailability(c *gin.Context) {
	attempt, err := h.service.CheckAvailability(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAttemptResponse(attempt))
}

func (h *BookingHandler) submit(c *gin.Context) {
	attempt, opts, err := h.service.Submit(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, submitResponse{Attempt: toAttemptResponse(attempt), Payment: opts})
}

func (h *BookingHandler) paymentCallback(c *gin.Context) {
	var receipt domain.PaymentReceipt
	if err := c.ShouldBindJSON(&receipt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if receipt.PaymentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "razorpay_payment_id is required"})
		return
	}

	if err := h.service.DeliverCallback(c.Request.Context(), sessionFrom(c), c.Param("id"), receipt); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": string(domain.AttemptPaymentCallbackReceived)})
}

func (h *BookingHandler) dismiss(c *gin.Context) {
	if err := h.service.Dismiss(c.Request.Context(), sessionFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": string(domain.AttemptAbandoned)})
}

func (h *BookingHandler) get(c *gin.Context) {
	attempt, err := h.service.Get(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAttemptResponse(attempt))
}

// wait long-polls until the attempt leaves its payment phase. On timeout the
// current state is returned with 202.
func (h *BookingHandler) wait(c *gin.Context) {
	ctx := c.Request.Context()
	if h.waitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.waitTimeout)
		defer cancel()
	}

	attempt, err := h.service.Wait(ctx, sessionFrom(c), c.Param("id"))
	if err == nil {
		c.JSON(http.StatusOK, toAttemptResponse(attempt))
		return
	}
	if ctx.Err() == nil {
		respondError(c, err)
		return
	}

	attempt, err = h.service.Get(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, toAttemptResponse(attempt))
}

func bindAttempt(c *gin.Context) (booking.AttemptInput, bool) {
	var req attemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return booking.AttemptInput{}, false
	}

	input := booking.AttemptInput{ListingID: req.ListingID, Guests: req.Guests}
	if req.CheckIn != "" || req.CheckOut != "" {
		stay, err := domain.ParseStay(req.CheckIn, req.CheckOut)
		if err != nil {
			respondError(c, err)
			return booking.AttemptInput{}, false
		}
		input.Stay = stay
	}
	return input, true
}

func toAttemptResponse(a *domain.Attempt) attemptResponse {
	resp := attemptResponse{
		ID:         a.ID,
		ListingID:  a.ListingID,
		Guests:     a.Guests,
		GuestTotal: a.Guests.Total(),
		Status:     string(a.Status),
		Message:    a.Message(),
		Failure:    a.Failure,
		UpdatedAt:  a.UpdatedAt.Format(time.RFC3339),
	}
	if !a.Stay.CheckIn.IsZero() && !a.Stay.CheckOut.IsZero() {
		resp.CheckIn = a.Stay.CheckInDate()
		resp.CheckOut = a.Stay.CheckOutDate()
		resp.Nights = a.Stay.Nights()
	}
	if a.Availability != nil {
		available := a.Availability.Available
		resp.Available = &available
		resp.Reason = a.Availability.Reason
	}
	if a.Order != nil {
		resp.BookingID = a.Order.BookingID
		resp.OrderID = a.Order.OrderID
		resp.Amount = a.Order.Amount
	}
	return resp
}
