package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/staybook/internal/domain"
	"github.com/Domenick1991/staybook/internal/service/reviews"
	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	service reviews.ReviewUseCase
}

type reviewRequest struct {
	BookingID string `json:"booking_id"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment" binding:"required"`
}

type reviewsResponse struct {
	Reviews      []domain.Review `json:"reviews"`
	AvgRating    *float64        `json:"avgRating"`
	AverageLabel string          `json:"averageLabel"`
}

func NewReviewHandler(service reviews.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) Register(router *gin.RouterGroup) {
	router.GET("/:id/reviews", h.list)
	router.GET("/:id/reviews/eligibility", h.eligibility)
	router.POST("/:id/reviews", h.submit)
}

func (h *ReviewHandler) list(c *gin.Context) {
	summary, err := h.service.ListReviews(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReviewsResponse(summary))
}

// eligibility reports whether the review form should be shown. A failed check
// is reported as not eligible.
func (h *ReviewHandler) eligibility(c *gin.Context) {
	el, err := h.service.CheckEligibility(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil && !errors.Is(err, domain.ErrEligibilityUnknown) {
		respondError(c, err)
		return
	}

	resp := gin.H{"eligible": el.Eligible}
	if el.Eligible {
		resp["booking_id"] = el.BookingID
		resp["ratings"] = domain.RatingChoices()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) submit(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.service.SubmitReview(c.Request.Context(), sessionFrom(c), c.Param("id"), reviews.SubmitReviewInput{
		BookingID: req.BookingID,
		Rating:    domain.Rating(req.Rating),
		Comment:   req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReviewsResponse(summary))
}

func toReviewsResponse(s domain.ReviewSummary) reviewsResponse {
	list := s.Reviews
	if list == nil {
		list = []domain.Review{}
	}
	return reviewsResponse{Reviews: list, AvgRating: s.AvgRating, AverageLabel: s.AverageLabel()}
}
