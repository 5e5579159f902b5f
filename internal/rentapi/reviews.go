package rentapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Domenick1991/staybook/internal/domain"
)

func (c *Client) HouseReviews(ctx context.Context, sess *domain.Session, listingID string) (domain.ReviewSummary, error) {
	var out domain.ReviewSummary
	if err := c.doJSON(ctx, sess, protected, http.MethodGet, "/api/reviews/house/"+url.PathEscape(listingID), nil, &out); err != nil {
		return domain.ReviewSummary{}, err
	}
	if out.Reviews == nil {
		out.Reviews = []domain.Review{}
	}
	return out, nil
}

func (c *Client) ReviewEligibility(ctx context.Context, sess *domain.Session, listingID string) (domain.Eligibility, error) {
	var out domain.Eligibility
	if err := c.doJSON(ctx, sess, protected, http.MethodGet, "/api/reviews/eligible/"+url.PathEscape(listingID), nil, &out); err != nil {
		return domain.Eligibility{}, err
	}
	return out, nil
}

type submitReviewRequest struct {
	Rating  domain.Rating `json:"rating"`
	Comment string        `json:"comment"`
}

func (c *Client) SubmitReview(ctx context.Context, sess *domain.Session, bookingID string, rating domain.Rating, comment string) error {
	req := submitReviewRequest{Rating: rating, Comment: comment}
	return c.doJSON(ctx, sess, protected, http.MethodPost, "/api/reviews/"+url.PathEscape(bookingID), req, nil)
}
