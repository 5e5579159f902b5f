package domain

import (
	"strconv"
	"time"
)

// Rating is a star rating from one to five.
type Rating int

func (r Rating) Valid() bool {
	return r >= 1 && r <= 5
}

// RatingChoices is the fixed set offered by the review form, best first.
func RatingChoices() []Rating {
	return []Rating{5, 4, 3, 2, 1}
}

type Review struct {
	ID        string    `json:"_id"`
	BookingID string    `json:"bookingId,omitempty"`
	Rating    Rating    `json:"rating"`
	Comment   string    `json:"comment"`
	Author    *User     `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type ReviewSummary struct {
	Reviews   []Review `json:"reviews"`
	AvgRating *float64 `json:"avgRating"`
}

// AverageLabel renders the average with two decimals, or an em placeholder when absent.
func (s ReviewSummary) AverageLabel() string {
	if s.AvgRating == nil || *s.AvgRating == 0 {
		return "—"
	}
	return strconv.FormatFloat(*s.AvgRating, 'f', 2, 64)
}

type Eligibility struct {
	Eligible  bool   `json:"eligible"`
	BookingID string `json:"bookingId,omitempty"`
}
