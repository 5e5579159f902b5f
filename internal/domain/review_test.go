package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRating_Valid(t *testing.T) {
	for _, choice := range RatingChoices() {
		assert.True(t, choice.Valid())
	}
	for _, bad := range []Rating{0, 6, -1} {
		assert.False(t, bad.Valid(), bad)
	}
}

func TestReviewSummary_AverageLabel(t *testing.T) {
	avg := 4.333
	assert.Equal(t, "4.33", ReviewSummary{AvgRating: &avg}.AverageLabel())
	assert.Equal(t, "—", ReviewSummary{}.AverageLabel())
}
