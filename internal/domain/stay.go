package domain

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Stay is a check-in/check-out pair of calendar dates.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func ParseStay(checkIn, checkOut string) (Stay, error) {
	if checkIn == "" || checkOut == "" {
		return Stay{}, fmt.Errorf("%w: check-in and check-out are required", ErrInvalidRange)
	}
	in, err := time.Parse(DateLayout, checkIn)
	if err != nil {
		return Stay{}, fmt.Errorf("%w: check-in %q", ErrInvalidRange, checkIn)
	}
	out, err := time.Parse(DateLayout, checkOut)
	if err != nil {
		return Stay{}, fmt.Errorf("%w: check-out %q", ErrInvalidRange, checkOut)
	}
	return Stay{CheckIn: in, CheckOut: out}, nil
}

// Validate checks the stay against today's date in UTC.
func (s Stay) Validate(now time.Time) error {
	if s.CheckIn.IsZero() || s.CheckOut.IsZero() {
		return fmt.Errorf("%w: check-in and check-out are required", ErrInvalidRange)
	}
	if !s.CheckOut.After(s.CheckIn) {
		return fmt.Errorf("%w: check-out must be after check-in", ErrInvalidRange)
	}
	today := truncateDay(now)
	if truncateDay(s.CheckIn).Before(today) {
		return fmt.Errorf("%w: check-in is in the past", ErrInvalidRange)
	}
	return nil
}

func (s Stay) Nights() int {
	return int(truncateDay(s.CheckOut).Sub(truncateDay(s.CheckIn)).Hours() / 24)
}

// From and To are the normalized bounds sent with availability queries.
func (s Stay) From() string { return truncateDay(s.CheckIn).Format(time.RFC3339) }
func (s Stay) To() string   { return truncateDay(s.CheckOut).Format(time.RFC3339) }

func (s Stay) CheckInDate() string  { return s.CheckIn.Format(DateLayout) }
func (s Stay) CheckOutDate() string { return s.CheckOut.Format(DateLayout) }

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
