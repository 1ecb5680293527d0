package search

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the YYYY-MM-DD format dates use at the boundary.
const DateLayout = "2006-01-02"

var ErrBadDate = errors.New("dates must be formatted YYYY-MM-DD")

// ParseDate parses a boundary date into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	return d, nil
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RentalDays counts the days in [start, end], both ends included.
func RentalDays(start, end time.Time) int {
	return int(Day(end).Sub(Day(start)).Hours()/24) + 1
}

type Dates struct {
	Today        time.Time `json:"-"`
	Future       time.Time `json:"-"`
	TodayString  string    `json:"today"`
	FutureString string    `json:"future"`
}

// DefaultDates pre-populates date pickers with today and today plus days.
func DefaultDates(now time.Time, days int) Dates {
	today := Day(now)
	future := today.AddDate(0, 0, days)
	return Dates{
		Today:        today,
		Future:       future,
		TodayString:  today.Format(DateLayout),
		FutureString: future.Format(DateLayout),
	}
}
