// Package query holds the pure view computations over expense snapshots:
// filtering, prefix pagination and per-category aggregation.
package query

import (
	"fmt"
	"time"

	"github.com/Veraticus/xpense/internal/common"
)

// DayLayout is the calendar-day format accepted by ParseDay.
const DayLayout = "2006-01-02"

// Day is a calendar date without a time of day.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, &common.ValidationError{
			Field: "date",
			Msg:   fmt.Sprintf("%q is not a YYYY-MM-DD date", s),
			Err:   err,
		}
	}
	return DayOf(t), nil
}

// DayOf returns the calendar day t falls on in its own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// Start returns 00:00:00 of the day in loc.
func (d Day) Start(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// End returns 23:59:59 of the day in loc.
func (d Day) End(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 23, 59, 59, 0, loc)
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
