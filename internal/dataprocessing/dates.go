package dataprocessing

import (
	"fmt"
	"strings"
	"time"

	"ipccli/internal/errors"
)

// monthYearLayout matches the feed's month-granularity dates ("May 2023").
const monthYearLayout = "Jan 2006"

// Window sentinels: accumulation starts from the extremes so the first
// parsed range always narrows them.
var (
	FarFutureDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
	FarPastDate   = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// TimePeriod accumulates the min/max window over every validity period seen.
// The window only ever widens.
type TimePeriod struct {
	Start time.Time
	End   time.Time
}

// NewTimePeriod returns an empty accumulator.
func NewTimePeriod() *TimePeriod {
	return &TimePeriod{Start: FarFutureDate, End: FarPastDate}
}

// Bounds returns the accumulated window. ok is false while no range has
// been parsed and the sentinels still stand.
func (tp *TimePeriod) Bounds() (start, end time.Time, ok bool) {
	if tp.Start.Equal(FarFutureDate) && tp.End.Equal(FarPastDate) {
		return time.Time{}, time.Time{}, false
	}
	return tp.Start, tp.End, true
}

// ParseMonthYear parses a "Mon YYYY" token as the first day of that month in
// UTC. Analysis dates denote a point, so no end-of-month adjustment applies.
func ParseMonthYear(value string) (time.Time, error) {
	date, err := time.ParseInLocation(monthYearLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, errors.NewParsingError(
			fmt.Sprintf("cannot parse month-year %q", value), err)
	}
	return date, nil
}

// ParseDateRange parses a "Mon YYYY - Mon YYYY" validity period. The end
// date is pushed forward to the last day of its month (ranges are
// month-inclusive). The accumulator is widened to include the parsed bounds.
// Returns both bounds as ISO date strings.
func (tp *TimePeriod) ParseDateRange(dateRange string) (string, string, error) {
	parts := strings.Split(dateRange, " - ")
	if len(parts) != 2 {
		return "", "", errors.NewParsingError(
			fmt.Sprintf("cannot parse date range %q", dateRange), nil)
	}

	start, err := ParseMonthYear(parts[0])
	if err != nil {
		return "", "", err
	}
	if start.Before(tp.Start) {
		tp.Start = start
	}

	end, err := ParseMonthYear(parts[1])
	if err != nil {
		return "", "", err
	}
	end = end.AddDate(0, 1, -1)
	if end.After(tp.End) {
		tp.End = end
	}

	return start.Format("2006-01-02"), end.Format("2006-01-02"), nil
}
