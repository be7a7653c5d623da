package analytics

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate is returned when a supplied date string does not parse.
// Callers must treat it as a client error, not a server failure.
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

const dateLayout = "2006-01-02"

// DayWindow resolves an optional YYYY-MM-DD date string into a concrete
// time range. An empty date yields the trailing 24 hours ending at now;
// a parsed date yields that calendar day in the server's local reference,
// from midnight to the last instant before the next midnight.
func DayWindow(now time.Time, date string) (start, end time.Time, err error) {
	if date == "" {
		return now.Add(-24 * time.Hour), now, nil
	}
	day, perr := time.ParseInLocation(dateLayout, date, time.Local)
	if perr != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return day, day.Add(24*time.Hour - time.Nanosecond), nil
}

// RelativeWindow resolves a window token into the instant queries should
// start from. "recent" means the last 5 minutes; any other token means
// the last 24 hours.
func RelativeWindow(now time.Time, token string) time.Time {
	if token == "recent" {
		return now.Add(-5 * time.Minute)
	}
	return now.Add(-24 * time.Hour)
}

// WindowText returns the human phrasing of a window token for report text.
func WindowText(token string) string {
	if token == "recent" {
		return "5 minutes"
	}
	return "24 hours"
}
