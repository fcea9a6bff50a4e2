package utils

import "time"

// LondonLocation is the reference timezone. "Today" for history entries and
// alert-state resets is always computed in London time.
var LondonLocation *time.Location

func init() {
	var err error
	LondonLocation, err = time.LoadLocation("Europe/London")
	if err != nil {
		// Fallback to UTC; dates drift by at most an hour around midnight.
		LondonLocation = time.UTC
	}
}

// DateFormat is the calendar-date layout used by the persisted stores.
const DateFormat = "2006-01-02"

// Now returns the current time in the reference timezone.
func Now() time.Time {
	return time.Now().In(LondonLocation)
}

// Today returns today's calendar date in the reference timezone.
func Today() string {
	return Now().Format(DateFormat)
}

// DateString formats a time as a calendar date in the reference timezone.
func DateString(t time.Time) string {
	return t.In(LondonLocation).Format(DateFormat)
}

// CutoffDate returns the calendar date `days` days before now in the
// reference timezone. Entries dated strictly before the cutoff are stale.
func CutoffDate(days int) string {
	return Now().AddDate(0, 0, -days).Format(DateFormat)
}
