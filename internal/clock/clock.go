// Package clock provides the injected time source and the integer
// day-number representation used for all completion-date arithmetic.
//
// A day is the server-local calendar date, encoded as days since the Unix
// epoch. Consecutive dates always differ by exactly 1, which keeps streak
// gap checks exact and avoids string/timezone comparisons entirely.
package clock

import "time"

// Func returns the current time. Components hold one of these instead of
// calling time.Now directly so day-boundary behavior is testable.
type Func func() time.Time

// Today returns the current day number according to f.
func (f Func) Today() int {
	return DayNumber(f())
}

const secondsPerDay = 24 * 60 * 60

// DayNumber converts a wall-clock time to its calendar date's day number,
// using the time's own location. Any two times within the same local
// calendar day map to the same number.
func DayNumber(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
}

// Date returns the civil date for a day number as midnight UTC.
func Date(day int) time.Time {
	return time.Unix(int64(day)*secondsPerDay, 0).UTC()
}

// DateString formats a day number as YYYY-MM-DD.
func DateString(day int) string {
	return Date(day).Format(time.DateOnly)
}

// MonthRange returns the day numbers of the first and last calendar days of
// the given month. The month is zero-indexed (0 = January), matching the
// calendar API.
func MonthRange(year, month int) (first, last int) {
	start := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return DayNumber(start), DayNumber(end)
}

// ValidMonth reports whether the year/month pair names a real calendar
// month. The month must be 0-11 and the year inside time.Date's sane range.
func ValidMonth(year, month int) bool {
	return month >= 0 && month <= 11 && year >= 1 && year <= 9999
}
