// Package timeutil provides the calendar-date and minutes-since-epoch
// conversions the roster engine's constraint families share: the
// no-overlap interval encoding, rolling-window date ranges, and
// duty-date bucketing.
package timeutil

import "time"

// MinutesPerDay is the number of minutes in a day.
const MinutesPerDay = 1440

// Epoch is the zero point for the no-overlap interval encoding
// (minutes-since-epoch offsets feeding internal/solver.IntervalVar).
var Epoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// MinutesSinceEpoch converts a UTC timestamp to whole minutes since
// Epoch, truncating any sub-minute remainder.
func MinutesSinceEpoch(t time.Time) int64 {
	return int64(t.Sub(Epoch).Minutes())
}

// DateOnly truncates a UTC timestamp to its calendar date at midnight.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DatesInRange returns every calendar date from start to end inclusive.
func DatesInRange(start, end time.Time) []time.Time {
	start, end = DateOnly(start), DateOnly(end)
	if end.Before(start) {
		return nil
	}
	n := int(end.Sub(start).Hours()/24) + 1
	dates := make([]time.Time, n)
	for i := 0; i < n; i++ {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

// WindowStart returns the first date of the (windowDays-1)-day range
// ending the day before anchor: [anchor-(windowDays-1), anchor-1].
// Used to locate the historical-lookback range preceding a rolling
// window rooted at anchor.
func WindowStart(anchor time.Time, windowDays int) time.Time {
	return DateOnly(anchor).AddDate(0, 0, -(windowDays - 1))
}

// WindowEnd returns the last date of the historical-lookback range
// preceding anchor (anchor-1).
func WindowEnd(anchor time.Time) time.Time {
	return DateOnly(anchor).AddDate(0, 0, -1)
}

// InRange reports whether date falls within [start, end] inclusive.
func InRange(date, start, end time.Time) bool {
	date, start, end = DateOnly(date), DateOnly(start), DateOnly(end)
	return !date.Before(start) && !date.After(end)
}
