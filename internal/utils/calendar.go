package utils

import "time"

// Calendar helpers for the month-by-month sales simulation. All functions
// are pure and operate on dates normalized to UTC midnight.

// Date builds a UTC midnight time for the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// MonthStart returns the first day of the month containing d.
func MonthStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextMonth returns the first day of the month after the one containing d.
func NextMonth(d time.Time) time.Time {
	return MonthStart(d).AddDate(0, 1, 0)
}

// MonthEnd returns the last day of the month containing d.
func MonthEnd(d time.Time) time.Time {
	return NextMonth(d).AddDate(0, 0, -1)
}

// DaysBetween returns the number of whole days from a to b.
// Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// RandomDateInMonth draws a uniform date within the month containing month,
// bounded below by lowerBound. An inverted range (lower bound past the end
// of the month) collapses to the month's last day rather than failing.
func RandomDateInMonth(rng *Random, month, lowerBound time.Time) time.Time {
	lo := MonthStart(month)
	hi := MonthEnd(month)
	if lowerBound.After(lo) {
		lo = lowerBound
	}
	if lo.After(hi) {
		lo = hi
	}

	span := DaysBetween(lo, hi)
	return lo.AddDate(0, 0, rng.IntRange(0, span))
}
