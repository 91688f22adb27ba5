package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DATE ARITHMETIC - Seniority and proportional-period math
// =============================================================================

var yearLength = decimal.NewFromFloat(365.25)

// Date builds a UTC calendar date. All engine dates are day-granular.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from one date to another.
func DaysBetween(from, to time.Time) int {
	return int(normalize(to).Sub(normalize(from)).Hours() / 24)
}

// DaysInYear returns 365 or 366 for the calendar year.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// StartOfYear returns January 1 of the given year.
func StartOfYear(year int) time.Time {
	return Date(year, time.January, 1)
}

// YearsOfService returns fractional seniority between two dates,
// measured against the mean year length (365.25 days).
func YearsOfService(start, end time.Time) decimal.Decimal {
	days := decimal.NewFromInt(int64(DaysBetween(start, end)))
	return days.Div(yearLength)
}

// CompletedYears returns whole anniversaries of service between the two
// dates. Step-function lookups (vacation ladder, seniority premium) use
// this, never the fractional figure, so leap years cannot shift a
// completed anniversary.
func CompletedYears(start, end time.Time) int {
	start, end = normalize(start), normalize(end)
	years := end.Year() - start.Year()
	if years < 0 {
		return 0
	}
	if start.AddDate(years, 0, 0).After(end) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// CurrentServiceYear returns the 1-based service year in progress.
// A termination falling exactly on an anniversary counts as the completed
// year, not the next one: a 2020-01-01 start terminated 2024-01-01 is
// service year 4.
func CurrentServiceYear(start, end time.Time) int {
	completed := CompletedYears(start, end)
	if completed > 0 && normalize(start).AddDate(completed, 0, 0).Equal(normalize(end)) {
		return completed
	}
	return completed + 1
}
