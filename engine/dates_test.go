package engine_test

import (
	"testing"
	"time"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// SENIORITY ARITHMETIC TESTS
// =============================================================================

func TestCompletedYears_ExactAnniversary(t *testing.T) {
	// GIVEN: Employment from 2020-01-01 to 2024-01-01
	// WHEN: Counting completed years
	// THEN: Exactly 4, even though days/365.25 is slightly under 4

	start := engine.Date(2020, time.January, 1)
	end := engine.Date(2024, time.January, 1)

	if got := engine.CompletedYears(start, end); got != 4 {
		t.Errorf("CompletedYears = %d, want 4", got)
	}
}

func TestCompletedYears_DayBeforeAnniversary(t *testing.T) {
	start := engine.Date(2020, time.March, 15)
	end := engine.Date(2023, time.March, 14)

	if got := engine.CompletedYears(start, end); got != 2 {
		t.Errorf("CompletedYears = %d, want 2", got)
	}
}

func TestCompletedYears_NonLeapSpan(t *testing.T) {
	// Three plain 365-day years: 1095 days, still three full anniversaries.
	start := engine.Date(2021, time.January, 1)
	end := engine.Date(2024, time.January, 1)

	if got := engine.CompletedYears(start, end); got != 3 {
		t.Errorf("CompletedYears = %d, want 3", got)
	}
}

func TestCompletedYears_UnderOneYear(t *testing.T) {
	start := engine.Date(2024, time.February, 1)
	end := engine.Date(2024, time.November, 30)

	if got := engine.CompletedYears(start, end); got != 0 {
		t.Errorf("CompletedYears = %d, want 0", got)
	}
}

func TestYearsOfService_Fractional(t *testing.T) {
	// 730 days / 365.25 ≈ 1.9986
	start := engine.Date(2022, time.January, 1)
	end := engine.Date(2024, time.January, 1)

	years := engine.YearsOfService(start, end)
	if years.StringFixed(4) != "1.9986" {
		t.Errorf("YearsOfService = %s, want 1.9986", years.StringFixed(4))
	}
}

func TestCurrentServiceYear(t *testing.T) {
	start := engine.Date(2020, time.June, 1)

	cases := []struct {
		name string
		end  time.Time
		want int
	}{
		{"mid first year", engine.Date(2020, time.December, 1), 1},
		{"day before first anniversary", engine.Date(2021, time.May, 31), 1},
		{"exactly on anniversary", engine.Date(2021, time.June, 1), 1},
		{"day after first anniversary", engine.Date(2021, time.June, 2), 2},
		{"exactly on fourth anniversary", engine.Date(2024, time.June, 1), 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := engine.CurrentServiceYear(start, tc.end); got != tc.want {
				t.Errorf("CurrentServiceYear(%s) = %d, want %d", tc.end.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}

func TestDaysBetween_IgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2024, time.March, 1, 23, 59, 0, 0, time.UTC)
	to := time.Date(2024, time.March, 3, 0, 1, 0, 0, time.UTC)

	if got := engine.DaysBetween(from, to); got != 2 {
		t.Errorf("DaysBetween = %d, want 2", got)
	}
}

func TestDaysInYear(t *testing.T) {
	if got := engine.DaysInYear(2024); got != 366 {
		t.Errorf("DaysInYear(2024) = %d, want 366", got)
	}
	if got := engine.DaysInYear(2023); got != 365 {
		t.Errorf("DaysInYear(2023) = %d, want 365", got)
	}
	if got := engine.DaysInYear(1900); got != 365 {
		t.Errorf("DaysInYear(1900) = %d, want 365 (century rule)", got)
	}
	if got := engine.DaysInYear(2000); got != 366 {
		t.Errorf("DaysInYear(2000) = %d, want 366 (400-year rule)", got)
	}
}
