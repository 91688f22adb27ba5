package severance

// =============================================================================
// STATUTORY VACATION LADDER - LFT art. 76 (2023 reform)
// =============================================================================

// vacationLadder maps the first five service years to entitled days.
// From year six on, entitlement grows by two days per five-year band.
var vacationLadder = [...]int{12, 14, 16, 18, 20}

// VacationDaysForYear returns the statutory vacation entitlement for the
// given 1-based service year: 12 days for year one, growing two days per
// year through year five, then two more days per additional five-year
// band (22 for years 6-10, 24 for 11-15, and so on).
func VacationDaysForYear(serviceYear int) int {
	if serviceYear < 1 {
		return 0
	}
	if serviceYear <= len(vacationLadder) {
		return vacationLadder[serviceYear-1]
	}
	band := (serviceYear - 6) / 5 // 0 for years 6-10, 1 for 11-15, ...
	return 22 + 2*band
}
