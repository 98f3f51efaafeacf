// Package fiscal maps calendar dates to fiscal years and periods for
// companies whose fiscal year does not start in January.
package fiscal

import (
	"fmt"
	"time"
)

// YearPeriod returns the fiscal year and period (1..12) for a date under a
// fiscal year starting on the 1st of startMonth.
//
// The fiscal year is named by the calendar year it ends in: with a July start,
// July..December of year Y belong to fiscal year Y+1 (periods 1..6) and
// January..June of year Y belong to fiscal year Y (periods 7..12). A January
// start degenerates to the calendar year.
func YearPeriod(date time.Time, startMonth time.Month) (year int, period int, err error) {
	if startMonth < time.January || startMonth > time.December {
		return 0, 0, fmt.Errorf("fiscal year start month out of range: %d", startMonth)
	}

	month := date.Month()
	year = date.Year()

	if startMonth == time.January {
		return year, int(month), nil
	}

	if month >= startMonth {
		// First half of the fiscal year that ends next calendar year.
		return year + 1, int(month-startMonth) + 1, nil
	}
	return year, int(month) + 12 - int(startMonth) + 1, nil
}

// PeriodStart returns the first day of the given fiscal period.
func PeriodStart(fiscalYear, period int, startMonth time.Month) (time.Time, error) {
	if period < 1 || period > 12 {
		return time.Time{}, fmt.Errorf("fiscal period out of range: %d", period)
	}
	if startMonth < time.January || startMonth > time.December {
		return time.Time{}, fmt.Errorf("fiscal year start month out of range: %d", startMonth)
	}

	calYear := fiscalYear
	if startMonth != time.January {
		calYear = fiscalYear - 1
	}
	month := int(startMonth) + period - 1
	if month > 12 {
		month -= 12
		calYear++
	}
	return time.Date(calYear, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

// PeriodEnd returns the last instant's day of the given fiscal period.
func PeriodEnd(fiscalYear, period int, startMonth time.Month) (time.Time, error) {
	start, err := PeriodStart(fiscalYear, period, startMonth)
	if err != nil {
		return time.Time{}, err
	}
	return start.AddDate(0, 1, -1), nil
}
