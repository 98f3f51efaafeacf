package fiscal_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/dawingroup/dawinos-sub003/internal/core/fiscal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestYearPeriod_JulyStart(t *testing.T) {
	testCases := []struct {
		date         time.Time
		expectYear   int
		expectPeriod int
	}{
		{date(2024, time.July, 1), 2025, 1},
		{date(2024, time.August, 15), 2025, 2},
		{date(2024, time.December, 31), 2025, 6},
		{date(2025, time.January, 1), 2025, 7},
		{date(2024, time.June, 30), 2024, 12},
		{date(2023, time.July, 31), 2024, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.date.Format("2006-01-02"), func(t *testing.T) {
			year, period, err := fiscal.YearPeriod(tc.date, time.July)
			require.NoError(t, err)
			assert.Equal(t, tc.expectYear, year)
			assert.Equal(t, tc.expectPeriod, period)
		})
	}
}

func TestYearPeriod_JanuaryStartIsCalendar(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		year, period, err := fiscal.YearPeriod(date(2024, m, 10), time.January)
		require.NoError(t, err)
		assert.Equal(t, 2024, year)
		assert.Equal(t, int(m), period)
	}
}

// Every start month must produce a period 1 on the 1st of that month and
// cover all twelve periods exactly once over a fiscal year.
func TestYearPeriod_AllStartMonths(t *testing.T) {
	for start := time.January; start <= time.December; start++ {
		t.Run(fmt.Sprintf("start_%s", start), func(t *testing.T) {
			firstDay := date(2024, start, 1)
			year, period, err := fiscal.YearPeriod(firstDay, start)
			require.NoError(t, err)
			assert.Equal(t, 1, period)

			seen := make(map[int]bool)
			for offset := 0; offset < 12; offset++ {
				d := firstDay.AddDate(0, offset, 0)
				y, p, err := fiscal.YearPeriod(d, start)
				require.NoError(t, err)
				assert.Equal(t, year, y, "fiscal year must be stable across the year for %s", d)
				assert.Equal(t, offset+1, p)
				seen[p] = true
			}
			assert.Len(t, seen, 12)
		})
	}
}

func TestYearPeriod_InvalidStartMonth(t *testing.T) {
	_, _, err := fiscal.YearPeriod(date(2024, time.July, 1), 0)
	assert.Error(t, err)
	_, _, err = fiscal.YearPeriod(date(2024, time.July, 1), 13)
	assert.Error(t, err)
}

func TestPeriodStartEnd(t *testing.T) {
	start, err := fiscal.PeriodStart(2025, 1, time.July)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.July, 1), start)

	end, err := fiscal.PeriodEnd(2025, 6, time.July)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.December, 31), end)

	// Period 7 with a July start wraps into the next calendar year.
	start, err = fiscal.PeriodStart(2025, 7, time.July)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.January, 1), start)

	// Round trip: the start of every period maps back to that period.
	for p := 1; p <= 12; p++ {
		s, err := fiscal.PeriodStart(2025, p, time.July)
		require.NoError(t, err)
		y, got, err := fiscal.YearPeriod(s, time.July)
		require.NoError(t, err)
		assert.Equal(t, 2025, y)
		assert.Equal(t, p, got)
	}
}

func TestPeriodStart_OutOfRange(t *testing.T) {
	_, err := fiscal.PeriodStart(2025, 0, time.July)
	assert.Error(t, err)
	_, err = fiscal.PeriodStart(2025, 13, time.July)
	assert.Error(t, err)
}
