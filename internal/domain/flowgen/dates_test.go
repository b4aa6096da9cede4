package flowgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 2025-01-03 ")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDate("2025-01-03T23:30:00-05:00")
	require.NoError(t, err)
	require.Equal(t, "2025-01-03", FormatDate(got))

	_, err = ParseDate("")
	require.Error(t, err)
	_, err = ParseDate("03/01/2025")
	require.Error(t, err)
}

func TestDayCountIsInclusive(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.Equal(t, 1, DayCount(start, start))
	require.Equal(t, 3, DayCount(start, start.AddDate(0, 0, 2)))
	require.Equal(t, 366, DayCount(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))
}

func TestDayCountSpansFullCalendar(t *testing.T) {
	first, err := ParseDate("0001-01-01")
	require.NoError(t, err)
	last, err := ParseDate("9999-12-31")
	require.NoError(t, err)

	days := DayCount(first, last)
	require.Equal(t, 3652059, days)
	require.Equal(t, 16000, OutputBudget(days, 3500, 200, 16000))
	require.Equal(t, 109573, DayCount(time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2199, 12, 31, 0, 0, 0, 0, time.UTC)))
}
