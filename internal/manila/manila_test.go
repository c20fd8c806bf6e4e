package manila

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateCrossesMidnightBoundary(t *testing.T) {
	// 17:30 UTC is already the next day in Manila (+08:00).
	utc := time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-11", Date(utc))

	utc = time.Date(2025, 3, 10, 15, 59, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-10", Date(utc))
}

func TestDayRange(t *testing.T) {
	at := time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC)
	start, end := DayRange(at)

	assert.Equal(t, "2025-03-11T00:00:00+08:00", start.Format(time.RFC3339))
	assert.Equal(t, "2025-03-11", Date(end))
	assert.True(t, end.After(start))
}

func TestMonthRange(t *testing.T) {
	at := time.Date(2025, 2, 14, 4, 0, 0, 0, time.UTC)
	start, end := MonthRange(at)

	assert.Equal(t, "2025-02-01", Date(start))
	assert.Equal(t, "2025-02-28", Date(end))
}

func TestParseTimestampShapes(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"2025-03-10T09:15:00Z", "2025-03-10"},
		{"2025-03-10T23:15:00+08:00", "2025-03-10"},
		{"2025-03-10 09:15:00", "2025-03-10"},
		{"2025-03-10", "2025-03-10"},
	}
	for _, tc := range cases {
		ts, err := ParseTimestamp(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, Date(ts), tc.raw)
	}

	_, err := ParseTimestamp("not-a-date")
	assert.Error(t, err)
	_, err = ParseTimestamp("")
	assert.Error(t, err)
}

func TestCombineDateTime(t *testing.T) {
	ts, err := CombineDateTime("2025-03-10", "08:50")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10T08:50:00+08:00", ts.Format(time.RFC3339))

	ts, err = CombineDateTime("2025-03-10", "17:00:30")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10T17:00:30+08:00", ts.Format(time.RFC3339))

	// A complete timestamp keeps its own date and offset.
	ts, err = CombineDateTime("2025-03-10", "2025-03-09T22:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", Date(ts))

	_, err = CombineDateTime("2025-03-10", "25:99")
	assert.Error(t, err)
}
