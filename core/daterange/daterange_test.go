package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/gitreport/schema"
)

// Wednesday afternoon.
var fixedNow = time.Date(2024, time.March, 13, 15, 30, 45, 0, time.UTC)

func date(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name          string
		shortcut      schema.DateShortcut
		now           time.Time
		expectedStart time.Time
		expectedEnd   time.Time
	}{
		{
			name:          "today",
			shortcut:      schema.Today,
			now:           fixedNow,
			expectedStart: date(2024, time.March, 13, 0, 0, 0),
			expectedEnd:   fixedNow,
		},
		{
			name:          "yesterday ends one second before midnight",
			shortcut:      schema.Yesterday,
			now:           fixedNow,
			expectedStart: date(2024, time.March, 12, 0, 0, 0),
			expectedEnd:   date(2024, time.March, 12, 23, 59, 59),
		},
		{
			name:          "this week starts monday",
			shortcut:      schema.ThisWeek,
			now:           fixedNow,
			expectedStart: date(2024, time.March, 11, 0, 0, 0),
			expectedEnd:   fixedNow,
		},
		{
			name:          "this week on a sunday",
			shortcut:      schema.ThisWeek,
			now:           date(2024, time.March, 17, 8, 0, 0),
			expectedStart: date(2024, time.March, 11, 0, 0, 0),
			expectedEnd:   date(2024, time.March, 17, 8, 0, 0),
		},
		{
			name:          "this week on a monday",
			shortcut:      schema.ThisWeek,
			now:           date(2024, time.March, 11, 0, 0, 1),
			expectedStart: date(2024, time.March, 11, 0, 0, 0),
			expectedEnd:   date(2024, time.March, 11, 0, 0, 1),
		},
		{
			name:          "last week",
			shortcut:      schema.LastWeek,
			now:           fixedNow,
			expectedStart: date(2024, time.March, 4, 0, 0, 0),
			expectedEnd:   date(2024, time.March, 10, 23, 59, 59),
		},
		{
			name:          "this month",
			shortcut:      schema.ThisMonth,
			now:           fixedNow,
			expectedStart: date(2024, time.March, 1, 0, 0, 0),
			expectedEnd:   fixedNow,
		},
		{
			name:          "last month across leap february",
			shortcut:      schema.LastMonth,
			now:           fixedNow,
			expectedStart: date(2024, time.February, 1, 0, 0, 0),
			expectedEnd:   date(2024, time.February, 29, 23, 59, 59),
		},
		{
			name:          "last month across year boundary",
			shortcut:      schema.LastMonth,
			now:           date(2024, time.January, 5, 12, 0, 0),
			expectedStart: date(2023, time.December, 1, 0, 0, 0),
			expectedEnd:   date(2023, time.December, 31, 23, 59, 59),
		},
		{
			name:          "yesterday across month boundary",
			shortcut:      schema.Yesterday,
			now:           date(2024, time.March, 1, 9, 0, 0),
			expectedStart: date(2024, time.February, 29, 0, 0, 0),
			expectedEnd:   date(2024, time.February, 29, 23, 59, 59),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Resolve(tt.shortcut, tt.now)
			require.NotNil(t, r.Start)
			require.NotNil(t, r.End)
			assert.Equal(t, tt.expectedStart, *r.Start)
			assert.Equal(t, tt.expectedEnd, *r.End)
			assert.False(t, r.End.Before(*r.Start))
		})
	}
}

func TestResolveNonUTCNow(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	// 2024-03-14 02:00 in UTC+8 is still 2024-03-13 in UTC.
	now := time.Date(2024, time.March, 14, 2, 0, 0, 0, loc)
	r := Resolve(schema.Today, now)
	require.NotNil(t, r.Start)
	assert.Equal(t, date(2024, time.March, 13, 0, 0, 0), *r.Start)
	assert.Equal(t, time.UTC, r.End.Location())
}

func TestResolveUnknownShortcut(t *testing.T) {
	r := Resolve(schema.DateShortcut("fortnight"), fixedNow)
	assert.Nil(t, r.Start)
	assert.Nil(t, r.End)
	assert.True(t, r.IsEmpty())
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.January, 31, 0, 0, 0), d)

	end, err := ParseDayEnd("2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.January, 31, 23, 59, 59), end)

	for _, bad := range []string{"2024/01/31", "31-01-2024", "2024-13-01", "yesterday", ""} {
		_, err := ParseDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestLabel(t *testing.T) {
	start := date(2024, time.January, 1, 0, 0, 0)
	end := date(2024, time.January, 31, 23, 59, 59)

	assert.Equal(t, "2024-01-01 to 2024-01-31", Label(schema.DateRange{Start: &start, End: &end}))
	assert.Equal(t, "since 2024-01-01", Label(schema.DateRange{Start: &start}))
	assert.Equal(t, "until 2024-01-31", Label(schema.DateRange{End: &end}))
	assert.Equal(t, "last 7 days", Label(schema.DateRange{}))
}

func TestLast(t *testing.T) {
	r := Last(DefaultWindow, fixedNow)
	assert.Equal(t, fixedNow.Add(-7*24*time.Hour), *r.Start)
	assert.Equal(t, fixedNow, *r.End)
}
