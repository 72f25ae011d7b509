package availability

import (
	"testing"
	"time"

	"handyhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := LoadZone(name)
	require.NoError(t, err)
	return loc
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, m)

	m, err = ParseClock("24:00")
	require.NoError(t, err)
	assert.Equal(t, 1440, m)

	for _, bad := range []string{"9:3", "25:00", "24:30", "noon", ""} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestToInstantUsesZoneRules(t *testing.T) {
	jerusalem := mustZone(t, "Asia/Jerusalem")

	// Winter time, UTC+2.
	got, err := ToInstant("2026-11-16", "10:00", jerusalem)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 11, 16, 8, 0, 0, 0, time.UTC), got)

	// Summer time, UTC+3.
	got, err = ToInstant("2026-07-13", "10:00", jerusalem)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 13, 7, 0, 0, 0, time.UTC), got)

	got, err = ToInstant("2026-11-16", "24:00", jerusalem)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 11, 16, 22, 0, 0, 0, time.UTC), got)
}

func TestDayBoundsAcrossDST(t *testing.T) {
	ny := mustZone(t, "America/New_York")

	spring, err := DayBounds("2026-03-08", ny)
	require.NoError(t, err)
	assert.Equal(t, 23*time.Hour, spring.Duration())

	fall, err := DayBounds("2026-11-01", ny)
	require.NoError(t, err)
	assert.Equal(t, 25*time.Hour, fall.Duration())

	normal, err := DayBounds("2026-11-02", ny)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, normal.Duration())
	assert.Equal(t, time.Date(2026, 11, 2, 5, 0, 0, 0, time.UTC), normal.Start)
}

func TestWindowsToIntervalsOnFallBackDay(t *testing.T) {
	ny := mustZone(t, "America/New_York")

	// 00:00-04:00 local spans the repeated 01:00 hour, so it lasts five hours.
	ivs, err := WindowsToIntervals("2026-11-01", []models.TimeWindow{{Start: "00:00", End: "04:00"}}, ny)
	require.NoError(t, err)
	require.Len(t, ivs, 1)
	assert.Equal(t, 5*time.Hour, ivs[0].Duration())
}

func TestWindowsToIntervalsSortsAndSkipsEmpty(t *testing.T) {
	ivs, err := WindowsToIntervals("2026-11-16", []models.TimeWindow{
		{Start: "14:00", End: "16:00"},
		{Start: "12:00", End: "12:00"},
		{Start: "09:00", End: "10:00"},
	}, time.UTC)
	require.NoError(t, err)
	require.Len(t, ivs, 2)
	assert.Equal(t, 9, ivs[0].Start.Hour())
	assert.Equal(t, 14, ivs[1].Start.Hour())
}

func TestDateRange(t *testing.T) {
	dates, err := DateRange("2026-02-27", "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-02-27", "2026-02-28", "2026-03-01", "2026-03-02"}, dates)

	_, err = DateRange("2026-03-02", "2026-03-01")
	assert.Error(t, err)
}

func TestDaysInRange(t *testing.T) {
	n, err := DaysInRange("2026-02-27", "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	// spring-forward day in New York still counts once
	n, err = DaysInRange("2026-03-07", "2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = DaysInRange("0001-01-01", "9999-12-31")
	require.NoError(t, err)
	assert.Greater(t, n, 100000)

	_, err = DaysInRange("2026-03-02", "2026-03-01")
	assert.Error(t, err)
}

func TestLocalMirrors(t *testing.T) {
	jerusalem := mustZone(t, "Asia/Jerusalem")
	at := time.Date(2026, 11, 16, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-11-17", LocalDate(at, jerusalem))
	assert.Equal(t, "00:30", LocalClock(at, jerusalem))
}

func TestLoadZoneRejectsUnknown(t *testing.T) {
	_, err := LoadZone("Mars/Olympus")
	assert.Error(t, err)
	_, err = LoadZone("")
	assert.Error(t, err)
}
