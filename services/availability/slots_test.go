package availability

import (
	"testing"
	"time"

	"handyhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantizeDropsShortTail(t *testing.T) {
	slots := Quantize([]Interval{iv(0, 100)}, 30*time.Minute)
	require.Len(t, slots, 3)
	assert.Equal(t, base, slots[0].Start)
	assert.Equal(t, base.Add(90*time.Minute), slots[2].End)
}

func TestQuantizeNeverOverlaps(t *testing.T) {
	// Overlapping windows must not produce overlapping slots.
	slots := Quantize([]Interval{iv(0, 120), iv(30, 180)}, 30*time.Minute)
	for i := 1; i < len(slots); i++ {
		assert.False(t, slots[i].Start.Before(slots[i-1].End), "slot %d overlaps its predecessor", i)
	}
	assert.Len(t, slots, 6)
}

func TestQuantizeEmpty(t *testing.T) {
	assert.Equal(t, []models.Slot{}, Quantize(nil, 30*time.Minute))
	assert.Equal(t, []models.Slot{}, Quantize([]Interval{iv(0, 60)}, 0))
}

func TestApplyLeadTime(t *testing.T) {
	threshold := base.Add(90 * time.Minute)
	free := []Interval{iv(0, 60), iv(60, 90), iv(60, 180), iv(200, 260)}

	got := ApplyLeadTime(free, threshold)
	assert.Equal(t, []Interval{iv(90, 180), iv(200, 260)}, got)
}

func TestLeadThreshold(t *testing.T) {
	now := time.Date(2026, 11, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	got := LeadThreshold(now, 120)
	assert.Equal(t, time.Date(2026, 11, 1, 13, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestBusyIntervalsSkipsNonBlocking(t *testing.T) {
	mk := func(status models.BookingStatus, from, to int) models.Booking {
		r := iv(from, to)
		return models.Booking{Status: status, Schedule: models.Schedule{StartUTC: r.Start, EndUTC: r.End}}
	}
	busy := BusyIntervals([]models.Booking{
		mk(models.BookingPending, 0, 30),
		mk(models.BookingConfirmed, 60, 90),
		mk(models.BookingCancelled, 120, 150),
		mk(models.BookingCompleted, 180, 210),
		mk(models.BookingInProgress, 240, 270),
	})
	assert.Equal(t, []Interval{iv(0, 30), iv(60, 90)}, busy)
}

func TestRemoveBusyIgnoresOtherDays(t *testing.T) {
	day := iv(0, 24*60)
	free := []Interval{iv(60, 120)}
	busy := []Interval{iv(-30, 0), iv(90, 100), iv(24*60, 25*60)}
	assert.Equal(t, []Interval{iv(60, 90), iv(100, 120)}, RemoveBusy(free, busy, day))
}
