package availability

import (
	"time"

	"handyhub/models"
)

// Quantize cuts each free interval into consecutive step-long slots starting at
// the interval's start. A tail shorter than step is dropped, so no slot crosses
// an interval boundary.
func Quantize(free []Interval, step time.Duration) []models.Slot {
	if step <= 0 {
		return []models.Slot{}
	}
	ordered := append([]Interval(nil), free...)
	sortIntervals(ordered)

	slots := []models.Slot{}
	var lastEnd time.Time
	for _, iv := range ordered {
		cursor := iv.Start
		// Profile windows may overlap; never emit a slot that starts before
		// the previous one ended.
		if cursor.Before(lastEnd) {
			cursor = lastEnd
		}
		for !cursor.Add(step).After(iv.End) {
			slots = append(slots, models.Slot{Start: cursor, End: cursor.Add(step)})
			cursor = cursor.Add(step)
			lastEnd = cursor
		}
	}
	return slots
}
