package availability

import "handyhub/models"

// consumesAvailability is true for the statuses that reserve provider time.
// in_progress is left out: such a booking already sits inside its own window.
func consumesAvailability(status models.BookingStatus) bool {
	for _, s := range models.BlockingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// BusyIntervals converts bookings into busy intervals, skipping statuses that
// do not consume availability.
func BusyIntervals(bookings []models.Booking) []Interval {
	busy := make([]Interval, 0, len(bookings))
	for _, b := range bookings {
		if !consumesAvailability(b.Status) {
			continue
		}
		iv := Interval{Start: b.Schedule.StartUTC, End: b.Schedule.EndUTC}
		if iv.Empty() {
			continue
		}
		busy = append(busy, iv)
	}
	return busy
}

// RemoveBusy subtracts only the busy intervals that touch day, which keeps
// multi-day resolves from re-walking every booking on every date.
func RemoveBusy(free []Interval, busy []Interval, day Interval) []Interval {
	relevant := make([]Interval, 0, len(busy))
	for _, b := range busy {
		if Overlaps(b, day) {
			relevant = append(relevant, b)
		}
	}
	return SubtractAll(free, relevant)
}
