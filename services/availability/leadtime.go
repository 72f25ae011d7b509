package availability

import "time"

// LeadThreshold is the earliest instant a slot may start.
func LeadThreshold(now time.Time, leadMinutes int) time.Time {
	return now.UTC().Add(time.Duration(leadMinutes) * time.Minute)
}

// ApplyLeadTime drops intervals ending at or before threshold and clips the
// start of those straddling it.
func ApplyLeadTime(free []Interval, threshold time.Time) []Interval {
	out := make([]Interval, 0, len(free))
	for _, iv := range free {
		if !iv.End.After(threshold) {
			continue
		}
		if iv.Start.Before(threshold) {
			iv.Start = threshold
		}
		out = append(out, iv)
	}
	return out
}
