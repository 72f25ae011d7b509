package availability

import (
	"sort"
	"time"
)

// Interval is a half-open instant range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (iv Interval) Empty() bool {
	return !iv.End.After(iv.Start)
}

func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Intersect returns the overlap of a and b, if any.
func Intersect(a, b Interval) (Interval, bool) {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	out := Interval{Start: start, End: end}
	if out.Empty() {
		return Interval{}, false
	}
	return out, true
}

// Overlaps reports whether a and b share any instant.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Subtract returns the parts of a not covered by b: none if b covers a,
// two if b lies strictly inside a.
func Subtract(a, b Interval) []Interval {
	if a.Empty() {
		return nil
	}
	if !Overlaps(a, b) {
		return []Interval{a}
	}
	var out []Interval
	if a.Start.Before(b.Start) {
		out = append(out, Interval{Start: a.Start, End: b.Start})
	}
	if b.End.Before(a.End) {
		out = append(out, Interval{Start: b.End, End: a.End})
	}
	return out
}

// SubtractAll removes every busy interval from free. The result does not depend
// on the order of busy.
func SubtractAll(free, busy []Interval) []Interval {
	current := append([]Interval(nil), free...)
	for _, b := range busy {
		if len(current) == 0 {
			break
		}
		next := make([]Interval, 0, len(current)+1)
		for _, f := range current {
			next = append(next, Subtract(f, b)...)
		}
		current = next
	}
	return current
}

// Contains reports whether inner lies entirely within outer.
func Contains(outer, inner Interval) bool {
	return !inner.Start.Before(outer.Start) && !inner.End.After(outer.End)
}

// sortIntervals orders by start, then end.
func sortIntervals(ivs []Interval) {
	sort.Slice(ivs, func(i, j int) bool {
		if ivs[i].Start.Equal(ivs[j].Start) {
			return ivs[i].End.Before(ivs[j].End)
		}
		return ivs[i].Start.Before(ivs[j].Start)
	})
}
