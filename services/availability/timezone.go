package availability

import (
	"fmt"
	"time"

	"handyhub/models"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// LoadZone resolves an IANA zone name.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("timezone is required")
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

// ParseDate parses a "YYYY-MM-DD" calendar date. The result is midnight UTC and
// only its Y/M/D fields are meaningful.
func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return d, nil
}

// ParseClock parses "HH:MM" into minutes after midnight. "24:00" is accepted as
// the end of the day.
func ParseClock(clock string) (int, error) {
	if clock == "24:00" {
		return 24 * 60, nil
	}
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", clock)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ToInstant converts a provider-local date and wall-clock time into an absolute
// instant using the zone database, so DST gaps and overlaps follow time.Date's
// normalization rather than a fixed UTC offset.
func ToInstant(date, clock string, loc *time.Location) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	if minutes == 24*60 {
		return time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, loc).UTC(), nil
	}
	return time.Date(d.Year(), d.Month(), d.Day(), minutes/60, minutes%60, 0, 0, loc).UTC(), nil
}

// DayBounds returns [start of date, start of next date) in loc. The interval is
// 23 or 25 hours long on DST transition days.
func DayBounds(date string, loc *time.Location) (Interval, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Interval{}, err
	}
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	end := time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, loc)
	return Interval{Start: start.UTC(), End: end.UTC()}, nil
}

// LocalDate renders an instant as a calendar date in loc.
func LocalDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// LocalClock renders an instant as "HH:MM" in loc.
func LocalClock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(ClockLayout)
}

// DateRange lists every date from..to inclusive.
func DateRange(from, to string) ([]string, error) {
	start, err := ParseDate(from)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(to)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("range end %s is before start %s", to, from)
	}
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates, nil
}

// DaysInRange counts the dates in [from, to] without listing them. Spans longer
// than time.Duration can hold saturate at roughly 106751 days.
func DaysInRange(from, to string) (int, error) {
	start, err := ParseDate(from)
	if err != nil {
		return 0, err
	}
	end, err := ParseDate(to)
	if err != nil {
		return 0, err
	}
	if end.Before(start) {
		return 0, fmt.Errorf("range end %s is before start %s", to, from)
	}
	return int(end.Sub(start)/(24*time.Hour)) + 1, nil
}

// Weekday returns the weekday of a calendar date.
func Weekday(date string) (time.Weekday, error) {
	d, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return d.Weekday(), nil
}

// WindowsToIntervals converts local windows on date into instant intervals.
// Windows with end <= start are ignored.
func WindowsToIntervals(date string, windows []models.TimeWindow, loc *time.Location) ([]Interval, error) {
	out := make([]Interval, 0, len(windows))
	for _, w := range windows {
		start, err := ToInstant(date, w.Start, loc)
		if err != nil {
			return nil, err
		}
		end, err := ToInstant(date, w.End, loc)
		if err != nil {
			return nil, err
		}
		iv := Interval{Start: start, End: end}
		if iv.Empty() {
			continue
		}
		out = append(out, iv)
	}
	sortIntervals(out)
	return out, nil
}
