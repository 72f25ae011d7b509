package availability

import (
	"fmt"

	"handyhub/models"
)

// ValidateWindows checks that every window parses and has start < end.
func ValidateWindows(windows []models.TimeWindow) error {
	for i, w := range windows {
		start, err := ParseClock(w.Start)
		if err != nil {
			return fmt.Errorf("window %d: %w", i, err)
		}
		end, err := ParseClock(w.End)
		if err != nil {
			return fmt.Errorf("window %d: %w", i, err)
		}
		if start == 24*60 {
			return fmt.Errorf("window %d: start cannot be 24:00", i)
		}
		if end <= start {
			return fmt.Errorf("window %d: end %s must be after start %s", i, w.End, w.Start)
		}
	}
	return nil
}

// ValidateWeekly checks every weekday's windows.
func ValidateWeekly(weekly models.WeeklySchedule) error {
	for day, windows := range weekly.All() {
		if err := ValidateWindows(windows); err != nil {
			return fmt.Errorf("%s: %w", day, err)
		}
	}
	return nil
}

// ValidateExceptions checks dates, windows, and that no date repeats.
func ValidateExceptions(exceptions []models.ExceptionDay) error {
	seen := make(map[string]struct{}, len(exceptions))
	for _, ex := range exceptions {
		if _, err := ParseDate(ex.Date); err != nil {
			return err
		}
		if _, dup := seen[ex.Date]; dup {
			return fmt.Errorf("exception date %s appears more than once", ex.Date)
		}
		seen[ex.Date] = struct{}{}
		if err := ValidateWindows(ex.Windows); err != nil {
			return fmt.Errorf("exception %s: %w", ex.Date, err)
		}
	}
	return nil
}
