package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimeWindow is a local wall-clock range on one day, "HH:MM" 24h. End may be
// "24:00" for a window that runs to midnight.
type TimeWindow struct {
	Start string `bson:"start" json:"start" validate:"required,clock"`
	End   string `bson:"end" json:"end" validate:"required,clock"`
}

// WeeklySchedule holds the recurring windows for each weekday. A nil day means
// "not defined at this layer"; an empty non-nil day means "closed".
type WeeklySchedule struct {
	Monday    []TimeWindow `bson:"monday" json:"monday" validate:"omitempty,dive"`
	Tuesday   []TimeWindow `bson:"tuesday" json:"tuesday" validate:"omitempty,dive"`
	Wednesday []TimeWindow `bson:"wednesday" json:"wednesday" validate:"omitempty,dive"`
	Thursday  []TimeWindow `bson:"thursday" json:"thursday" validate:"omitempty,dive"`
	Friday    []TimeWindow `bson:"friday" json:"friday" validate:"omitempty,dive"`
	Saturday  []TimeWindow `bson:"saturday" json:"saturday" validate:"omitempty,dive"`
	Sunday    []TimeWindow `bson:"sunday" json:"sunday" validate:"omitempty,dive"`
}

// Day returns the windows for a weekday, and whether the day is defined.
func (w WeeklySchedule) Day(day time.Weekday) ([]TimeWindow, bool) {
	var windows []TimeWindow
	switch day {
	case time.Monday:
		windows = w.Monday
	case time.Tuesday:
		windows = w.Tuesday
	case time.Wednesday:
		windows = w.Wednesday
	case time.Thursday:
		windows = w.Thursday
	case time.Friday:
		windows = w.Friday
	case time.Saturday:
		windows = w.Saturday
	case time.Sunday:
		windows = w.Sunday
	}
	return windows, windows != nil
}

// Set assigns the windows for a weekday.
func (w *WeeklySchedule) Set(day time.Weekday, windows []TimeWindow) {
	switch day {
	case time.Monday:
		w.Monday = windows
	case time.Tuesday:
		w.Tuesday = windows
	case time.Wednesday:
		w.Wednesday = windows
	case time.Thursday:
		w.Thursday = windows
	case time.Friday:
		w.Friday = windows
	case time.Saturday:
		w.Saturday = windows
	case time.Sunday:
		w.Sunday = windows
	}
}

// All returns every weekday with its windows, Monday first.
func (w WeeklySchedule) All() map[time.Weekday][]TimeWindow {
	out := make(map[time.Weekday][]TimeWindow, 7)
	for _, day := range weekOrder {
		windows, _ := w.Day(day)
		out[day] = windows
	}
	return out
}

var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// ParseWeekday maps "monday".."sunday" (any case) to time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	for _, day := range weekOrder {
		if strings.EqualFold(day.String(), name) {
			return day, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// UnmarshalJSON rejects keys that are not weekday names.
func (w *WeeklySchedule) UnmarshalJSON(data []byte) error {
	var raw map[string][]TimeWindow
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out WeeklySchedule
	for key, windows := range raw {
		day, err := ParseWeekday(key)
		if err != nil {
			return err
		}
		if windows == nil {
			windows = []TimeWindow{}
		}
		out.Set(day, windows)
	}
	*w = out
	return nil
}

// ExceptionDay replaces a single calendar date's windows. An empty list means closed.
type ExceptionDay struct {
	Date    string       `bson:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Windows []TimeWindow `bson:"windows" json:"windows" validate:"dive"`
}

// FindException returns the exception for date, if present.
func FindException(exceptions []ExceptionDay, date string) ([]TimeWindow, bool) {
	for _, ex := range exceptions {
		if ex.Date == date {
			if ex.Windows == nil {
				return []TimeWindow{}, true
			}
			return ex.Windows, true
		}
	}
	return nil, false
}

// AvailabilityProfile is a provider's base recurring + exception schedule.
type AvailabilityProfile struct {
	ProviderID string         `bson:"providerId" json:"providerId"`
	Timezone   string         `bson:"timezone" json:"timezone"`
	Weekly     WeeklySchedule `bson:"weekly" json:"weekly"`
	Exceptions []ExceptionDay `bson:"exceptions" json:"exceptions"`
	CreatedAt  time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// AvailabilityInput is the full-replace payload for a provider's profile.
type AvailabilityInput struct {
	Timezone   string         `json:"timezone" validate:"required,timezone"`
	Weekly     WeeklySchedule `json:"weekly"`
	Exceptions []ExceptionDay `json:"exceptions" validate:"omitempty,dive"`
}
