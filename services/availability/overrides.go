package availability

import (
	"time"

	"handyhub/models"
)

// WindowSource is one layer of the override chain. It answers whether it
// defines a date; the first layer that does wins outright.
type WindowSource interface {
	Name() string
	Windows(date string, weekday time.Weekday) ([]models.TimeWindow, bool)
}

type exceptionSource struct {
	name       string
	exceptions []models.ExceptionDay
}

func (s exceptionSource) Name() string { return s.name }

func (s exceptionSource) Windows(date string, _ time.Weekday) ([]models.TimeWindow, bool) {
	return models.FindException(s.exceptions, date)
}

type weeklySource struct {
	name   string
	weekly *models.WeeklySchedule
}

func (s weeklySource) Name() string { return s.name }

func (s weeklySource) Windows(_ string, weekday time.Weekday) ([]models.TimeWindow, bool) {
	if s.weekly == nil {
		return nil, false
	}
	return s.weekly.Day(weekday)
}

// profileWeeklySource is the chain's terminal layer: it always answers, with an
// empty list for days the provider never set.
type profileWeeklySource struct {
	weekly models.WeeklySchedule
}

func (profileWeeklySource) Name() string { return "profile.weekly" }

func (s profileWeeklySource) Windows(_ string, weekday time.Weekday) ([]models.TimeWindow, bool) {
	windows, _ := s.weekly.Day(weekday)
	if windows == nil {
		windows = []models.TimeWindow{}
	}
	return windows, true
}

// BuildChain assembles the override layers in priority order. offering may be nil.
func BuildChain(profile *models.AvailabilityProfile, offering *models.ProviderServiceOffering, emergency bool) []WindowSource {
	var chain []WindowSource
	if offering != nil {
		if emergency {
			chain = append(chain,
				exceptionSource{name: "offering.emergencyException", exceptions: offering.EmergencyExceptionOverrides},
				weeklySource{name: "offering.emergencyWeekly", weekly: offering.EmergencyWeeklyOverrides},
			)
		}
		chain = append(chain,
			exceptionSource{name: "offering.exception", exceptions: offering.ExceptionOverrides},
			weeklySource{name: "offering.weekly", weekly: offering.WeeklyOverrides},
		)
	}
	chain = append(chain,
		exceptionSource{name: "profile.exception", exceptions: profile.Exceptions},
		profileWeeklySource{weekly: profile.Weekly},
	)
	return chain
}

// ResolveWindows walks the chain and returns the first defined window list
// together with the name of the layer that supplied it.
func ResolveWindows(chain []WindowSource, date string) ([]models.TimeWindow, string, error) {
	weekday, err := Weekday(date)
	if err != nil {
		return nil, "", err
	}
	for _, src := range chain {
		if windows, ok := src.Windows(date, weekday); ok {
			return windows, src.Name(), nil
		}
	}
	return []models.TimeWindow{}, "", nil
}
