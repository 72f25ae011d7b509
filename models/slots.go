package models

import "time"

// Slot is a fixed-duration bookable interval.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DaySlots lists the slots of one provider-local calendar date.
type DaySlots struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

// AvailabilityResult is the response of a resolve call. Every requested date
// is present, even when it has no slots.
type AvailabilityResult struct {
	Timezone string     `json:"timezone"`
	Step     int        `json:"step"`
	Days     []DaySlots `json:"days"`
}

// ResolveQuery identifies what to resolve.
type ResolveQuery struct {
	ProviderID string
	From       string // "YYYY-MM-DD", provider-local
	To         string // inclusive
	Step       int    // minutes
	Emergency  bool
	ServiceID  string // optional
}
