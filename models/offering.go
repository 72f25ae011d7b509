package models

import "time"

type OfferingStatus string

const (
	OfferingDraft    OfferingStatus = "draft"
	OfferingActive   OfferingStatus = "active"
	OfferingInactive OfferingStatus = "inactive"
	OfferingDeleted  OfferingStatus = "deleted"
)

// DeactivationBatch records one "offline for the rest of the month" action.
type DeactivationBatch struct {
	BatchID   string    `bson:"batchId" json:"batchId"`
	FromDate  string    `bson:"fromDate" json:"fromDate"` // provider-local "YYYY-MM-DD"
	ToDate    string    `bson:"toDate" json:"toDate"`     // last day of that month
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// ProviderServiceOffering is a provider's sellable instance of a catalog service.
type ProviderServiceOffering struct {
	ID                       string         `bson:"id" json:"id"`
	ProviderID               string         `bson:"providerId" json:"providerId"`
	ServiceID                string         `bson:"serviceId" json:"serviceId"`
	HourlyRate               float64        `bson:"hourlyRate" json:"hourlyRate"`
	ExperienceYears          int            `bson:"experienceYears" json:"experienceYears"`
	Status                   OfferingStatus `bson:"status" json:"status"`
	Publishable              bool           `bson:"publishable" json:"publishable"`
	EmergencyEnabled         bool           `bson:"emergencyEnabled" json:"emergencyEnabled"`
	EmergencyLeadTimeMinutes int            `bson:"emergencyLeadTimeMinutes" json:"emergencyLeadTimeMinutes"`

	// Per-service schedule overrides. Nil means "not overridden".
	WeeklyOverrides             *WeeklySchedule `bson:"weeklyOverrides,omitempty" json:"weeklyOverrides,omitempty"`
	ExceptionOverrides          []ExceptionDay  `bson:"exceptionOverrides,omitempty" json:"exceptionOverrides,omitempty"`
	EmergencyWeeklyOverrides    *WeeklySchedule `bson:"emergencyWeeklyOverrides,omitempty" json:"emergencyWeeklyOverrides,omitempty"`
	EmergencyExceptionOverrides []ExceptionDay  `bson:"emergencyExceptionOverrides,omitempty" json:"emergencyExceptionOverrides,omitempty"`

	DeactivationBatches []DeactivationBatch `bson:"deactivationBatches" json:"deactivationBatches"`
	CreatedAt           time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// IsPublishable is true iff the offering has a positive rate and non-negative experience.
func IsPublishable(hourlyRate float64, experienceYears int) bool {
	return hourlyRate > 0 && experienceYears >= 0
}

func (o *ProviderServiceOffering) RefreshPublishable() {
	o.Publishable = IsPublishable(o.HourlyRate, o.ExperienceYears)
}

// OfferingUpdateInput carries the provider-editable fields of an offering.
// Nil pointers leave the stored value untouched.
type OfferingUpdateInput struct {
	HourlyRate                  *float64        `json:"hourlyRate" validate:"omitempty,gte=0"`
	ExperienceYears             *int            `json:"experienceYears" validate:"omitempty,gte=0,lte=80"`
	EmergencyEnabled            *bool           `json:"emergencyEnabled"`
	EmergencyLeadTimeMinutes    *int            `json:"emergencyLeadTimeMinutes" validate:"omitempty,gte=0,lte=10080"`
	WeeklyOverrides             *WeeklySchedule `json:"weeklyOverrides"`
	ExceptionOverrides          *[]ExceptionDay `json:"exceptionOverrides"`
	EmergencyWeeklyOverrides    *WeeklySchedule `json:"emergencyWeeklyOverrides"`
	EmergencyExceptionOverrides *[]ExceptionDay `json:"emergencyExceptionOverrides"`
}
