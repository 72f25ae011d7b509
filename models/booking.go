package models

import "time"

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingDisputed   BookingStatus = "disputed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingInProgress,
		BookingCompleted, BookingCancelled, BookingDisputed:
		return true
	}
	return false
}

// BlockingStatuses are the statuses whose bookings consume provider availability.
var BlockingStatuses = []BookingStatus{BookingPending, BookingConfirmed}

// Schedule pins a booking in time. StartUTC/EndUTC are authoritative;
// Date/StartTime/EndTime are provider-local display mirrors.
type Schedule struct {
	Date      string    `bson:"date" json:"date"`           // "YYYY-MM-DD"
	StartTime string    `bson:"startTime" json:"startTime"` // "HH:MM"
	EndTime   string    `bson:"endTime" json:"endTime"`     // "HH:MM"
	Duration  int       `bson:"duration" json:"duration"`   // minutes
	StartUTC  time.Time `bson:"startUtc" json:"startUtc"`
	EndUTC    time.Time `bson:"endUtc" json:"endUtc"`
	Timezone  string    `bson:"timezone" json:"timezone"`
}

type Pricing struct {
	HourlyRate    float64 `bson:"hourlyRate" json:"hourlyRate"`
	Hours         float64 `bson:"hours" json:"hours"`
	SurchargeRate float64 `bson:"surchargeRate" json:"surchargeRate"`
	Total         float64 `bson:"total" json:"total"`
}

type Location struct {
	Address     string    `bson:"address" json:"address"`
	Coordinates []float64 `bson:"coordinates,omitempty" json:"coordinates,omitempty"` // [longitude, latitude]
}

type CancellationRequestStatus string

const (
	CancellationPending  CancellationRequestStatus = "pending"
	CancellationAccepted CancellationRequestStatus = "accepted"
	CancellationDeclined CancellationRequestStatus = "declined"
	CancellationExpired  CancellationRequestStatus = "expired"
)

// CancellationRequest asks the counterparty to agree to cancel a booking.
type CancellationRequest struct {
	ID              string                    `bson:"id" json:"id"`
	Status          CancellationRequestStatus `bson:"status" json:"status"`
	RequestedBy     string                    `bson:"requestedBy" json:"requestedBy"`
	RequestedByRole Role                      `bson:"requestedByRole" json:"requestedByRole"`
	RequestedTo     string                    `bson:"requestedTo" json:"requestedTo"`
	Reason          string                    `bson:"reason" json:"reason"`
	RequestedAt     time.Time                 `bson:"requestedAt" json:"requestedAt"`
	RespondedAt     *time.Time                `bson:"respondedAt,omitempty" json:"respondedAt,omitempty"`
	ExpiresAt       time.Time                 `bson:"expiresAt" json:"expiresAt"`
}

// StatusChange is one entry of a booking's audit trail.
type StatusChange struct {
	From   BookingStatus `bson:"from" json:"from"`
	To     BookingStatus `bson:"to" json:"to"`
	By     string        `bson:"by" json:"by"`
	Role   Role          `bson:"role" json:"role"`
	Reason string        `bson:"reason,omitempty" json:"reason,omitempty"`
	At     time.Time     `bson:"at" json:"at"`
}

// Booking is never deleted; terminal bookings are kept for audit.
type Booking struct {
	ID                   string                `bson:"id" json:"id"`
	ClientID             string                `bson:"clientId" json:"clientId"`
	ProviderID           string                `bson:"providerId" json:"providerId"`
	ServiceID            string                `bson:"serviceId" json:"serviceId"`
	OfferingID           string                `bson:"offeringId" json:"offeringId"`
	Schedule             Schedule              `bson:"schedule" json:"schedule"`
	Status               BookingStatus         `bson:"status" json:"status"`
	Emergency            bool                  `bson:"emergency" json:"emergency"`
	Pricing              Pricing               `bson:"pricing" json:"pricing"`
	Location             Location              `bson:"location" json:"location"`
	Notes                string                `bson:"notes,omitempty" json:"notes,omitempty"`
	CancellationRequests []CancellationRequest `bson:"cancellationRequests" json:"cancellationRequests"`
	StatusHistory        []StatusChange        `bson:"statusHistory" json:"statusHistory"`
	Version              int                   `bson:"version" json:"version"`
	CreatedAt            time.Time             `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time             `bson:"updatedAt" json:"updatedAt"`
}

// FindCancellationRequest returns a pointer into b.CancellationRequests, or nil.
func (b *Booking) FindCancellationRequest(id string) *CancellationRequest {
	for i := range b.CancellationRequests {
		if b.CancellationRequests[i].ID == id {
			return &b.CancellationRequests[i]
		}
	}
	return nil
}

// ScheduleInput is the client's requested time, in the provider's local time.
type ScheduleInput struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" validate:"required,clock"`
	Duration  int    `json:"duration" validate:"required,min=15,max=720"`
}

// BookingRequestInput is the payload of a booking request.
type BookingRequestInput struct {
	ServiceID string        `json:"serviceId" validate:"required"`
	Schedule  ScheduleInput `json:"schedule"`
	Location  Location      `json:"location"`
	Notes     string        `json:"notes" validate:"max=2000"`
	Emergency bool          `json:"emergency"`
}

// BookingFilter narrows a booking listing.
type BookingFilter struct {
	ClientID   string
	ProviderID string
	Status     BookingStatus
	Limit      int64
}

// CancellationRequestInput is the payload of a cancellation request.
type CancellationRequestInput struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// StatusUpdateInput is the payload of a status transition.
type StatusUpdateInput struct {
	Status BookingStatus `json:"status" validate:"required"`
	Reason string        `json:"reason" validate:"max=1000"`
}
