package booking

import (
	"context"
	"errors"
	"time"

	"handyhub/database"
	"handyhub/models"
	"handyhub/services/availability"
	"handyhub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const durationGranularity = 5

func (s *DefaultBookingService) load(ctx context.Context, bookingID string) (*models.Booking, error) {
	if bookingID == "" {
		return nil, utils.NewValidationError("invalid_booking", "booking id is required")
	}
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NewNotFoundError("booking_not_found", "booking %s not found", bookingID)
		}
		return nil, utils.WrapInternal(err, "failed to load booking")
	}
	return b, nil
}

// save persists b with a version check.
func (s *DefaultBookingService) save(ctx context.Context, b *models.Booking) error {
	if err := s.Bookings.UpdateIfVersion(ctx, b); err != nil {
		if errors.Is(err, database.ErrVersionConflict) {
			return utils.NewConflictError("concurrent_update", "the booking was changed by someone else, reload it and try again")
		}
		return utils.WrapInternal(err, "failed to update booking")
	}
	return nil
}

// CreateBooking books a window for the calling client. The window must lie in
// the provider's free time, and the overlap check is repeated at write time
// under a per-provider lock.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, actor models.Actor, input models.BookingRequestInput) (*models.Booking, error) {
	if actor.Role != models.RoleClient {
		return nil, utils.NewForbiddenError("clients_only", "only clients can request bookings")
	}
	if err := s.validator().Struct(input); err != nil {
		return nil, utils.NewValidationError("invalid_booking_request", "%s", utils.ValidationMessage(err))
	}
	sched := input.Schedule
	if sched.Duration%durationGranularity != 0 {
		return nil, utils.NewValidationError("invalid_duration", "duration must be a multiple of %d minutes", durationGranularity)
	}
	if sched.StartTime == "24:00" {
		return nil, utils.NewValidationError("invalid_start_time", "startTime must be before 24:00")
	}

	svc, err := s.Catalog.GetByID(ctx, input.ServiceID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NewValidationError("unknown_service", "service %s does not exist", input.ServiceID)
		}
		return nil, utils.WrapInternal(err, "failed to load service")
	}
	if !svc.IsActive {
		return nil, utils.NewConflictError("service_inactive", "service %s is not currently offered", svc.ID)
	}
	providerID := svc.ProviderID
	if providerID == actor.ID {
		return nil, utils.NewValidationError("self_booking", "you cannot book your own service")
	}

	offering, err := s.Offerings.GetByProviderAndService(ctx, providerID, svc.ID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NewNotFoundError("offering_not_found", "provider %s has no offering for service %s", providerID, svc.ID)
		}
		return nil, utils.WrapInternal(err, "failed to load offering")
	}
	if offering.Status != models.OfferingActive {
		return nil, utils.NewConflictError("offering_inactive", "this service is %s and cannot be booked", offering.Status)
	}
	if !offering.Publishable {
		return nil, utils.NewConflictError("offering_unpublishable", "this service has no valid rate yet and cannot be booked")
	}
	if input.Emergency && !offering.EmergencyEnabled {
		return nil, utils.NewValidationError("emergency_disabled", "emergency bookings are not enabled for this service")
	}

	day, err := s.Availability.FreeIntervals(ctx, providerID, svc.ID, sched.Date, input.Emergency)
	if err != nil {
		return nil, err
	}
	if day.Reason != "" {
		return nil, utils.NewConflictError("not_bookable", "provider is not bookable: %s", day.Reason)
	}

	start, err := availability.ToInstant(sched.Date, sched.StartTime, day.Location)
	if err != nil {
		return nil, utils.NewValidationError("invalid_schedule", "%v", err)
	}
	requested := availability.Interval{Start: start, End: start.Add(time.Duration(sched.Duration) * time.Minute)}
	if !fitsFreeTime(day.Free, requested) {
		return nil, utils.NewConflictError("slot_unavailable", "the provider is not available from %s for %d minutes on %s",
			sched.StartTime, sched.Duration, sched.Date)
	}

	surcharge := 0.0
	if input.Emergency {
		surcharge = s.Settings.EmergencySurchargeRate
	}
	now := s.now()
	b := &models.Booking{
		ID:         uuid.New().String(),
		ClientID:   actor.ID,
		ProviderID: providerID,
		ServiceID:  svc.ID,
		OfferingID: offering.ID,
		Schedule: models.Schedule{
			Date:      availability.LocalDate(requested.Start, day.Location),
			StartTime: availability.LocalClock(requested.Start, day.Location),
			EndTime:   availability.LocalClock(requested.End, day.Location),
			Duration:  sched.Duration,
			StartUTC:  requested.Start,
			EndUTC:    requested.End,
			Timezone:  day.Timezone,
		},
		Status:               models.BookingPending,
		Emergency:            input.Emergency,
		Pricing:              CalculatePricing(offering.HourlyRate, sched.Duration, surcharge),
		Location:             input.Location,
		Notes:                input.Notes,
		CancellationRequests: []models.CancellationRequest{},
		StatusHistory: []models.StatusChange{{
			To:   models.BookingPending,
			By:   actor.ID,
			Role: actor.Role,
			At:   now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.insertExclusive(ctx, b); err != nil {
		return nil, err
	}

	s.logger().Info("booking created",
		zap.String("bookingID", b.ID),
		zap.String("clientID", b.ClientID),
		zap.String("providerID", b.ProviderID),
		zap.String("serviceID", b.ServiceID),
		zap.Time("startUtc", b.Schedule.StartUTC),
		zap.Int("duration", b.Schedule.Duration),
		zap.Bool("emergency", b.Emergency))
	return b, nil
}

func fitsFreeTime(free []availability.Interval, requested availability.Interval) bool {
	for _, iv := range free {
		if availability.Contains(iv, requested) {
			return true
		}
	}
	return false
}

// insertExclusive hands the booking to the store, whose transactional overlap
// re-check is what keeps a provider from being double-booked. The optional
// Redis lock only turns contention into a quick provider_busy.
func (s *DefaultBookingService) insertExclusive(ctx context.Context, b *models.Booking) error {
	if s.Locker != nil {
		release, err := s.Locker.Acquire(ctx, "booking:provider:"+b.ProviderID, s.Settings.LockTTL)
		if err != nil {
			if errors.Is(err, utils.ErrLockHeld) {
				return utils.NewConflictError("provider_busy", "another booking for this provider is being processed, please retry")
			}
			return utils.WrapInternal(err, "failed to lock provider schedule")
		}
		defer release()
	}

	if err := s.Bookings.CreateIfNoOverlap(ctx, b); err != nil {
		if errors.Is(err, database.ErrOverlap) {
			return utils.NewConflictError("booking_overlap", "the requested time was just booked by someone else")
		}
		return utils.WrapInternal(err, "failed to create booking")
	}
	return nil
}

func isParticipant(b *models.Booking, actor models.Actor) bool {
	return actor.IsAdmin() || actor.ID == b.ClientID || actor.ID == b.ProviderID
}

// GetBooking returns a booking to one of its participants or an admin.
// Overdue pending cancellation requests are reported as expired.
func (s *DefaultBookingService) GetBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(b, actor) {
		return nil, utils.NewForbiddenError("not_participant", "you are not a participant of this booking")
	}
	expireDue(b, s.now())
	return b, nil
}

// ListBookings lists the caller's bookings. Admins may filter freely.
func (s *DefaultBookingService) ListBookings(ctx context.Context, actor models.Actor, filter models.BookingFilter) ([]models.Booking, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, utils.NewValidationError("invalid_status", "unknown booking status %q", filter.Status)
	}
	switch actor.Role {
	case models.RoleClient:
		filter.ClientID, filter.ProviderID = actor.ID, ""
	case models.RoleProvider:
		filter.ProviderID, filter.ClientID = actor.ID, ""
	case models.RoleAdmin:
	default:
		return nil, utils.NewForbiddenError("unknown_role", "role %q cannot list bookings", actor.Role)
	}

	bookings, err := s.Bookings.List(ctx, filter)
	if err != nil {
		return nil, utils.WrapInternal(err, "failed to list bookings")
	}
	now := s.now()
	for i := range bookings {
		expireDue(&bookings[i], now)
	}
	return bookings, nil
}
