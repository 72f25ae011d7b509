package offering

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

// SyncOfferings creates a draft offering for every catalog service of the
// provider that does not have one yet.
func (s *DefaultOfferingService) SyncOfferings(ctx context.Context, providerID string) (int, error) {
	if providerID == "" {
		return 0, utils.NewValidationError("invalid_provider", "providerId is required")
	}
	services, err := s.Catalog.ListByProvider(ctx, providerID)
	if err != nil {
		return 0, utils.WrapInternal(err, "failed to list provider services")
	}

	created := 0
	now := s.now()
	for _, svc := range services {
		o := &models.ProviderServiceOffering{
			ID:                       uuid.New().String(),
			ProviderID:               providerID,
			ServiceID:                svc.ID,
			HourlyRate:               svc.Price,
			Status:                   models.OfferingDraft,
			EmergencyLeadTimeMinutes: s.DefaultEmergencyLeadMinutes,
			DeactivationBatches:      []models.DeactivationBatch{},
			CreatedAt:                now,
			UpdatedAt:                now,
		}
		o.RefreshPublishable()
		ok, err := s.Offerings.EnsureExists(ctx, o)
		if err != nil {
			return created, utils.WrapInternal(err, "failed to sync offerings")
		}
		if ok {
			created++
		}
	}
	if created > 0 {
		s.logger().Info("offerings synced",
			zap.String("providerID", providerID),
			zap.Int("created", created))
	}
	return created, nil
}

// ListOfferings syncs and then returns the provider's non-deleted offerings.
func (s *DefaultOfferingService) ListOfferings(ctx context.Context, providerID string) ([]models.ProviderServiceOffering, error) {
	if _, err := s.SyncOfferings(ctx, providerID); err != nil {
		return nil, err
	}
	offerings, err := s.Offerings.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, utils.WrapInternal(err, "failed to list offerings")
	}
	return offerings, nil
}

// loadOwned fetches an offering the actor may manage.
func (s *DefaultOfferingService) loadOwned(ctx context.Context, actor models.Actor, offeringID string) (*models.ProviderServiceOffering, error) {
	if offeringID == "" {
		return nil, utils.NewValidationError("invalid_offering", "offering id is required")
	}
	o, err := s.Offerings.GetByID(ctx, offeringID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NewNotFoundError("offering_not_found", "offering %s not found", offeringID)
		}
		return nil, utils.WrapInternal(err, "failed to load offering")
	}
	if !actor.CanManageProvider(o.ProviderID) {
		return nil, utils.NewForbiddenError("not_owner", "only the provider or an admin can change this offering")
	}
	if o.Status == models.OfferingDeleted {
		return nil, utils.NewConflictError("offering_deleted", "offering %s has been deleted", offeringID)
	}
	return o, nil
}

func (s *DefaultOfferingService) persist(ctx context.Context, o *models.ProviderServiceOffering, action string, actor models.Actor) (*models.ProviderServiceOffering, error) {
	o.UpdatedAt = s.now()
	if err := s.Offerings.Replace(ctx, o); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NewNotFoundError("offering_not_found", "offering %s not found", o.ID)
		}
		return nil, utils.WrapInternal(err, "failed to save offering")
	}
	s.logger().Info("offering "+action,
		zap.String("offeringID", o.ID),
		zap.String("providerID", o.ProviderID),
		zap.String("status", string(o.Status)),
		zap.String("actorID", actor.ID))
	return o, nil
}

// UpdateOffering applies the non-nil fields of input and recomputes publishable.
// An active offering that stops being publishable falls back to draft.
func (s *DefaultOfferingService) UpdateOffering(ctx context.Context, actor models.Actor, offeringID string, input models.OfferingUpdateInput) (*models.ProviderServiceOffering, error) {
	if err := s.validator().Struct(input); err != nil {
		return nil, utils.NewValidationError("invalid_offering", "%s", utils.ValidationMessage(err))
	}
	if err := validateOverrides(input); err != nil {
		return nil, err
	}
	o, err := s.loadOwned(ctx, actor, offeringID)
	if err != nil {
		return nil, err
	}

	if input.HourlyRate != nil {
		o.HourlyRate = *input.HourlyRate
	}
	if input.ExperienceYears != nil {
		o.ExperienceYears = *input.ExperienceYears
	}
	if input.EmergencyEnabled != nil {
		o.EmergencyEnabled = *input.EmergencyEnabled
	}
	if input.EmergencyLeadTimeMinutes != nil {
		o.EmergencyLeadTimeMinutes = *input.EmergencyLeadTimeMinutes
	}
	if input.WeeklyOverrides != nil {
		o.WeeklyOverrides = input.WeeklyOverrides
	}
	if input.ExceptionOverrides != nil {
		o.ExceptionOverrides = *input.ExceptionOverrides
	}
	if input.EmergencyWeeklyOverrides != nil {
		o.EmergencyWeeklyOverrides = input.EmergencyWeeklyOverrides
	}
	if input.EmergencyExceptionOverrides != nil {
		o.EmergencyExceptionOverrides = *input.EmergencyExceptionOverrides
	}
	o.RefreshPublishable()
	if o.Status == models.OfferingActive && !o.Publishable {
		o.Status = models.OfferingDraft
	}
	return s.persist(ctx, o, "updated", actor)
}

func validateOverrides(input models.OfferingUpdateInput) error {
	for name, weekly := range map[string]*models.WeeklySchedule{
		"weeklyOverrides":          input.WeeklyOverrides,
		"emergencyWeeklyOverrides": input.EmergencyWeeklyOverrides,
	} {
		if weekly == nil {
			continue
		}
		if err := availability.ValidateWeekly(*weekly); err != nil {
			return utils.NewValidationError("invalid_overrides", "%s: %v", name, err)
		}
	}
	for name, exceptions := range map[string]*[]models.ExceptionDay{
		"exceptionOverrides":          input.ExceptionOverrides,
		"emergencyExceptionOverrides": input.EmergencyExceptionOverrides,
	} {
		if exceptions == nil {
			continue
		}
		if err := availability.ValidateExceptions(*exceptions); err != nil {
			return utils.NewValidationError("invalid_overrides", "%s: %v", name, err)
		}
	}
	return nil
}

// PublishOffering makes a draft or inactive offering bookable.
func (s *DefaultOfferingService) PublishOffering(ctx context.Context, actor models.Actor, offeringID string) (*models.ProviderServiceOffering, error) {
	o, err := s.loadOwned(ctx, actor, offeringID)
	if err != nil {
		return nil, err
	}
	if o.Status == models.OfferingActive {
		return nil, utils.NewConflictError("offering_active", "offering is already active")
	}
	o.RefreshPublishable()
	if !o.Publishable {
		return nil, utils.NewConflictError("offering_unpublishable", "set a positive hourly rate before publishing")
	}
	o.Status = models.OfferingActive
	return s.persist(ctx, o, "published", actor)
}

// DeleteOffering soft-deletes an offering; past bookings keep referencing it.
func (s *DefaultOfferingService) DeleteOffering(ctx context.Context, actor models.Actor, offeringID string) (*models.ProviderServiceOffering, error) {
	o, err := s.loadOwned(ctx, actor, offeringID)
	if err != nil {
		return nil, err
	}
	o.Status = models.OfferingDeleted
	return s.persist(ctx, o, "deleted", actor)
}

// DeactivateMonth takes an active offering offline for the rest of the current
// provider-local month and records the batch. Reactivation is manual.
func (s *DefaultOfferingService) DeactivateMonth(ctx context.Context, actor models.Actor, offeringID string) (*models.ProviderServiceOffering, error) {
	o, err := s.loadOwned(ctx, actor, offeringID)
	if err != nil {
		return nil, err
	}
	if o.Status != models.OfferingActive {
		return nil, utils.NewConflictError("offering_not_active", "only an active offering can be deactivated, this one is %s", o.Status)
	}

	loc, err := s.providerZone(ctx, o.ProviderID)
	if err != nil {
		return nil, err
	}
	from, to := MonthRemainder(s.now(), loc)
	o.DeactivationBatches = append(o.DeactivationBatches, models.DeactivationBatch{
		BatchID:   uuid.New().String(),
		FromDate:  from,
		ToDate:    to,
		CreatedAt: s.now(),
	})
	o.Status = models.OfferingInactive
	return s.persist(ctx, o, "deactivated", actor)
}

// ActivateMonth flips an inactive offering back to active.
func (s *DefaultOfferingService) ActivateMonth(ctx context.Context, actor models.Actor, offeringID string) (*models.ProviderServiceOffering, error) {
	o, err := s.loadOwned(ctx, actor, offeringID)
	if err != nil {
		return nil, err
	}
	if o.Status != models.OfferingInactive {
		return nil, utils.NewConflictError("offering_not_inactive", "only an inactive offering can be reactivated, this one is %s", o.Status)
	}
	o.RefreshPublishable()
	if !o.Publishable {
		return nil, utils.NewConflictError("offering_unpublishable", "set a positive hourly rate before reactivating")
	}
	o.Status = models.OfferingActive
	return s.persist(ctx, o, "activated", actor)
}

func (s *DefaultOfferingService) providerZone(ctx context.Context, providerID string) (*time.Location, error) {
	tz := s.DefaultTimezone
	profile, err := s.Profiles.GetByProviderID(ctx, providerID)
	switch {
	case err == nil:
		tz = profile.Timezone
	case !errors.Is(err, database.ErrNotFound):
		return nil, utils.WrapInternal(err, "failed to load availability profile")
	}
	if tz == "" {
		tz = "UTC"
	}
	loc, err := availability.LoadZone(tz)
	if err != nil {
		return nil, utils.WrapInternal(err, "invalid provider timezone")
	}
	return loc, nil
}

// MonthRemainder returns today and the last day of this month, both as dates in loc.
func MonthRemainder(now time.Time, loc *time.Location) (string, string) {
	local := now.In(loc)
	last := time.Date(local.Year(), local.Month()+1, 0, 0, 0, 0, 0, loc)
	return local.Format(availability.DateLayout), last.Format(availability.DateLayout)
}
