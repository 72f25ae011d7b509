package availability

import (
	"context"
	"errors"
	"time"

	"handyhub/database"
	"handyhub/models"
	"handyhub/utils"

	"go.uber.org/zap"
)

// GetProfile returns the stored profile of a provider.
func (s *DefaultAvailabilityService) GetProfile(ctx context.Context, providerID string) (*models.AvailabilityProfile, error) {
	if providerID == "" {
		return nil, utils.NewValidationError("invalid_provider", "providerId is required")
	}
	profile, err := s.Profiles.GetByProviderID(ctx, providerID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NewNotFoundError("profile_not_found", "provider %s has no availability profile", providerID)
		}
		return nil, utils.WrapInternal(err, "failed to load availability profile")
	}
	return profile, nil
}

// SaveProfile fully replaces a provider's weekly pattern and exceptions. The
// profile is created on first save.
func (s *DefaultAvailabilityService) SaveProfile(ctx context.Context, actor models.Actor, providerID string, input models.AvailabilityInput) (*models.AvailabilityProfile, error) {
	if providerID == "" {
		return nil, utils.NewValidationError("invalid_provider", "providerId is required")
	}
	if !actor.CanManageProvider(providerID) {
		return nil, utils.NewForbiddenError("not_owner", "only the provider or an admin can change this availability")
	}
	if err := s.validator().Struct(input); err != nil {
		return nil, utils.NewValidationError("invalid_availability", "%s", utils.ValidationMessage(err))
	}
	if _, err := LoadZone(input.Timezone); err != nil {
		return nil, utils.NewValidationError("invalid_timezone", "%v", err)
	}
	if err := ValidateWeekly(input.Weekly); err != nil {
		return nil, utils.NewValidationError("invalid_weekly", "%v", err)
	}
	if err := ValidateExceptions(input.Exceptions); err != nil {
		return nil, utils.NewValidationError("invalid_exceptions", "%v", err)
	}

	now := s.now()
	profile := &models.AvailabilityProfile{
		ProviderID: providerID,
		Timezone:   input.Timezone,
		Weekly:     input.Weekly,
		Exceptions: input.Exceptions,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if profile.Exceptions == nil {
		profile.Exceptions = []models.ExceptionDay{}
	}

	existing, err := s.Profiles.GetByProviderID(ctx, providerID)
	switch {
	case err == nil:
		profile.CreatedAt = existing.CreatedAt
	case !errors.Is(err, database.ErrNotFound):
		return nil, utils.WrapInternal(err, "failed to load availability profile")
	}

	if err := s.Profiles.Upsert(ctx, profile); err != nil {
		return nil, utils.WrapInternal(err, "failed to save availability profile")
	}
	s.logger().Info("availability profile saved",
		zap.String("providerID", providerID),
		zap.String("actorID", actor.ID),
		zap.String("timezone", profile.Timezone),
		zap.Int("exceptions", len(profile.Exceptions)),
		zap.Duration("sinceCreate", now.Sub(profile.CreatedAt).Truncate(time.Second)))
	return profile, nil
}
