package availability

import (
	"context"
	"time"

	"handyhub/models"
	"handyhub/utils"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// AvailabilityService resolves bookable slots and manages provider profiles.
type AvailabilityService interface {
	Resolve(ctx context.Context, q models.ResolveQuery) (*models.AvailabilityResult, error)
	FreeIntervals(ctx context.Context, providerID, serviceID, date string, emergency bool) (*DayAvailability, error)
	GetProfile(ctx context.Context, providerID string) (*models.AvailabilityProfile, error)
	SaveProfile(ctx context.Context, actor models.Actor, providerID string, input models.AvailabilityInput) (*models.AvailabilityProfile, error)
}

// ProfileStore persists availability profiles.
type ProfileStore interface {
	GetByProviderID(ctx context.Context, providerID string) (*models.AvailabilityProfile, error)
	Upsert(ctx context.Context, profile *models.AvailabilityProfile) error
}

// OfferingReader looks up a provider's offering for a catalog service.
type OfferingReader interface {
	GetByProviderAndService(ctx context.Context, providerID, serviceID string) (*models.ProviderServiceOffering, error)
}

// CatalogReader reads catalog services.
type CatalogReader interface {
	GetByID(ctx context.Context, serviceID string) (*models.CatalogService, error)
}

// BlockingBookingFinder loads pending/confirmed bookings intersecting [from, to).
type BlockingBookingFinder interface {
	FindBlocking(ctx context.Context, providerID string, from, to time.Time) ([]models.Booking, error)
}

// Settings are the tunables of the resolver.
type Settings struct {
	MinLeadMinutes     int
	DefaultStepMinutes int
	MaxResolveDays     int
	DefaultTimezone    string
}

// DefaultAvailabilityService implements AvailabilityService.
type DefaultAvailabilityService struct {
	Profiles  ProfileStore
	Offerings OfferingReader
	Catalog   CatalogReader
	Bookings  BlockingBookingFinder
	Clock     utils.Clock
	Settings  Settings
	Logger    *zap.Logger
	Metrics   *utils.Metrics
	Validate  *validator.Validate
}

var defaultValidator = utils.NewValidator()

func (s *DefaultAvailabilityService) validator() *validator.Validate {
	if s.Validate == nil {
		return defaultValidator
	}
	return s.Validate
}

func (s *DefaultAvailabilityService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}

func (s *DefaultAvailabilityService) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
