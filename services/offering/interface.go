package offering

import (
	"context"
	"time"

	"handyhub/models"
	"handyhub/utils"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// OfferingService manages a provider's sellable offerings.
type OfferingService interface {
	SyncOfferings(ctx context.Context, providerID string) (int, error)
	ListOfferings(ctx context.Context, providerID string) ([]models.ProviderServiceOffering, error)
	UpdateOffering(ctx context.Context, actor models.Actor, offeringID string, input models.OfferingUpdateInput) (*models.ProviderServiceOffering, error)
	PublishOffering(ctx context.Context, actor models.Actor, offeringID string) (*models.ProviderServiceOffering, error)
	DeleteOffering(ctx context.Context, actor models.Actor, offeringID string) (*models.ProviderServiceOffering, error)
	DeactivateMonth(ctx context.Context, actor models.Actor, offeringID string) (*models.ProviderServiceOffering, error)
	ActivateMonth(ctx context.Context, actor models.Actor, offeringID string) (*models.ProviderServiceOffering, error)
}

type OfferingStore interface {
	GetByID(ctx context.Context, offeringID string) (*models.ProviderServiceOffering, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.ProviderServiceOffering, error)
	EnsureExists(ctx context.Context, offering *models.ProviderServiceOffering) (bool, error)
	Replace(ctx context.Context, offering *models.ProviderServiceOffering) error
}

type CatalogLister interface {
	ListByProvider(ctx context.Context, providerID string) ([]models.CatalogService, error)
}

type ProfileReader interface {
	GetByProviderID(ctx context.Context, providerID string) (*models.AvailabilityProfile, error)
}

// DefaultOfferingService implements OfferingService.
type DefaultOfferingService struct {
	Offerings       OfferingStore
	Catalog         CatalogLister
	Profiles        ProfileReader
	Clock           utils.Clock
	DefaultTimezone string
	// DefaultEmergencyLeadMinutes seeds new offerings; providers may later set any value, 0 included.
	DefaultEmergencyLeadMinutes int
	Logger                      *zap.Logger
	Validate                    *validator.Validate
}

var defaultValidator = utils.NewValidator()

func (s *DefaultOfferingService) validator() *validator.Validate {
	if s.Validate == nil {
		return defaultValidator
	}
	return s.Validate
}

func (s *DefaultOfferingService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}

func (s *DefaultOfferingService) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
