package booking

import (
	"context"
	"time"

	"handyhub/models"
	"handyhub/services/availability"
	"handyhub/services/tasks"
	"handyhub/utils"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// BookingService creates bookings and drives them through their lifecycle.
type BookingService interface {
	CreateBooking(ctx context.Context, actor models.Actor, input models.BookingRequestInput) (*models.Booking, error)
	GetBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context, actor models.Actor, filter models.BookingFilter) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, actor models.Actor, bookingID string, input models.StatusUpdateInput) (*models.Booking, error)
	RequestCancellation(ctx context.Context, actor models.Actor, bookingID string, input models.CancellationRequestInput) (*models.Booking, *models.CancellationRequest, error)
	RespondCancellation(ctx context.Context, actor models.Actor, bookingID, requestID, action string) (*models.Booking, error)
	ExpireCancellationRequests(ctx context.Context, bookingID string) (int, error)
}

// BookingStore is the persistence the service needs.
type BookingStore interface {
	CreateIfNoOverlap(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	UpdateIfVersion(ctx context.Context, booking *models.Booking) error
}

type CatalogReader interface {
	GetByID(ctx context.Context, serviceID string) (*models.CatalogService, error)
}

type OfferingReader interface {
	GetByProviderAndService(ctx context.Context, providerID, serviceID string) (*models.ProviderServiceOffering, error)
}

// FreeTimeFinder reports a provider's free time on one date.
type FreeTimeFinder interface {
	FreeIntervals(ctx context.Context, providerID, serviceID, date string, emergency bool) (*availability.DayAvailability, error)
}

// Settings are the tunables of the booking flow.
type Settings struct {
	EmergencySurchargeRate float64
	CancellationRequestTTL time.Duration
	LockTTL                time.Duration
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Bookings     BookingStore
	Catalog      CatalogReader
	Offerings    OfferingReader
	Availability FreeTimeFinder
	Locker       utils.Locker
	Scheduler    tasks.Scheduler
	Clock        utils.Clock
	Settings     Settings
	Logger       *zap.Logger
	Metrics      *utils.Metrics
	Validate     *validator.Validate
}

var defaultValidator = utils.NewValidator()

func (s *DefaultBookingService) validator() *validator.Validate {
	if s.Validate == nil {
		return defaultValidator
	}
	return s.Validate
}

func (s *DefaultBookingService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}

func (s *DefaultBookingService) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
