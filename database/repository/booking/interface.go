package bookingRepo

import (
	"context"
	"time"

	"handyhub/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRepository persists bookings. Writes after creation go through
// UpdateIfVersion so concurrent transitions on one booking cannot both land.
type BookingRepository interface {
	// CreateIfNoOverlap inserts booking unless a pending or confirmed booking
	// of the same provider overlaps its [startUtc, endUtc). Returns
	// database.ErrOverlap in that case. Creations for one provider are
	// serialized through a per-provider lock document in the same transaction.
	CreateIfNoOverlap(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	// FindBlocking loads pending/confirmed bookings of a provider intersecting [from, to).
	FindBlocking(ctx context.Context, providerID string, from, to time.Time) ([]models.Booking, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	// UpdateIfVersion writes the mutable fields of booking when the stored
	// version still equals booking.Version, then bumps the version. Returns
	// database.ErrVersionConflict when another writer got there first.
	UpdateIfVersion(ctx context.Context, booking *models.Booking) error
	EnsureIndexes() error
}

type mongoBookingRepo struct {
	coll  *mongo.Collection
	locks *mongo.Collection
}

func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	return &mongoBookingRepo{
		coll:  db.Collection("bookings"),
		locks: db.Collection("booking_locks"),
	}
}
